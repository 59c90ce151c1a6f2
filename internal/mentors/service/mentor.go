package service

import (
	"context"
	"errors"
	"sync"

	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/internal/mentors/repository"
	"mentorbook/internal/mentors/validator"
	"mentorbook/internal/validation"
	"mentorbook/pkg/config"
	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/model"
	"mentorbook/pkg/sanitizer"
)

type MentorService interface {
	Create(ctx context.Context, mentor *model.Mentor) error
	GetByID(ctx context.Context, id string) (*model.Mentor, error)
	ListActive(ctx context.Context) ([]*model.Mentor, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Mentor, int64, error)
	Update(ctx context.Context, id string, updates *model.MentorUpdate) (*model.Mentor, error)
	Delete(ctx context.Context, id string) error
}

type mentorService struct {
	repo      repository.MentorRepository
	validator *validator.MentorValidator
	cfg       *config.Config
}

func NewMentorService(
	repo repository.MentorRepository,
	validator *validator.MentorValidator,
	cfg *config.Config,
) MentorService {
	return &mentorService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *mentorService) Create(ctx context.Context, mentor *model.Mentor) error {
	s.sanitize(mentor)

	if err := s.validator.Validate(mentor); err != nil {
		return s.invalid("Mentor validation failed", mentor.Name, err)
	}

	if err := s.repo.Create(ctx, mentor); err != nil {
		s.cfg.Log.Error("Failed to create mentor", "name", mentor.Name, "error", err)
		return apperrors.Internal("Failed to create mentor", err)
	}

	s.cfg.Log.Info("Mentor created successfully",
		"id", mentor.ID,
		"name", mentor.Name,
		"is_active", mentor.IsActive,
	)
	return nil
}

func (s *mentorService) GetByID(ctx context.Context, id string) (*model.Mentor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Mentor ID cannot be empty")
	}

	mentor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve mentor")
	}
	return mentor, nil
}

func (s *mentorService) ListActive(ctx context.Context) ([]*model.Mentor, error) {
	mentors, err := s.repo.FindActive(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list active mentors", "error", err)
		return nil, apperrors.Internal("Failed to retrieve mentors", err)
	}
	return mentors, nil
}

func (s *mentorService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Mentor, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var mentors []*model.Mentor
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count mentors", "error", err)
			errCount = apperrors.Internal("Failed to count mentors", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		mentors, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all mentors",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve mentors", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return mentors, count, nil
}

func (s *mentorService) Update(ctx context.Context, id string, updates *model.MentorUpdate) (*model.Mentor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Mentor ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to check mentor existence")
	}

	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, s.invalid("Mentor validation failed", existing.Name, err)
	}

	merged := mergeMentorUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		return nil, s.invalid("Mentor validation failed", merged.Name, err)
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return nil, s.translate(err, id, "Failed to update mentor")
	}

	s.cfg.Log.Info("Mentor updated successfully",
		"id", id,
		"name", merged.Name,
		"is_active", merged.IsActive,
	)
	return merged, nil
}

// Delete removes the mentor document. Existing bookings keep the mentor id.
func (s *mentorService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Mentor ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, id, "Failed to delete mentor")
	}

	s.cfg.Log.Info("Mentor deleted successfully", "id", id)
	return nil
}

func (s *mentorService) sanitize(mentor *model.Mentor) {
	mentor.Name = sanitizer.NormalizeName(mentor.Name)
	mentor.Bio = sanitizer.NormalizeText(mentor.Bio)
	mentor.Photo = sanitizer.NormalizeURL(mentor.Photo)
	mentor.LinkedIn = sanitizer.NormalizeURL(mentor.LinkedIn)
	mentor.Instagram = sanitizer.NormalizeURL(mentor.Instagram)
}

func (s *mentorService) sanitizeUpdate(updates *model.MentorUpdate) {
	if updates.Name != "" {
		updates.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Bio != "" {
		updates.Bio = sanitizer.NormalizeText(updates.Bio)
	}
	if updates.Photo != "" {
		updates.Photo = sanitizer.NormalizeURL(updates.Photo)
	}
	if updates.LinkedIn != "" {
		updates.LinkedIn = sanitizer.NormalizeURL(updates.LinkedIn)
	}
	if updates.Instagram != "" {
		updates.Instagram = sanitizer.NormalizeURL(updates.Instagram)
	}
}

func mergeMentorUpdates(existing *model.Mentor, updates *model.MentorUpdate) *model.Mentor {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Bio != "" {
		merged.Bio = updates.Bio
	}
	if updates.Photo != "" {
		merged.Photo = updates.Photo
	}
	if updates.LinkedIn != "" {
		merged.LinkedIn = updates.LinkedIn
	}
	if updates.Instagram != "" {
		merged.Instagram = updates.Instagram
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	if updates.Order != nil {
		merged.Order = *updates.Order
	}

	return &merged
}

func (s *mentorService) translate(err error, id string, message string) error {
	switch {
	case errors.Is(err, mentorserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Mentor", id)
	case errors.Is(err, mentorserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid mentor ID format")
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *mentorService) invalid(message, name string, err error) error {
	s.cfg.Log.Warn(message, "name", name, "error", err)
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.InvalidInput(message).WithDetails(verrs.Details())
	}
	return apperrors.InvalidInput(message)
}
