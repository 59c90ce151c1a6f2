package service

import (
	"context"
	"time"

	"mentorbook/internal/bookings/repository"
	"mentorbook/pkg/config"
	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/locale"
	"mentorbook/pkg/model"

	"golang.org/x/sync/errgroup"
)

const popularSlotsLimit = 5

type AnalyticsService interface {
	GetAnalytics(ctx context.Context) (*model.Analytics, error)
}

type analyticsService struct {
	repo    repository.AnalyticsRepository
	mentors MentorLookup
	locale  *locale.Locale
	cfg     *config.Config
	now     func() time.Time
}

func NewAnalyticsService(repo repository.AnalyticsRepository, mentors MentorLookup, cfg *config.Config) AnalyticsService {
	return &analyticsService{
		repo:    repo,
		mentors: mentors,
		locale:  locale.New(cfg.Location),
		cfg:     cfg,
		now:     time.Now,
	}
}

// GetAnalytics runs the independent aggregations concurrently. Counts skip
// cancelled bookings; revenue only counts confirmed and completed ones.
func (s *analyticsService) GetAnalytics(ctx context.Context) (*model.Analytics, error) {
	now := s.now()
	today := s.locale.Day(now)
	tomorrow := s.locale.NextDay(now)
	weekStart := s.locale.StartOfWeek(now)
	monthStart := s.locale.StartOfMonth(now)

	var out model.Analytics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.Bookings.Total, err = s.repo.CountNotCancelled(gctx, nil, nil)
		return err
	})
	g.Go(func() (err error) {
		out.Bookings.Today, err = s.repo.CountNotCancelled(gctx, &today, &tomorrow)
		return err
	})
	g.Go(func() (err error) {
		out.Bookings.Week, err = s.repo.CountNotCancelled(gctx, &weekStart, nil)
		return err
	})
	g.Go(func() (err error) {
		out.Bookings.Month, err = s.repo.CountNotCancelled(gctx, &monthStart, nil)
		return err
	})
	g.Go(func() (err error) {
		out.Revenue.Total, err = s.repo.SumRevenue(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		out.Revenue.Month, err = s.repo.SumRevenue(gctx, &monthStart)
		return err
	})
	g.Go(func() (err error) {
		out.MentorStats, err = s.repo.MentorStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.PopularSlots, err = s.repo.PopularSlots(gctx, popularSlotsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to compute analytics", "error", err)
		return nil, apperrors.Internal("Failed to compute analytics", err)
	}

	for i := range out.MentorStats {
		mentor, err := s.mentors.FindByID(ctx, out.MentorStats[i].MentorID)
		if err != nil {
			s.cfg.Log.Debug("Mentor missing from analytics", "mentor_id", out.MentorStats[i].MentorID, "error", err)
			continue
		}
		out.MentorStats[i].MentorName = mentor.Name
	}

	return &out, nil
}
