package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/internal/mentors/validator"
	"mentorbook/pkg/config"
	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ────────────────────────────────────────────────
// In-memory repository
// ────────────────────────────────────────────────

type memoryMentorRepository struct {
	mu      sync.Mutex
	mentors map[string]*model.Mentor
	seq     int
	failAll error
}

func newMemoryRepo() *memoryMentorRepository {
	return &memoryMentorRepository{mentors: map[string]*model.Mentor{}}
}

func (m *memoryMentorRepository) Create(_ context.Context, mentor *model.Mentor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	mentor.ID = fmt.Sprintf("%024x", m.seq)
	mentor.CreatedAt = time.Now().UTC()
	stored := *mentor
	m.mentors[mentor.ID] = &stored
	return nil
}

func (m *memoryMentorRepository) FindByID(_ context.Context, id string) (*model.Mentor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(id) != 24 {
		return nil, mentorserrors.ErrInvalidID
	}
	mentor, ok := m.mentors[id]
	if !ok {
		return nil, mentorserrors.ErrNotFound
	}
	copied := *mentor
	return &copied, nil
}

func (m *memoryMentorRepository) FindActive(_ context.Context) ([]*model.Mentor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []*model.Mentor
	for _, mentor := range m.mentors {
		if mentor.IsActive {
			active = append(active, mentor)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Order < active[j].Order })
	return active, nil
}

func (m *memoryMentorRepository) FindAll(_ context.Context, limit int, offset int64) ([]*model.Mentor, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*model.Mentor
	for _, mentor := range m.mentors {
		all = append(all, mentor)
	}
	return all, nil
}

func (m *memoryMentorRepository) Update(_ context.Context, id string, mentor *model.Mentor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.mentors[id]; !ok {
		return mentorserrors.ErrNotFound
	}
	stored := *mentor
	m.mentors[id] = &stored
	return nil
}

func (m *memoryMentorRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.mentors[id]; !ok {
		return mentorserrors.ErrNotFound
	}
	delete(m.mentors, id)
	return nil
}

func (m *memoryMentorRepository) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.mentors)), nil
}

func newTestService(repo *memoryMentorRepository) MentorService {
	log := logger.New(logger.Config{Output: io.Discard})
	cfg := &config.Config{Log: log, ReadTimeout: time.Second, WriteTimeout: time.Second}
	return NewMentorService(repo, validator.NewMentorValidator(log), cfg)
}

func seed(t *testing.T, svc MentorService, name string, order int, active bool) *model.Mentor {
	t.Helper()
	m := &model.Mentor{Name: name, Bio: "Mentor bio", Order: order, IsActive: active}
	require.NoError(t, svc.Create(context.Background(), m))
	return m
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestCreate_SanitizesAndValidates(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	m := &model.Mentor{Name: "  Asha   Rao ", Bio: "Bio", LinkedIn: "HTTP://LinkedIn.com/in/asha/", IsActive: true}
	require.NoError(t, svc.Create(context.Background(), m))
	assert.Equal(t, "Asha Rao", m.Name)
	assert.Equal(t, "https://linkedin.com/in/asha", m.LinkedIn)
	assert.NotEmpty(t, m.ID)

	err := svc.Create(context.Background(), &model.Mentor{Name: "A"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
	assert.Contains(t, apperrors.AsAppError(err).Details, "Bio")
}

func TestListActive_SortedByOrder(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	seed(t, svc, "Third", 3, true)
	seed(t, svc, "First", 1, true)
	seed(t, svc, "Hidden", 0, false)

	mentors, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, mentors, 2)
	assert.Equal(t, "First", mentors[0].Name)
	assert.Equal(t, "Third", mentors[1].Name)
}

func TestGetByID_Errors(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.GetByID(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, err = svc.GetByID(context.Background(), "short")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, err = svc.GetByID(context.Background(), "507f1f77bcf86cd799439099")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	m := seed(t, svc, "Asha Rao", 2, true)

	inactive := false
	updated, err := svc.Update(context.Background(), m.ID, &model.MentorUpdate{Bio: "  New   bio ", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", updated.Name)
	assert.Equal(t, "New bio", updated.Bio)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 2, updated.Order)

	order := 2000
	_, err = svc.Update(context.Background(), m.ID, &model.MentorUpdate{Order: &order})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Update(context.Background(), "507f1f77bcf86cd799439099", &model.MentorUpdate{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestDelete(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	m := seed(t, svc, "Asha Rao", 1, true)

	require.NoError(t, svc.Delete(context.Background(), m.ID))
	err := svc.Delete(context.Background(), m.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestGetAll_PropagatesRepositoryFailure(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seed(t, svc, "Asha Rao", 1, true)

	mentors, total, err := svc.GetAll(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Len(t, mentors, 1)
	assert.Equal(t, int64(1), total)

	repo.failAll = fmt.Errorf("connection reset")
	_, _, err = svc.GetAll(context.Background(), 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}
