package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "mentorbook/pkg/errors"
	httputil "mentorbook/pkg/http"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/middleware"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock service for testing
type mockMentorService struct {
	getAllFunc func(ctx context.Context, limit int, offset int64) ([]*model.Mentor, int64, error)
	created    *model.Mentor
	deleted    string
}

func (m *mockMentorService) Create(ctx context.Context, mentor *model.Mentor) error {
	mentor.ID = "507f1f77bcf86cd799439011"
	m.created = mentor
	return nil
}

func (m *mockMentorService) GetByID(ctx context.Context, id string) (*model.Mentor, error) {
	if id != "507f1f77bcf86cd799439011" {
		return nil, apperrors.NotFoundWithID("Mentor", id)
	}
	return &model.Mentor{ID: id, Name: "Asha Rao", IsActive: true}, nil
}

func (m *mockMentorService) ListActive(ctx context.Context) ([]*model.Mentor, error) {
	return []*model.Mentor{{Name: "Asha Rao", IsActive: true, Order: 1}}, nil
}

func (m *mockMentorService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Mentor, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, limit, offset)
	}
	return []*model.Mentor{}, 0, nil
}

func (m *mockMentorService) Update(ctx context.Context, id string, updates *model.MentorUpdate) (*model.Mentor, error) {
	return &model.Mentor{ID: id, Name: updates.Name}, nil
}

func (m *mockMentorService) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

func setupRouter(svc *mockMentorService) http.Handler {
	log := logger.New(logger.Config{Output: io.Discard})
	router := httprouter.New()
	NewMentorHandler(svc, log).RegisterRoutes(router)
	return middleware.Identity(log)(router)
}

func serve(h http.Handler, method, target, body string, admin bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if admin {
		req.Header.Set(middleware.HeaderUserID, "admin-1")
		req.Header.Set(middleware.HeaderUserRole, model.RoleAdmin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	h := setupRouter(&mockMentorService{})

	rec := serve(h, http.MethodGet, "/api/v1/mentors", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []model.Mentor `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)

	rec = serve(h, http.MethodGet, "/api/v1/mentors/id/507f1f77bcf86cd799439011", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/api/v1/mentors/id/507f1f77bcf86cd799439099", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	svc := &mockMentorService{}
	h := setupRouter(svc)

	rec := serve(h, http.MethodPost, "/api/v1/admin/mentors", `{"name":"Asha Rao","bio":"b"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, svc.created)

	rec = serve(h, http.MethodPost, "/api/v1/admin/mentors", `{"name":"Asha Rao","bio":"b","is_active":true}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.True(t, svc.created.IsActive)

	rec = serve(h, http.MethodPatch, "/api/v1/admin/mentors/id/507f1f77bcf86cd799439011", `{"name":"Asha R"}`, true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodPatch, "/api/v1/admin/mentors/id/507f1f77bcf86cd799439011", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodDelete, "/api/v1/admin/mentors/id/507f1f77bcf86cd799439011", "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "507f1f77bcf86cd799439011", svc.deleted)
}

func TestGetAll_InvalidQueryParameters(t *testing.T) {
	var receivedLimit int
	var receivedOffset int64
	svc := &mockMentorService{
		getAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Mentor, int64, error) {
			receivedLimit, receivedOffset = limit, offset
			return []*model.Mentor{}, 0, nil
		},
	}
	h := setupRouter(svc)

	rec := serve(h, http.MethodGet, "/api/v1/admin/mentors?limit=abc", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodGet, "/api/v1/admin/mentors?limit=20&offset=40", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, receivedLimit)
	assert.Equal(t, int64(40), receivedOffset)

	var resp httputil.PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 20, resp.Limit)
}
