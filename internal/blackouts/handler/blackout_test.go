package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/middleware"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBlackoutService struct {
	blockReq   *model.BlockRequest
	blockedBy  model.Actor
	unblockReq *model.UnblockRequest
	month      int
	year       int
	start, end string
}

func (m *mockBlackoutService) Block(ctx context.Context, req *model.BlockRequest, actor model.Actor) (*model.Blackout, error) {
	m.blockReq, m.blockedBy = req, actor
	return &model.Blackout{ID: "b1", IsFullDay: req.IsFullDay}, nil
}

func (m *mockBlackoutService) Unblock(ctx context.Context, id string, req *model.UnblockRequest) (*model.UnblockResult, error) {
	m.unblockReq = req
	if id == "missing" {
		return nil, apperrors.NotFoundWithID("Blackout", id)
	}
	return &model.UnblockResult{ID: id, Removed: len(req.TimeSlots) == 0}, nil
}

func (m *mockBlackoutService) ListForMonth(ctx context.Context, month, year int) ([]*model.Blackout, error) {
	m.month, m.year = month, year
	return []*model.Blackout{}, nil
}

func (m *mockBlackoutService) ListForRange(ctx context.Context, startDate, endDate string) ([]*model.Blackout, error) {
	m.start, m.end = startDate, endDate
	return []*model.Blackout{}, nil
}

func setup(svc *mockBlackoutService) http.Handler {
	log := logger.New(logger.Config{Output: io.Discard})
	router := httprouter.New()
	NewBlackoutHandler(svc, log).RegisterRoutes(router)
	return middleware.Identity(log)(router)
}

func request(h http.Handler, method, target, body, role string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(middleware.HeaderUserID, "u-1")
	req.Header.Set(middleware.HeaderUserRole, role)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBlock(t *testing.T) {
	svc := &mockBlackoutService{}
	h := setup(svc)

	rec := request(h, http.MethodPost, "/api/v1/admin/blackouts", `{"date":"2025-06-10","is_full_day":true}`, model.RoleUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, svc.blockReq)

	rec = request(h, http.MethodPost, "/api/v1/admin/blackouts", `{"date":"2025-06-10","is_full_day":true,"reason":"Diwali"}`, model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Diwali", svc.blockReq.Reason)
	assert.Equal(t, "u-1", svc.blockedBy.ID)
}

func TestUnblock_OptionalBody(t *testing.T) {
	svc := &mockBlackoutService{}
	h := setup(svc)

	rec := request(h, http.MethodDelete, "/api/v1/admin/blackouts/id/b1", "", model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":true`)

	rec = request(h, http.MethodDelete, "/api/v1/admin/blackouts/id/b1", `{"time_slots":["15:00-16:00"]}`, model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"15:00-16:00"}, svc.unblockReq.TimeSlots)

	rec = request(h, http.MethodDelete, "/api/v1/admin/blackouts/id/missing", "", model.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_QueryForms(t *testing.T) {
	svc := &mockBlackoutService{}
	h := setup(svc)

	rec := request(h, http.MethodGet, "/api/v1/admin/blackouts?month=6&year=2025", "", model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, svc.month)
	assert.Equal(t, 2025, svc.year)

	rec = request(h, http.MethodGet, "/api/v1/admin/blackouts?startDate=2025-06-01&endDate=2025-06-07", "", model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-06-01", svc.start)
	assert.Equal(t, "2025-06-07", svc.end)

	for _, q := range []string{"", "?month=june&year=2025", "?month=6", "?startDate=2025-06-01"} {
		rec = request(h, http.MethodGet, "/api/v1/admin/blackouts"+q, "", model.RoleAdmin)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
