package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"mentorbook/pkg/middleware"
	"mentorbook/pkg/model"
)

// BookingClient calls the mentorbook API as a given caller. Identity is
// carried in the headers the upstream gateway would set.
type BookingClient struct {
	httpClient *HttpClient
	actor      model.Actor
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

// As returns a client that sends requests as actor.
func (c *BookingClient) As(actor model.Actor) *BookingClient {
	return &BookingClient{httpClient: c.httpClient, actor: actor}
}

func (c *BookingClient) do(ctx context.Context, method, path string, body any) (*Response, error) {
	headers := map[string]string{}
	if c.actor.ID != "" {
		headers[middleware.HeaderUserID] = c.actor.ID
		headers[middleware.HeaderUserRole] = c.actor.Role
	}
	if c.actor.Email != "" {
		headers[middleware.HeaderUserEmail] = c.actor.Email
	}
	if c.actor.Name != "" {
		headers[middleware.HeaderUserName] = c.actor.Name
	}
	return c.httpClient.Do(ctx, method, path, body, headers)
}

func (c *BookingClient) Availability(ctx context.Context, date, mentorID string) (*Response, error) {
	q := url.Values{}
	q.Set("date", date)
	if mentorID != "" {
		q.Set("mentorId", mentorID)
	}
	return c.do(ctx, http.MethodGet, "/api/v1/availability?"+q.Encode(), nil)
}

func (c *BookingClient) Confirm(ctx context.Context, req *model.BookingRequest) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/bookings", req)
}

func (c *BookingClient) ListMine(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/bookings/my", nil)
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/bookings/id/"+url.PathEscape(id), nil)
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, http.MethodPut, "/api/v1/bookings/id/"+url.PathEscape(id)+"/cancel", nil)
}

func (c *BookingClient) ListAll(ctx context.Context, filter url.Values, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	for k, v := range filter {
		q[k] = v
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.FormatInt(offset, 10))
	return c.do(ctx, http.MethodGet, "/api/v1/admin/bookings?"+q.Encode(), nil)
}

func (c *BookingClient) SetRemark(ctx context.Context, id string, remark *model.BookingRemark) (*Response, error) {
	return c.do(ctx, http.MethodPut, "/api/v1/admin/bookings/id/"+url.PathEscape(id)+"/remark", remark)
}

func (c *BookingClient) CreateMentor(ctx context.Context, mentor *model.Mentor) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/admin/mentors", mentor)
}

func (c *BookingClient) Block(ctx context.Context, req *model.BlockRequest) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/admin/blackouts", req)
}

// Unblock removes slots from a blackout, or the whole entry when slots is empty.
func (c *BookingClient) Unblock(ctx context.Context, id string, slots []string) (*Response, error) {
	var body any
	if len(slots) > 0 {
		body = &model.UnblockRequest{TimeSlots: slots}
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/blackouts/id/"+url.PathEscape(id), body)
}

func (c *BookingClient) Analytics(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/admin/analytics", nil)
}

// DecodeData unwraps the {"data": ...} envelope into target.
func DecodeData(resp *Response, target any) error {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return fmt.Errorf("could not decode response envelope (status %d): %w", resp.StatusCode, err)
	}
	if err := json.Unmarshal(wrapper.Data, target); err != nil {
		return fmt.Errorf("could not decode response data (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

type Metadata struct {
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.Booking, *Metadata, error) {
	var bookings []*model.Booking
	if err := DecodeData(resp, &bookings); err != nil {
		return nil, nil, err
	}

	var metadata Metadata
	if err := resp.DecodeJSON(&metadata); err != nil {
		return nil, nil, fmt.Errorf("could not decode pagination metadata: %w", err)
	}
	return bookings, &metadata, nil
}
