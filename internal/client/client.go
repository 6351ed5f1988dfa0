// Package client is a Go client for the booking API.
//
// The client holds no credentials. Every authenticated call takes the
// session token as an argument, so one Client can serve many users at once.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"appointment_booking/internal/model"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token  string     `json:"token"`
	UserID string     `json:"user_id"`
	Role   model.Role `json:"role"`
}

// Client talks to the booking API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for baseURL (e.g. "http://localhost:8080").
// A nil httpClient gets a default with a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Register creates an account and returns its id.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	var resp struct {
		UserID string `json:"user_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/register", "", req, &resp); err != nil {
		return "", err
	}
	return resp.UserID, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var resp LoginResult
	req := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListUsers returns every registered user.
func (c *Client) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	var users []model.User
	err := c.do(ctx, http.MethodGet, "/api/users", token, nil, &users)
	return users, err
}

// ListTeachers returns id and name of every teacher.
func (c *Client) ListTeachers(ctx context.Context, token string) ([]model.UserSummary, error) {
	var teachers []model.UserSummary
	err := c.do(ctx, http.MethodGet, "/api/users/teachers", token, nil, &teachers)
	return teachers, err
}

// BatchUsers resolves ids to names, in request order. Unknown ids are left out.
func (c *Client) BatchUsers(ctx context.Context, token string, ids []string) ([]model.UserSummary, error) {
	var users []model.UserSummary
	err := c.do(ctx, http.MethodPost, "/api/users/batch", token, model.BatchUsersRequest{UserIDs: ids}, &users)
	return users, err
}

// CreateAppointment books a pending appointment as the student owning token.
func (c *Client) CreateAppointment(ctx context.Context, token string, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	var a model.Appointment
	if err := c.do(ctx, http.MethodPost, "/api/appointments", token, req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAppointments returns the caller's appointments.
func (c *Client) ListAppointments(ctx context.Context, token string) ([]model.Appointment, error) {
	var list []model.Appointment
	err := c.do(ctx, http.MethodGet, "/api/appointments", token, nil, &list)
	return list, err
}

// UpdateAppointmentStatus confirms or rejects a pending appointment.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, token, id string, status model.AppointmentStatus) (*model.Appointment, error) {
	var resp struct {
		Appointment model.Appointment `json:"appointment"`
	}
	path := "/api/appointments/" + url.PathEscape(id) + "/updateStatus"
	if err := c.do(ctx, http.MethodPut, path, token, model.UpdateStatusRequest{Status: status}, &resp); err != nil {
		return nil, err
	}
	return &resp.Appointment, nil
}

// DeleteAppointment removes one of the student's own appointments.
func (c *Client) DeleteAppointment(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/appointments/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
