// Package api is the HTTP client for the student portal REST API. It attaches
// the bearer token from the session store and classifies every response into
// the shared error taxonomy so view controllers never look at status codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"evalportal/internal/session"
)

// Client calls the student portal API.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Sessions session.Store
}

// New creates a client with a configurable timeout.
func New(baseURL string, sessions session.Store, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:  baseURL,
		Sessions: sessions,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	out    interface{}

	// optional endpoints report 404 as ErrFeatureUnavailable rather than a
	// hard failure, so the UI can show a softer message.
	optional bool

	// noAuth skips the token precondition (login only).
	noAuth bool
}

func (c *Client) do(ctx context.Context, r request) error {
	var token string
	if !r.noAuth {
		tok, ok := c.Sessions.Get(session.KeyToken)
		if !ok || tok == "" {
			observe(r.path, outcomeUnauthenticated)
			return ErrUnauthenticated
		}
		token = tok
	}

	endpoint := c.BaseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var payload io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", r.path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, payload)
	if err != nil {
		return err
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		observe(r.path, outcomeNetworkError)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized && !r.noAuth:
		// The only path that mutates the session from inside the client. A 401
		// on the login request itself is just bad credentials and falls through
		// to the generic failure case.
		if err := c.Sessions.Clear(); err != nil {
			log.Printf("session clear after 401 failed: %v", err)
		}
		observe(r.path, outcomeSessionExpired)
		return ErrSessionExpired
	case resp.StatusCode == http.StatusNotFound && r.optional:
		observe(r.path, outcomeUnavailable)
		return ErrFeatureUnavailable
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		observe(r.path, outcomeFailed)
		return &RequestError{Status: resp.StatusCode, Message: serverMessage(resp)}
	}

	if r.out != nil {
		if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
			return fmt.Errorf("decode %s response: %w", r.path, err)
		}
	}
	observe(r.path, outcomeOK)
	return nil
}

// serverMessage extracts the JSON body's message field, falling back to the
// HTTP status text.
func serverMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return body.Message
	}
	return http.StatusText(resp.StatusCode)
}

// Login exchanges student credentials for a bearer token.
func (c *Client) Login(ctx context.Context, studentID, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/student/login",
		body:   map[string]string{"student_id": studentID, "password": password},
		out:    &out,
		noAuth: true,
	})
	return out, err
}

// AssignedEvaluations lists the student's pending evaluations.
func (c *Client) AssignedEvaluations(ctx context.Context) ([]EvaluationSummary, error) {
	var out []EvaluationSummary
	err := c.do(ctx, request{method: http.MethodGet, path: "/student/evaluations/assigned", out: &out})
	return out, err
}

// Profile fetches the student's profile record.
func (c *Client) Profile(ctx context.Context) (ProfileRecord, error) {
	var out ProfileRecord
	err := c.do(ctx, request{method: http.MethodGet, path: "/student/profile", out: &out})
	return out, err
}

// UpdateProfile sends a partial update containing only the changed field.
func (c *Client) UpdateProfile(ctx context.Context, field, value string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/student/profile/update",
		body:   map[string]string{field: value},
	})
}

// CompletedEvaluations lists the student's finished evaluations.
func (c *Client) CompletedEvaluations(ctx context.Context) ([]CompletedEvaluation, error) {
	var out []CompletedEvaluation
	err := c.do(ctx, request{method: http.MethodGet, path: "/student/evaluations/completed", out: &out})
	return out, err
}

// CompletedDetails fetches the feedback detail for one completed evaluation.
// courseCode may be empty.
func (c *Client) CompletedDetails(ctx context.Context, templateID, courseCode string) (FeedbackDetail, error) {
	q := url.Values{"template_id": {templateID}}
	if courseCode != "" {
		q.Set("course_code", courseCode)
	}
	var out FeedbackDetail
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/student/evaluations/completed/details",
		query:    q,
		out:      &out,
		optional: true,
	})
	return out, err
}

// Complaints lists the student's own complaints.
func (c *Client) Complaints(ctx context.Context) ([]Complaint, error) {
	var out []Complaint
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/student/complaints/list",
		out:      &out,
		optional: true,
	})
	return out, err
}

// SubmitComplaint files a new complaint.
func (c *Client) SubmitComplaint(ctx context.Context, sub ComplaintSubmission) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/student/complaints/submit", body: sub})
}

// SubmitFacultyRequest files a faculty request for an upcoming course.
func (c *Client) SubmitFacultyRequest(ctx context.Context, req FacultyRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/student/requests/faculty_request", body: req})
}

// Logout tells the portal to drop the session server-side. Best effort; the
// caller clears local state regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/student/logout"})
}
