package view

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"evalportal/internal/api"
)

type complaintsBackendStub struct {
	complaints []api.Complaint
	listErr    error

	submitErr   error
	submitCalls int
	lastSub     api.ComplaintSubmission
}

func (s *complaintsBackendStub) Complaints(context.Context) ([]api.Complaint, error) {
	return s.complaints, s.listErr
}

func (s *complaintsBackendStub) SubmitComplaint(_ context.Context, sub api.ComplaintSubmission) error {
	s.submitCalls++
	s.lastSub = sub
	return s.submitErr
}

func TestComplaints_Load_RendersListWithStatusBadges(t *testing.T) {
	env, rec, _, _ := testEnv()
	c := NewComplaints(env, &complaintsBackendStub{complaints: []api.Complaint{
		{IssueType: "grading", Details: "Marks missing for quiz 2", Status: "in_review", CourseCode: "CSE-210"},
		{IssueType: "other", Details: "Portal downtime", Status: "resolved"},
	}})

	c.Load(context.Background())

	p := rec.last()
	if len(p.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(p.Items))
	}
	if p.Items[0].Badge != "In review" {
		t.Errorf("badge = %q", p.Items[0].Badge)
	}
	if p.Items[1].Badge != "Resolved" {
		t.Errorf("badge = %q", p.Items[1].Badge)
	}
	if p.Items[0].Lines[1] != "Course: CSE-210" {
		t.Errorf("course line = %q", p.Items[0].Lines[1])
	}
	if len(p.Items[1].Lines) != 1 {
		t.Errorf("complaint without course got %d lines", len(p.Items[1].Lines))
	}
}

func TestComplaints_Load_FeatureUnavailable_SoftMessage(t *testing.T) {
	env, rec, authCalls, _ := testEnv()
	c := NewComplaints(env, &complaintsBackendStub{listErr: api.ErrFeatureUnavailable})

	c.Load(context.Background())

	p := rec.last()
	if p.Error != "This feature is not available on this portal yet." {
		t.Errorf("error = %q", p.Error)
	}
	if *authCalls != 0 {
		t.Error("feature gap reached the auth handler")
	}
}

func TestComplaints_Submit_MissingIssueType_BlocksLocally(t *testing.T) {
	env, rec, _, refreshed := testEnv()
	backend := &complaintsBackendStub{}
	c := NewComplaints(env, backend)

	c.SetForm("CSE-210", "", "details here")
	err := c.Submit(context.Background())

	var vErr *api.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "issue_type" {
		t.Fatalf("expected issue_type validation error, got %v", err)
	}
	if backend.submitCalls != 0 {
		t.Error("invalid form reached the network")
	}
	if p := rec.last(); p.Error != "Please select an issue type." {
		t.Errorf("local error = %q", p.Error)
	}
	if len(*refreshed) != 0 {
		t.Error("failed submission scheduled a refresh")
	}
}

func TestComplaints_Submit_UnknownIssueType_ListsKnownOnes(t *testing.T) {
	env, rec, _, _ := testEnv()
	backend := &complaintsBackendStub{}
	c := NewComplaints(env, backend)

	c.SetForm("", "harassment", "details here")
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
	if backend.submitCalls != 0 {
		t.Error("unknown issue type reached the network")
	}
	p := rec.last()
	if !strings.Contains(p.Error, "grading") || !strings.Contains(p.Error, "other") {
		t.Errorf("error does not list the known issue types: %q", p.Error)
	}
}

func TestComplaints_Submit_MissingDetails_BlocksLocally(t *testing.T) {
	env, rec, _, _ := testEnv()
	backend := &complaintsBackendStub{}
	c := NewComplaints(env, backend)

	c.SetForm("", "grading", "   ")
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
	if backend.submitCalls != 0 {
		t.Error("invalid form reached the network")
	}
	if p := rec.last(); p.Error != "Please provide details for your complaint." {
		t.Errorf("local error = %q", p.Error)
	}
}

func TestComplaints_Submit_Success_ClearsFormAndSchedulesRefresh(t *testing.T) {
	env, rec, _, refreshed := testEnv()
	backend := &complaintsBackendStub{}
	c := NewComplaints(env, backend)

	c.SetForm("  CSE-210  ", " grading ", "  Marks missing for quiz 2  ")
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := api.ComplaintSubmission{CourseCode: "CSE-210", IssueType: "grading", Details: "Marks missing for quiz 2"}
	if backend.lastSub != want {
		t.Errorf("submitted = %+v", backend.lastSub)
	}
	if p := rec.last(); p.Notice != "Complaint submitted successfully." {
		t.Errorf("notice = %q", p.Notice)
	}
	if len(*refreshed) != 1 || (*refreshed)[0] != Complaints {
		t.Errorf("refreshed views = %v", *refreshed)
	}

	// The staged form is gone: an immediate resubmit fails validation.
	if err := c.Submit(context.Background()); err == nil {
		t.Error("form survived a successful submission")
	}
}

func TestComplaints_Submit_ValidationError_KeepsListedComplaints(t *testing.T) {
	env, rec, _, _ := testEnv()
	backend := &complaintsBackendStub{complaints: []api.Complaint{
		{IssueType: "grading", Details: "Marks missing for quiz 2", Status: "pending"},
	}}
	c := NewComplaints(env, backend)
	c.Load(context.Background())

	c.SetForm("", "", "details here")
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}

	p := rec.last()
	if p.Error != "Please select an issue type." {
		t.Errorf("error = %q", p.Error)
	}
	if len(p.Items) != 1 || p.Items[0].Title != "grading" {
		t.Errorf("error panel dropped the listed complaints: %+v", p.Items)
	}
}

func TestComplaints_Submit_ServerRejection_KeepsListedComplaints(t *testing.T) {
	env, rec, _, _ := testEnv()
	backend := &complaintsBackendStub{
		complaints: []api.Complaint{{IssueType: "other", Details: "Portal downtime", Status: "resolved"}},
		submitErr:  &api.RequestError{Status: http.StatusBadRequest, Message: "details required"},
	}
	c := NewComplaints(env, backend)
	c.Load(context.Background())

	c.SetForm("", "grading", "details here")
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected submit error")
	}

	p := rec.last()
	if p.Error != "details required" {
		t.Errorf("error = %q", p.Error)
	}
	if len(p.Items) != 1 || p.Items[0].Badge != "Resolved" {
		t.Errorf("error panel dropped the listed complaints: %+v", p.Items)
	}
}

func TestComplaints_Submit_ServerRejection_RendersMessageWithoutRefresh(t *testing.T) {
	env, rec, _, refreshed := testEnv()
	backend := &complaintsBackendStub{
		submitErr: &api.RequestError{Status: http.StatusBadRequest, Message: "issue_type required"},
	}
	c := NewComplaints(env, backend)

	c.SetForm("", "grading", "details here")
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected submit error")
	}
	if p := rec.last(); p.Error != "issue_type required" {
		t.Errorf("error = %q", p.Error)
	}
	if len(*refreshed) != 0 {
		t.Error("rejected submission scheduled a refresh")
	}
}

func TestComplaints_Submit_SessionExpired_GoesToAuthHandlerOnly(t *testing.T) {
	env, rec, authCalls, _ := testEnv()
	backend := &complaintsBackendStub{submitErr: api.ErrSessionExpired}
	c := NewComplaints(env, backend)

	c.SetForm("", "grading", "details here")
	before := len(rec.panels)
	if err := c.Submit(context.Background()); !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("submit error = %v", err)
	}
	if *authCalls != 1 {
		t.Errorf("auth handler calls = %d, want 1", *authCalls)
	}
	if len(rec.panels) != before {
		t.Error("session expiry also rendered a panel")
	}
}
