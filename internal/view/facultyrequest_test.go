package view

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"evalportal/internal/api"
)

type facultyBackendStub struct {
	err   error
	calls int
	last  api.FacultyRequest
}

func (s *facultyBackendStub) SubmitFacultyRequest(_ context.Context, req api.FacultyRequest) error {
	s.calls++
	s.last = req
	return s.err
}

func TestFacultyRequest_Load_RendersBlankForm(t *testing.T) {
	env, rec, _, _ := testEnv()
	c := NewFacultyRequest(env, &facultyBackendStub{})

	c.Load(context.Background())

	p := rec.last()
	if len(p.Fields) != 3 {
		t.Fatalf("form fields = %d, want 3", len(p.Fields))
	}
	if _, ok := fieldByName(p, "course_name"); !ok {
		t.Error("course_name field missing")
	}
	if _, ok := fieldByName(p, "details"); !ok {
		t.Error("details field missing")
	}
	if c.Submitted() {
		t.Error("fresh load reports submitted")
	}
}

func TestFacultyRequest_Submit_MissingCourseName_BlocksLocally(t *testing.T) {
	env, rec, _, _ := testEnv()
	backend := &facultyBackendStub{}
	c := NewFacultyRequest(env, backend)

	err := c.Submit(context.Background(), "  ", "Dr. Rahman", "details here")

	var vErr *api.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "course_name" {
		t.Fatalf("expected course_name validation error, got %v", err)
	}
	if backend.calls != 0 {
		t.Error("invalid form reached the network")
	}
	if p := rec.last(); p.Error != "Please enter the upcoming course name." {
		t.Errorf("local error = %q", p.Error)
	}
}

func TestFacultyRequest_Submit_MissingDetails_BlocksLocally(t *testing.T) {
	env, rec, _, _ := testEnv()
	backend := &facultyBackendStub{}
	c := NewFacultyRequest(env, backend)

	if err := c.Submit(context.Background(), "Algorithms", "", ""); err == nil {
		t.Fatal("expected validation error")
	}
	if backend.calls != 0 {
		t.Error("invalid form reached the network")
	}
	if p := rec.last(); p.Error != "Please provide details for your request." {
		t.Errorf("local error = %q", p.Error)
	}
}

func TestFacultyRequest_Submit_FacultyNameIsOptional(t *testing.T) {
	env, _, _, _ := testEnv()
	backend := &facultyBackendStub{}
	c := NewFacultyRequest(env, backend)

	if err := c.Submit(context.Background(), "Algorithms", "", "Prefer a morning section"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if backend.last.RequestedFacultyName != "" {
		t.Errorf("faculty name = %q", backend.last.RequestedFacultyName)
	}
}

func TestFacultyRequest_Submit_Success_ShowsConfirmationAndSchedulesRefresh(t *testing.T) {
	env, rec, _, refreshed := testEnv()
	backend := &facultyBackendStub{}
	c := NewFacultyRequest(env, backend)

	err := c.Submit(context.Background(), " Algorithms ", " Dr. Rahman ", " Please offer this next term ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := api.FacultyRequest{
		CourseName:           "Algorithms",
		RequestedFacultyName: "Dr. Rahman",
		Details:              "Please offer this next term",
	}
	if backend.last != want {
		t.Errorf("submitted = %+v", backend.last)
	}
	if p := rec.last(); p.Notice != "Your faculty request has been submitted successfully!" {
		t.Errorf("notice = %q", p.Notice)
	}
	if !c.Submitted() {
		t.Error("confirmation state not set")
	}
	if len(*refreshed) != 1 || (*refreshed)[0] != FacultyRequest {
		t.Errorf("refreshed views = %v", *refreshed)
	}
}

func TestFacultyRequest_Load_ResetsConfirmationState(t *testing.T) {
	env, rec, _, _ := testEnv()
	c := NewFacultyRequest(env, &facultyBackendStub{})

	_ = c.Submit(context.Background(), "Algorithms", "", "details here")
	c.Load(context.Background())

	if c.Submitted() {
		t.Error("confirmation state survived a reload")
	}
	if p := rec.last(); p.Notice != "" || len(p.Fields) != 3 {
		t.Errorf("reload did not render the blank form: %+v", p)
	}
}

func TestFacultyRequest_Submit_ServerRejection_RendersMessage(t *testing.T) {
	env, rec, _, refreshed := testEnv()
	backend := &facultyBackendStub{err: &api.RequestError{Status: http.StatusBadRequest, Message: "course_name required"}}
	c := NewFacultyRequest(env, backend)

	if err := c.Submit(context.Background(), "Algorithms", "", "details here"); err == nil {
		t.Fatal("expected submit error")
	}
	if p := rec.last(); p.Error != "course_name required" {
		t.Errorf("error = %q", p.Error)
	}
	if c.Submitted() {
		t.Error("failed submission set the confirmation state")
	}
	if len(*refreshed) != 0 {
		t.Error("failed submission scheduled a refresh")
	}
}

func TestFacultyRequest_Submit_SessionExpired_GoesToAuthHandlerOnly(t *testing.T) {
	env, rec, authCalls, _ := testEnv()
	c := NewFacultyRequest(env, &facultyBackendStub{err: api.ErrSessionExpired})

	before := len(rec.panels)
	if err := c.Submit(context.Background(), "Algorithms", "", "details here"); !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("submit error = %v", err)
	}
	if *authCalls != 1 {
		t.Errorf("auth handler calls = %d, want 1", *authCalls)
	}
	if len(rec.panels) != before {
		t.Error("session expiry also rendered a panel")
	}
}
