package view

import (
	"context"
	"errors"
	"strings"

	"evalportal/internal/api"
)

// FacultyRequestBackend is the slice of the API the request view needs.
type FacultyRequestBackend interface {
	SubmitFacultyRequest(ctx context.Context, req api.FacultyRequest) error
}

// FacultyRequestController renders the write-only faculty request form. On
// success the form is replaced by a confirmation state until the next load.
type FacultyRequestController struct {
	env     *Env
	backend FacultyRequestBackend

	submitted bool
}

// NewFacultyRequest creates the faculty request controller.
func NewFacultyRequest(env *Env, backend FacultyRequestBackend) *FacultyRequestController {
	return &FacultyRequestController{env: env, backend: backend}
}

func (c *FacultyRequestController) View() View { return FacultyRequest }

const facultyRequestTitle = "Request Faculty"

// Load renders the form; there is nothing to fetch for this view. A fresh
// activation always shows the blank form again.
func (c *FacultyRequestController) Load(ctx context.Context) {
	c.submitted = false
	c.env.Renderer.Render(c.formPanel("", ""))
}

// Submit validates and files a faculty request. Validation mirrors the
// complaints form: required fields block submission locally.
func (c *FacultyRequestController) Submit(ctx context.Context, courseName, facultyName, details string) error {
	req := api.FacultyRequest{
		CourseName:           strings.TrimSpace(courseName),
		RequestedFacultyName: strings.TrimSpace(facultyName),
		Details:              strings.TrimSpace(details),
	}

	if req.CourseName == "" {
		err := &api.ValidationError{Field: "course_name", Message: "Please enter the upcoming course name."}
		c.env.Renderer.Render(c.formPanel("", err.Message))
		return err
	}
	if req.Details == "" {
		err := &api.ValidationError{Field: "details", Message: "Please provide details for your request."}
		c.env.Renderer.Render(c.formPanel("", err.Message))
		return err
	}

	if err := c.backend.SubmitFacultyRequest(ctx, req); err != nil {
		if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrUnauthenticated) {
			if c.env.OnAuthError != nil {
				c.env.OnAuthError(err)
			}
			return err
		}
		c.env.Renderer.Render(c.formPanel("", errorText(err)))
		return err
	}

	c.submitted = true
	c.env.Renderer.Render(Panel{
		View:   FacultyRequest,
		Title:  facultyRequestTitle,
		Notice: "Your faculty request has been submitted successfully!",
	})
	c.env.refresh(FacultyRequest)
	return nil
}

// Submitted reports whether the confirmation state is showing.
func (c *FacultyRequestController) Submitted() bool { return c.submitted }

func (c *FacultyRequestController) formPanel(notice, errMsg string) Panel {
	return Panel{
		View:   FacultyRequest,
		Title:  facultyRequestTitle,
		Notice: notice,
		Error:  errMsg,
		Fields: []Field{
			{Name: "course_name", Label: "Upcoming Course Name", Editable: true},
			{Name: "requested_faculty_name", Label: "Requested Faculty (optional)", Editable: true},
			{Name: "details", Label: "Details", Editable: true},
		},
	}
}
