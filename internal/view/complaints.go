package view

import (
	"context"
	"errors"
	"strings"

	"evalportal/internal/api"
)

// IssueTypes is the fixed set a complaint must use.
var IssueTypes = []string{
	"course_content",
	"faculty_behavior",
	"grading",
	"scheduling",
	"other",
}

// ComplaintsBackend is the slice of the API the complaints view needs.
type ComplaintsBackend interface {
	Complaints(ctx context.Context) ([]api.Complaint, error)
	SubmitComplaint(ctx context.Context, sub api.ComplaintSubmission) error
}

// ComplaintsController renders the submission form plus the student's own
// complaint list with status badges.
type ComplaintsController struct {
	env     *Env
	backend ComplaintsBackend

	form api.ComplaintSubmission

	// items is the view-scoped copy of the listed complaints, kept so error
	// and acknowledgment panels still carry the list.
	items []api.Complaint
}

// NewComplaints creates the complaints controller.
func NewComplaints(env *Env, backend ComplaintsBackend) *ComplaintsController {
	return &ComplaintsController{env: env, backend: backend}
}

func (c *ComplaintsController) View() View { return Complaints }

const complaintsTitle = "Complaints"

// Load fetches the complaint list. A portal without the listing endpoint gets
// the softer feature-unavailable message, not a hard error.
func (c *ComplaintsController) Load(ctx context.Context) {
	c.env.Renderer.Render(Panel{View: Complaints, Title: complaintsTitle, Loading: true})

	complaints, err := c.backend.Complaints(ctx)
	if err != nil {
		c.env.fail(Complaints, complaintsTitle, err)
		return
	}
	c.items = complaints
	c.env.Renderer.Render(c.listPanel("", ""))
}

// SetForm stages the form fields ahead of Submit.
func (c *ComplaintsController) SetForm(courseCode, issueType, details string) {
	c.form = api.ComplaintSubmission{
		CourseCode: strings.TrimSpace(courseCode),
		IssueType:  strings.TrimSpace(issueType),
		Details:    strings.TrimSpace(details),
	}
}

// Submit validates the staged form and files it. Validation failures render a
// local message and never reach the network. On success the form is cleared
// and the list refreshes after the acknowledgment delay.
func (c *ComplaintsController) Submit(ctx context.Context) error {
	if err := c.validate(); err != nil {
		c.env.Renderer.Render(c.listPanel("", err.Error()))
		return err
	}

	if err := c.backend.SubmitComplaint(ctx, c.form); err != nil {
		if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrUnauthenticated) {
			if c.env.OnAuthError != nil {
				c.env.OnAuthError(err)
			}
			return err
		}
		c.env.Renderer.Render(c.listPanel("", errorText(err)))
		return err
	}

	c.form = api.ComplaintSubmission{}
	c.env.Renderer.Render(c.listPanel("Complaint submitted successfully.", ""))
	c.env.refresh(Complaints)
	return nil
}

func (c *ComplaintsController) listPanel(notice, errMsg string) Panel {
	p := Panel{View: Complaints, Title: complaintsTitle, Notice: notice, Error: errMsg}
	if len(c.items) == 0 {
		p.Empty = "No complaints submitted yet."
	}
	for _, cm := range c.items {
		item := Item{
			Title: cm.IssueType,
			Badge: statusBadge(cm.Status),
			Lines: []string{cm.Details},
		}
		if cm.CourseCode != "" {
			item.Lines = append(item.Lines, "Course: "+cm.CourseCode)
		}
		p.Items = append(p.Items, item)
	}
	return p
}

func (c *ComplaintsController) validate() error {
	if c.form.IssueType == "" {
		return &api.ValidationError{Field: "issue_type", Message: "Please select an issue type."}
	}
	if !validIssueType(c.form.IssueType) {
		return &api.ValidationError{Field: "issue_type", Message: "Unknown issue type. Choose one of: " + strings.Join(IssueTypes, ", ")}
	}
	if c.form.Details == "" {
		return &api.ValidationError{Field: "details", Message: "Please provide details for your complaint."}
	}
	return nil
}

func validIssueType(t string) bool {
	for _, known := range IssueTypes {
		if known == t {
			return true
		}
	}
	return false
}

func statusBadge(status string) string {
	s := strings.ReplaceAll(status, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
