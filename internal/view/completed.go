package view

import (
	"context"
	"fmt"
	"sort"

	"evalportal/internal/api"
)

// CompletedBackend is the slice of the API the completed view needs.
type CompletedBackend interface {
	CompletedEvaluations(ctx context.Context) ([]api.CompletedEvaluation, error)
	CompletedDetails(ctx context.Context, templateID, courseCode string) (api.FeedbackDetail, error)
}

// CompletedController lists finished evaluations and owns the singleton
// detail overlay.
type CompletedController struct {
	env     *Env
	backend CompletedBackend

	// items is the view-scoped copy of the current list, held only for the
	// duration of this view's activation.
	items   []api.CompletedEvaluation
	overlay *Overlay
}

// NewCompleted creates the completed-evaluations controller.
func NewCompleted(env *Env, backend CompletedBackend) *CompletedController {
	return &CompletedController{env: env, backend: backend}
}

func (c *CompletedController) View() View { return Completed }

const completedTitle = "Completed Evaluations"

// Load fetches the completed list and renders it; any open overlay is dropped.
func (c *CompletedController) Load(ctx context.Context) {
	c.env.Renderer.Render(Panel{View: Completed, Title: completedTitle, Loading: true})

	evals, err := c.backend.CompletedEvaluations(ctx)
	if err != nil {
		c.env.fail(Completed, completedTitle, err)
		return
	}
	c.items = evals
	c.overlay = nil

	p := Panel{View: Completed, Title: completedTitle}
	if len(evals) == 0 {
		p.Empty = "No completed evaluations yet."
	}
	for _, ev := range evals {
		p.Items = append(p.Items, Item{
			Title: fallback(ev.Title, "Evaluation Template"),
			Badge: "Completed",
			Lines: []string{
				"Course: " + fallback(ev.CourseName, fallback(ev.CourseCode, "Course Information Not Available")),
				"Faculty: " + fallback(ev.FacultyName, "Faculty Information Not Available"),
				"Session: " + fallback(ev.Session, "Session Not Available"),
				"Batch: " + fallback(ev.Batch, "Batch Not Available"),
				"Completed: " + fallback(ev.CompletionDate, "Date Not Available"),
			},
		})
	}
	c.env.Renderer.Render(p)
}

// ShowDetails fetches the feedback for the index-th listed evaluation and
// opens it in the overlay, replacing any overlay already open.
func (c *CompletedController) ShowDetails(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("no completed evaluation at position %d", index+1)
	}
	ev := c.items[index]

	courseCode := ev.CourseCode
	if courseCode == Placeholder {
		courseCode = ""
	}
	detail, err := c.backend.CompletedDetails(ctx, ev.TemplateID, courseCode)
	if err != nil {
		c.env.fail(Completed, completedTitle, err)
		return err
	}

	overlay := &Overlay{
		Title: "Evaluation Details",
		Sections: []OverlaySection{{
			Heading: "Summary",
			Rows: []string{
				"Template: " + fallback(ev.Title, Placeholder),
				"Course: " + fallback(ev.CourseName, fallback(ev.CourseCode, Placeholder)),
				"Completed: " + fallback(ev.CompletionDate, Placeholder),
			},
		}},
	}
	if len(detail.Feedback) > 0 {
		questions := make([]string, 0, len(detail.Feedback))
		for q := range detail.Feedback {
			questions = append(questions, q)
		}
		sort.Strings(questions)
		section := OverlaySection{Heading: "Your Responses"}
		for _, q := range questions {
			section.Rows = append(section.Rows, q+": "+fallback(detail.Feedback[q], "No answer provided"))
		}
		overlay.Sections = append(overlay.Sections, section)
	} else {
		overlay.Sections = append(overlay.Sections, OverlaySection{
			Heading: "Your Responses",
			Rows:    []string{"No detailed responses available."},
		})
	}
	if detail.Comment != "" {
		overlay.Sections = append(overlay.Sections, OverlaySection{
			Heading: "General Comment",
			Rows:    []string{detail.Comment},
		})
	}

	c.overlay = overlay
	c.env.Renderer.Render(c.listPanel())
	return nil
}

// CloseDetails dismisses the overlay.
func (c *CompletedController) CloseDetails() {
	c.overlay = nil
	c.env.Renderer.Render(c.listPanel())
}

func (c *CompletedController) listPanel() Panel {
	p := Panel{View: Completed, Title: completedTitle, Overlay: c.overlay}
	if len(c.items) == 0 {
		p.Empty = "No completed evaluations yet."
	}
	for _, ev := range c.items {
		p.Items = append(p.Items, Item{
			Title: fallback(ev.Title, "Evaluation Template"),
			Badge: "Completed",
			Lines: []string{
				"Course: " + fallback(ev.CourseName, fallback(ev.CourseCode, "Course Information Not Available")),
				"Completed: " + fallback(ev.CompletionDate, "Date Not Available"),
			},
		})
	}
	return p
}

func fallback(value, alt string) string {
	if value == "" {
		return alt
	}
	return value
}
