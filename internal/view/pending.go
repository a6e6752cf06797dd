package view

import (
	"context"

	"evalportal/internal/api"
)

// ActionTakeEvaluation hands off to the external evaluation-taking flow.
const ActionTakeEvaluation = "takeEvaluation"

// PendingBackend is the slice of the API the pending view needs.
type PendingBackend interface {
	AssignedEvaluations(ctx context.Context) ([]api.EvaluationSummary, error)
}

// PendingController lists evaluations waiting for the student.
type PendingController struct {
	env     *Env
	backend PendingBackend
}

// NewPending creates the pending-evaluations controller.
func NewPending(env *Env, backend PendingBackend) *PendingController {
	return &PendingController{env: env, backend: backend}
}

func (c *PendingController) View() View { return Pending }

const pendingTitle = "Pending Evaluations"

// Load fetches the assigned evaluations and renders them. An empty list is
// rendered as an explicit "nothing pending" state, not an error.
func (c *PendingController) Load(ctx context.Context) {
	c.env.Renderer.Render(Panel{View: Pending, Title: pendingTitle, Loading: true})

	evals, err := c.backend.AssignedEvaluations(ctx)
	if err != nil {
		c.env.fail(Pending, pendingTitle, err)
		return
	}

	p := Panel{View: Pending, Title: pendingTitle}
	if len(evals) == 0 {
		p.Empty = "No pending evaluations."
	}
	for _, ev := range evals {
		item := Item{
			Title: ev.Title,
			Lines: pendingLines(ev),
			Action: &Action{
				Name: ActionTakeEvaluation,
				Params: map[string]string{
					"evalId":     ev.ID,
					"courseCode": ev.CourseCode,
				},
			},
		}
		p.Items = append(p.Items, item)
	}
	c.env.Renderer.Render(p)
}

func pendingLines(ev api.EvaluationSummary) []string {
	var lines []string
	if ev.CourseCode != "" {
		lines = append(lines, "Course: "+ev.CourseCode)
	}
	if ev.Batch != "" {
		lines = append(lines, "Batch: "+ev.Batch)
	}
	if ev.Session != "" {
		lines = append(lines, "Session: "+ev.Session)
	}
	lines = append(lines, "Due: "+orPlaceholder(ev.DueDate))
	return lines
}
