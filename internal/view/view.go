// Package view implements the dashboard's tab state and the per-view
// controllers that fetch, render, and act on portal data.
package view

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// View names one of the five mutually exclusive dashboard panels.
type View string

const (
	Pending        View = "pendingEvaluations"
	Profile        View = "myProfile"
	Completed      View = "completedEvaluations"
	Complaints     View = "complaints"
	FacultyRequest View = "requestFaculty"
)

// All returns the views in display order.
func All() []View {
	return []View{Pending, Profile, Completed, Complaints, FacultyRequest}
}

var viewAliases = map[string]View{
	"pendingevaluations":   Pending,
	"pending":              Pending,
	"myprofile":            Profile,
	"profile":              Profile,
	"completedevaluations": Completed,
	"completed":            Completed,
	"complaints":           Complaints,
	"requestfaculty":       FacultyRequest,
	"faculty":              FacultyRequest,
}

// ParseView resolves a tab name, or a dashboard deep link carrying a tab
// query parameter, to a view. Unknown or empty input falls back to Pending.
func ParseView(raw string) View {
	name := strings.TrimSpace(raw)
	if strings.Contains(name, "?") {
		if u, err := url.Parse(name); err == nil {
			name = u.Query().Get("tab")
		}
	}
	if v, ok := viewAliases[strings.ToLower(name)]; ok {
		return v
	}
	return Pending
}

// Controller owns one view's fetch/render/action behavior.
type Controller interface {
	View() View
	Load(ctx context.Context)
}

// State tracks the single active view and drives panel switching. All five
// views are mutually reachable; there is no transition validation.
type State struct {
	controllers map[View]Controller
	active      View
	activated   bool
}

// NewState creates an empty view state.
func NewState() *State {
	return &State{controllers: make(map[View]Controller)}
}

// Register wires a controller to its view.
func (s *State) Register(c Controller) {
	s.controllers[c.View()] = c
}

// Activate deactivates the current view, activates the requested one, and
// triggers its load. Activating the already-active view re-runs the load,
// which is how "refresh current tab" works.
func (s *State) Activate(ctx context.Context, v View) error {
	c, ok := s.controllers[v]
	if !ok {
		return fmt.Errorf("no controller registered for view %q", v)
	}
	s.active = v
	s.activated = true
	c.Load(ctx)
	return nil
}

// Active returns the currently active view.
func (s *State) Active() View { return s.active }

// IsActive reports whether v is the single active view.
func (s *State) IsActive(v View) bool { return s.activated && s.active == v }
