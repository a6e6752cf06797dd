// Package app wires the session store, API client, and view controllers into
// the running dashboard: session restore on start, deep-link tab selection,
// centralized auth-failure handling, and refresh-after-action scheduling.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"evalportal/internal/api"
	"evalportal/internal/auth"
	"evalportal/internal/config"
	"evalportal/internal/session"
	"evalportal/internal/view"
)

// ErrNotLoggedIn means no usable session was found; the caller routes the
// user to the login entry point.
var ErrNotLoggedIn = errors.New("not logged in")

// Scheduler runs fn after delay. The default wraps time.AfterFunc; tests
// substitute a synchronous one.
type Scheduler func(delay time.Duration, fn func())

// App is the dashboard's controller graph and lifecycle.
type App struct {
	cfg      config.App
	sessions session.Store
	client   *api.Client
	renderer view.Renderer
	state    *view.State

	// Schedule delays the post-action refresh; override before Start in tests.
	Schedule Scheduler

	// OnLoginRedirect runs after the user has been told the session expired.
	OnLoginRedirect func()

	pending    *view.PendingController
	profile    *view.ProfileController
	completed  *view.CompletedController
	complaints *view.ComplaintsController
	faculty    *view.FacultyRequestController

	authNotified bool
}

// New builds the app with all five controllers registered. uploader may be nil.
func New(cfg config.App, sessions session.Store, client *api.Client, renderer view.Renderer, uploader view.AvatarUploader) *App {
	a := &App{
		cfg:      cfg,
		sessions: sessions,
		client:   client,
		renderer: renderer,
		state:    view.NewState(),
		Schedule: func(delay time.Duration, fn func()) { time.AfterFunc(delay, fn) },
	}

	env := &view.Env{
		Renderer:    renderer,
		OnAuthError: a.handleAuthError,
		Refresh:     a.refreshAfterAction,
	}

	a.pending = view.NewPending(env, client)
	a.profile = view.NewProfile(env, client, sessions, uploader)
	a.completed = view.NewCompleted(env, client)
	a.complaints = view.NewComplaints(env, client)
	a.faculty = view.NewFacultyRequest(env, client)

	a.state.Register(a.pending)
	a.state.Register(a.profile)
	a.state.Register(a.completed)
	a.state.Register(a.complaints)
	a.state.Register(a.faculty)

	return a
}

// Controller accessors for the front end's command handling.
func (a *App) Profile() *view.ProfileController        { return a.profile }
func (a *App) Completed() *view.CompletedController    { return a.completed }
func (a *App) Complaints() *view.ComplaintsController  { return a.complaints }
func (a *App) Faculty() *view.FacultyRequestController { return a.faculty }

// State exposes the view state for activation queries.
func (a *App) State() *view.State { return a.state }

// Start restores the session and activates the initial view. initial may be a
// bare tab name or a dashboard deep link carrying a tab query parameter;
// empty or unknown values fall back to the pending tab.
func (a *App) Start(ctx context.Context, initial string) error {
	s := session.Load(a.sessions)
	if !s.LoggedIn() {
		_ = a.sessions.Clear()
		return ErrNotLoggedIn
	}

	// A locally expired token is a guaranteed 401; treat it as logged out
	// instead of burning the first request.
	if claims, err := auth.Inspect(s.Token); err == nil && claims.Expired(time.Now()) {
		_ = a.sessions.Clear()
		return ErrNotLoggedIn
	}

	a.renderer.SetHeader(view.Header{
		Name:       s.Name,
		StudentID:  s.StudentID,
		Batch:      orNA(s.Batch),
		Department: orNA(s.Department),
		AvatarURL:  s.AvatarURL,
	})
	a.renderer.Notify("Welcome", fmt.Sprintf("Welcome, %s 👋", s.Name))

	return a.state.Activate(ctx, view.ParseView(initial))
}

// Login exchanges credentials for a session and persists it.
func (a *App) Login(ctx context.Context, studentID, password string) error {
	res, err := a.client.Login(ctx, studentID, password)
	if err != nil {
		return err
	}
	if err := session.Save(a.sessions, session.Session{
		Token:     res.Token,
		StudentID: res.StudentID,
		Name:      res.Name,
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	a.authNotified = false
	return nil
}

// ShowTab activates the named tab (same parsing rules as Start).
func (a *App) ShowTab(ctx context.Context, name string) error {
	return a.state.Activate(ctx, view.ParseView(name))
}

// Logout notifies the portal best-effort, then clears local session state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		log.Printf("logout request failed, clearing local session anyway: %v", err)
	}
	return a.sessions.Clear()
}

// handleAuthError surfaces session loss once, clears any remaining local
// state, and hands control to the login redirect after acknowledgment.
func (a *App) handleAuthError(err error) {
	if a.authNotified {
		return
	}
	a.authNotified = true
	_ = a.sessions.Clear()
	a.renderer.Notify("Session Expired", "Your session has expired. Please log in again.")
	if a.OnLoginRedirect != nil {
		a.OnLoginRedirect()
	}
}

// refreshAfterAction re-activates v after the acknowledgment delay, but only
// while v is still the active view.
func (a *App) refreshAfterAction(v view.View) {
	if !a.state.IsActive(v) {
		return
	}
	a.Schedule(a.cfg.RefreshDelay, func() {
		if !a.state.IsActive(v) {
			return
		}
		if err := a.state.Activate(context.Background(), v); err != nil {
			log.Printf("refresh of %s failed: %v", v, err)
		}
	})
}

func orNA(s string) string {
	if s == "" {
		return view.Placeholder
	}
	return s
}
