package view

import (
	"errors"
	"log"

	"evalportal/internal/api"
)

// Env bundles the collaborators shared by every controller.
type Env struct {
	Renderer Renderer

	// OnAuthError receives ErrSessionExpired / ErrUnauthenticated exactly
	// once, centrally. Controllers never render their own error for these.
	OnAuthError func(err error)

	// Refresh schedules a reload of the given view after a mutation, once the
	// success acknowledgment has had time to be read.
	Refresh func(v View)
}

// fail routes a load/action failure: session-level errors go to the central
// handler, everything else becomes an inline panel error.
func (e *Env) fail(v View, title string, err error) {
	if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrUnauthenticated) {
		if e.OnAuthError != nil {
			e.OnAuthError(err)
		}
		return
	}
	log.Printf("%s: %v", v, err)
	e.Renderer.Render(Panel{View: v, Title: title, Error: errorText(err)})
}

func (e *Env) refresh(v View) {
	if e.Refresh != nil {
		e.Refresh(v)
	}
}

// errorText maps taxonomy errors to user-facing wording.
func errorText(err error) string {
	var reqErr *api.RequestError
	var netErr *api.NetworkError
	switch {
	case errors.Is(err, api.ErrFeatureUnavailable):
		return "This feature is not available on this portal yet."
	case errors.As(err, &reqErr):
		return reqErr.Message
	case errors.As(err, &netErr):
		return "Could not connect to the server. Please check your connection and try again."
	default:
		return err.Error()
	}
}
