package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"evalportal/internal/api"
	"evalportal/internal/session"
)

// ProfileBackend is the slice of the API the profile view needs.
type ProfileBackend interface {
	Profile(ctx context.Context) (api.ProfileRecord, error)
	UpdateProfile(ctx context.Context, field, value string) error
}

// AvatarUploader hosts an image and returns its public URL.
type AvatarUploader interface {
	Host(data []byte, filename string) (string, error)
}

// ProfileController renders the profile record and owns the two-phase commit
// of editable fields: a tentative local edit is confirmed by the server or
// reverted to the last-known server value.
type ProfileController struct {
	env      *Env
	backend  ProfileBackend
	sessions session.Store
	uploader AvatarUploader // nil when avatar hosting is not configured

	record api.ProfileRecord // last-known server values
	loaded bool
	edits  map[string]string // open edits: field -> current input
}

// NewProfile creates the profile controller. uploader may be nil.
func NewProfile(env *Env, backend ProfileBackend, sessions session.Store, uploader AvatarUploader) *ProfileController {
	return &ProfileController{
		env:      env,
		backend:  backend,
		sessions: sessions,
		uploader: uploader,
		edits:    make(map[string]string),
	}
}

func (c *ProfileController) View() View { return Profile }

const profileTitle = "My Profile"

// Load fetches the profile, refreshes the cached header fields, and renders.
// Any open edits are discarded; the server record is the source of truth on
// (re)activation.
func (c *ProfileController) Load(ctx context.Context) {
	c.env.Renderer.Render(Panel{View: Profile, Title: profileTitle, Loading: true})

	rec, err := c.backend.Profile(ctx)
	if err != nil {
		c.env.fail(Profile, profileTitle, err)
		return
	}
	c.record = rec
	c.loaded = true
	c.edits = make(map[string]string)

	// Keep the cached display fields current so the header is right on the
	// next start, before any profile fetch completes. Only server values are
	// cached; placeholders are a render-time concern.
	if rec.Batch != "" {
		_ = c.sessions.Set(session.KeyBatch, rec.Batch)
	}
	if rec.Department != "" {
		_ = c.sessions.Set(session.KeyDepartment, rec.Department)
	}
	if rec.ProfilePicture != "" {
		_ = c.sessions.Set(session.KeyAvatarURL, rec.ProfilePicture)
	}

	c.env.Renderer.Render(c.panel("", ""))
}

// BeginEdit switches a field from display to input mode, seeded with the
// last-known server value. Several fields may be mid-edit at once.
func (c *ProfileController) BeginEdit(field string) error {
	if !c.loaded {
		return errors.New("profile not loaded")
	}
	if !editable(field) {
		return fmt.Errorf("field %q is not editable", field)
	}
	if _, open := c.edits[field]; !open {
		c.edits[field] = c.serverValue(field)
	}
	c.env.Renderer.Render(c.panel("", ""))
	return nil
}

// SetInput updates the in-progress value of an open edit.
func (c *ProfileController) SetInput(field, value string) error {
	if _, open := c.edits[field]; !open {
		return fmt.Errorf("field %q is not being edited", field)
	}
	c.edits[field] = value
	c.env.Renderer.Render(c.panel("", ""))
	return nil
}

// Commit closes an open edit. If the trimmed input equals the last-known
// server value no request is issued. Otherwise a partial update carrying only
// this field is sent; on success the local record keeps the new value, on
// failure the displayed value reverts to the server value.
func (c *ProfileController) Commit(ctx context.Context, field string) error {
	input, open := c.edits[field]
	if !open {
		return nil
	}
	delete(c.edits, field)

	trimmed := strings.TrimSpace(input)
	if trimmed == c.serverValue(field) {
		c.env.Renderer.Render(c.panel("", ""))
		return nil
	}

	if err := c.backend.UpdateProfile(ctx, field, trimmed); err != nil {
		if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrUnauthenticated) {
			if c.env.OnAuthError != nil {
				c.env.OnAuthError(err)
			}
			return err
		}
		// Edit already closed above, so the panel shows the server value.
		c.env.Renderer.Render(c.panel("", "Failed to update profile: "+errorText(err)))
		return err
	}

	c.setServerValue(field, trimmed)
	c.env.Renderer.Render(c.panel("Profile updated successfully.", ""))
	c.env.refresh(Profile)
	return nil
}

// CommitAll commits every open edit, in display order. The first error is
// returned; remaining fields are still committed.
func (c *ProfileController) CommitAll(ctx context.Context) error {
	var first error
	for _, field := range api.EditableProfileFields {
		if _, open := c.edits[field]; !open {
			continue
		}
		if err := c.Commit(ctx, field); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Editing reports whether any field is mid-edit (drives the save affordance).
func (c *ProfileController) Editing() bool { return len(c.edits) > 0 }

// SetAvatar hosts the image and commits its URL as the profile picture.
func (c *ProfileController) SetAvatar(ctx context.Context, data []byte, filename string) error {
	if c.uploader == nil {
		return errors.New("avatar hosting not configured")
	}
	hosted, err := c.uploader.Host(data, filename)
	if err != nil {
		c.env.Renderer.Render(c.panel("", "Avatar upload failed: "+err.Error()))
		return err
	}
	c.edits[api.FieldProfilePicture] = hosted
	return c.Commit(ctx, api.FieldProfilePicture)
}

func editable(field string) bool {
	for _, f := range api.EditableProfileFields {
		if f == field {
			return true
		}
	}
	return false
}

func (c *ProfileController) serverValue(field string) string {
	switch field {
	case api.FieldName:
		return c.record.Name
	case api.FieldContactNo:
		return c.record.ContactNo
	case api.FieldProfilePicture:
		return c.record.ProfilePicture
	case api.FieldBehavioralRecords:
		return c.record.BehavioralRecords
	}
	return ""
}

func (c *ProfileController) setServerValue(field, value string) {
	switch field {
	case api.FieldName:
		c.record.Name = value
	case api.FieldContactNo:
		c.record.ContactNo = value
	case api.FieldProfilePicture:
		c.record.ProfilePicture = value
	case api.FieldBehavioralRecords:
		c.record.BehavioralRecords = value
	}
}

func (c *ProfileController) panel(notice, errMsg string) Panel {
	rec := c.record
	readOnly := []Field{
		{Name: "student_id", Label: "Student ID", Value: orPlaceholder(rec.StudentID)},
		{Name: "email", Label: "Email", Value: orPlaceholder(rec.Email)},
		{Name: "dob", Label: "Date of Birth", Value: orPlaceholder(rec.DOB)},
		{Name: "gender", Label: "Gender", Value: orPlaceholder(rec.Gender)},
		{Name: "session", Label: "Session", Value: orPlaceholder(rec.Session)},
		{Name: "batch", Label: "Batch", Value: orPlaceholder(rec.Batch)},
		{Name: "department", Label: "Department", Value: orPlaceholder(rec.Department)},
		{Name: "enrollment_date", Label: "Enrollment Date", Value: orPlaceholder(rec.EnrollmentDate)},
		{Name: "cgpa", Label: "CGPA", Value: orPlaceholder(rec.CGPA)},
	}

	editableLabels := map[string]string{
		api.FieldName:              "Name",
		api.FieldContactNo:         "Contact No",
		api.FieldProfilePicture:    "Profile Picture",
		api.FieldBehavioralRecords: "Behavioral Records",
	}

	p := Panel{
		View:        Profile,
		Title:       profileTitle,
		Notice:      notice,
		Error:       errMsg,
		SaveVisible: c.Editing(),
	}
	for _, field := range api.EditableProfileFields {
		f := Field{
			Name:     field,
			Label:    editableLabels[field],
			Value:    orPlaceholder(c.serverValue(field)),
			Editable: true,
		}
		if input, open := c.edits[field]; open {
			f.Editing = true
			f.Value = input
		}
		p.Fields = append(p.Fields, f)
	}
	p.Fields = append(p.Fields, readOnly...)
	return p
}
