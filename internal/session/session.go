// Package session holds the persisted client-side key/value state: the auth
// token plus the identity fields used to pre-populate the header before the
// profile fetch completes.
package session

// Keys persisted across dashboard runs.
const (
	KeyToken      = "studentToken"
	KeyStudentID  = "studentId"
	KeyName       = "studentName"
	KeyBatch      = "studentBatch"
	KeyDepartment = "studentDepartment"
	KeyAvatarURL  = "profilePictureUrl"
)

// Store is the persisted key/value state. Clear removes every key; callers
// never observe a partial clear.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Clear() error
}

// Session is a snapshot of the stored identity fields.
type Session struct {
	Token      string
	StudentID  string
	Name       string
	Batch      string
	Department string
	AvatarURL  string
}

// LoggedIn reports whether the snapshot carries enough state to use the portal.
func (s Session) LoggedIn() bool {
	return s.Token != "" && s.StudentID != "" && s.Name != ""
}

// Load reads the current session snapshot from a store.
func Load(st Store) Session {
	get := func(key string) string {
		v, _ := st.Get(key)
		return v
	}
	return Session{
		Token:      get(KeyToken),
		StudentID:  get(KeyStudentID),
		Name:       get(KeyName),
		Batch:      get(KeyBatch),
		Department: get(KeyDepartment),
		AvatarURL:  get(KeyAvatarURL),
	}
}

// Save writes a session snapshot. Empty optional fields are not written so
// cached display values from a previous run survive a re-login.
func Save(st Store, s Session) error {
	required := map[string]string{
		KeyToken:     s.Token,
		KeyStudentID: s.StudentID,
		KeyName:      s.Name,
	}
	for key, val := range required {
		if err := st.Set(key, val); err != nil {
			return err
		}
	}
	optional := map[string]string{
		KeyBatch:      s.Batch,
		KeyDepartment: s.Department,
		KeyAvatarURL:  s.AvatarURL,
	}
	for key, val := range optional {
		if val == "" {
			continue
		}
		if err := st.Set(key, val); err != nil {
			return err
		}
	}
	return nil
}
