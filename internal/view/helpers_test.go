package view

// recorder captures everything controllers render.
type recorder struct {
	panels   []Panel
	notices  []string
	header   Header
	headered bool
}

func (r *recorder) Render(p Panel)               { r.panels = append(r.panels, p) }
func (r *recorder) Notify(title, message string) { r.notices = append(r.notices, title+": "+message) }
func (r *recorder) SetHeader(h Header)           { r.header = h; r.headered = true }

func (r *recorder) last() Panel {
	if len(r.panels) == 0 {
		return Panel{}
	}
	return r.panels[len(r.panels)-1]
}

// testEnv returns an Env wired to a recorder plus counters for the central
// auth handler and the refresh scheduler.
func testEnv() (*Env, *recorder, *int, *[]View) {
	rec := &recorder{}
	authCalls := 0
	var refreshed []View
	env := &Env{
		Renderer:    rec,
		OnAuthError: func(error) { authCalls++ },
		Refresh:     func(v View) { refreshed = append(refreshed, v) },
	}
	return env, rec, &authCalls, &refreshed
}

// memStore is an in-memory session.Store for controller tests.
type memStore struct {
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: make(map[string]string)} }

func (m *memStore) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}
func (m *memStore) Set(key, value string) error {
	m.data[key] = value
	return nil
}
func (m *memStore) Clear() error {
	m.data = make(map[string]string)
	return nil
}

func fieldByName(p Panel, name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
