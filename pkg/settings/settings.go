package settings

// Setting names recognized by the application. The store itself accepts any
// name; these are the ones the framework reads.
const (
	TrustProxy           = "trust proxy"
	CaseSensitiveRouting = "case sensitive routing"
	JSONPCallbackName    = "jsonp callback name"
)

// Store is a plain named-setting key/value store. Routing components sample
// it at registration time, so toggling a flag only affects registrations made
// after the toggle.
type Store struct {
	values map[string]interface{}
}

// NewStore creates an empty settings store.
func NewStore() *Store {
	return &Store{values: make(map[string]interface{})}
}

// Set stores a value under a setting name, replacing any previous value.
func (s *Store) Set(name string, value interface{}) {
	s.values[name] = value
}

// Get returns the stored value for a setting name, or nil if unset.
func (s *Store) Get(name string) interface{} {
	return s.values[name]
}

// Has reports whether a setting has been assigned a value.
func (s *Store) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Enable sets a boolean setting to true.
func (s *Store) Enable(name string) {
	s.Set(name, true)
}

// Disable sets a boolean setting to false.
func (s *Store) Disable(name string) {
	s.Set(name, false)
}

// Enabled reports whether a boolean setting is on. Unset and non-boolean
// values count as off.
func (s *Store) Enabled(name string) bool {
	v, _ := s.values[name].(bool)
	return v
}

// GetString returns a string setting, or the empty string when unset or not
// a string.
func (s *Store) GetString(name string) string {
	v, _ := s.values[name].(string)
	return v
}
