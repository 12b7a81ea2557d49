package settings

import "testing"

// TestStoreRoundTrip tests basic set/get behavior for arbitrary names
func TestStoreRoundTrip(t *testing.T) {
	store := NewStore()

	if store.Has(TrustProxy) {
		t.Error("new store should not have trust proxy set")
	}

	store.Set(JSONPCallbackName, "callback")
	if got := store.GetString(JSONPCallbackName); got != "callback" {
		t.Errorf("Expected 'callback', got '%s'", got)
	}

	// Unknown names are stored and returned untouched
	store.Set("custom flag", 42)
	if got := store.Get("custom flag"); got != 42 {
		t.Errorf("Expected 42, got %v", got)
	}
}

// TestBooleanSettings tests Enable/Disable/Enabled semantics
func TestBooleanSettings(t *testing.T) {
	store := NewStore()

	if store.Enabled(CaseSensitiveRouting) {
		t.Error("unset boolean setting should read as off")
	}

	store.Enable(CaseSensitiveRouting)
	if !store.Enabled(CaseSensitiveRouting) {
		t.Error("expected case sensitive routing to be enabled")
	}

	store.Disable(CaseSensitiveRouting)
	if store.Enabled(CaseSensitiveRouting) {
		t.Error("expected case sensitive routing to be disabled")
	}

	// Non-boolean values count as off
	store.Set(TrustProxy, "yes")
	if store.Enabled(TrustProxy) {
		t.Error("non-boolean value should read as off")
	}
}
