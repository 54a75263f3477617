package keymap

import (
	"testing"
)

func TestByContext(t *testing.T) {
	tests := []struct {
		context   string
		minLength int
	}{
		{"global", 5},
		{"playback", 5},
		{"songs", 6},
		{"upload", 5},
		{"unknown", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			result := ByContext(tt.context)
			if len(result) < tt.minLength {
				t.Errorf("ByContext(%q) returned %d bindings, want at least %d", tt.context, len(result), tt.minLength)
			}
			if tt.minLength == 0 && len(result) != 0 {
				t.Errorf("ByContext(%q) returned %d bindings, want none", tt.context, len(result))
			}
			for _, b := range result {
				if b.Context != tt.context {
					t.Errorf("binding %s has context %q, want %q", b.Action, b.Context, tt.context)
				}
			}
		})
	}
}

func TestBindingsHaveRequiredFields(t *testing.T) {
	for i, b := range Bindings {
		if b.Action == "" {
			t.Errorf("binding[%d] has empty Action", i)
		}
		if len(b.Keys) == 0 {
			t.Errorf("binding[%d] (%s) has no Keys", i, b.Action)
		}
		if b.Description == "" {
			t.Errorf("binding[%d] (%s) has empty Description", i, b.Action)
		}
	}
}

func TestBindingsHaveValidContexts(t *testing.T) {
	valid := map[string]bool{"global": true, "playback": true, "songs": true, "upload": true}
	for i, b := range Bindings {
		if !valid[b.Context] {
			t.Errorf("binding[%d] (%s) has invalid context: %q", i, b.Action, b.Context)
		}
	}
}

func TestMainViewKeysAreUnique(t *testing.T) {
	// upload-form keys only apply while the form is open
	seen := make(map[string]Action)
	for _, b := range Bindings {
		if b.Context == "upload" {
			continue
		}
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %s and %s", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display(" "); got != "space" {
		t.Errorf("Display(space) = %q", got)
	}
	if got := Display("q"); got != "q" {
		t.Errorf("Display(q) = %q", got)
	}
}
