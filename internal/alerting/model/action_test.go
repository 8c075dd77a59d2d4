package model

import "testing"

func TestParseAction(t *testing.T) {
	for _, name := range []string{"mark_read", "mark_unread", "resolve", "dismiss", "escalate", "acknowledge"} {
		a, err := ParseAction(name)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", name, err)
		}
		if string(a) != name {
			t.Fatalf("ParseAction(%q) = %q", name, a)
		}
	}
}

func TestParseActionRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "Resolve", "delete", "escalate "} {
		if _, err := ParseAction(name); err != ErrInvalidAction {
			t.Fatalf("ParseAction(%q): expected ErrInvalidAction, got %v", name, err)
		}
	}
}
