package logging

import "testing"

func TestNewTagsSubsystem(t *testing.T) {
	l := New("physics")
	if l.prefix != "[physics] " {
		t.Fatalf("prefix = %q, want %q", l.prefix, "[physics] ")
	}
}
