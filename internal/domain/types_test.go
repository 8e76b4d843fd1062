package domain

import "testing"

func TestDeriveSessionID(t *testing.T) {
	cases := []struct {
		in   string
		want SessionID
	}{
		{"alice", "alice"},
		{"Dr. Smith", "dr__smith"},
		{"ANNA-42", "anna_42"},
		{"josé 99", "jos__99"},
		{"  bob  ", "__bob__"},
	}

	for _, c := range cases {
		got := DeriveSessionID(c.in)
		if got != c.want {
			t.Errorf("DeriveSessionID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDeriveSessionIDIdempotent(t *testing.T) {
	id := DeriveSessionID("Dr. Smith")
	if again := DeriveSessionID(string(id)); again != id {
		t.Fatalf("derivation is not idempotent: %q -> %q", id, again)
	}
}
