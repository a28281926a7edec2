package domain

import (
	"strings"
	"testing"
	"time"
)

func TestHealthString(t *testing.T) {
	tests := []struct {
		health Health
		want   string
	}{
		{Alive, "alive"},
		{Suspect, "suspect"},
		{Confirmed, "confirmed"},
		{Departed, "departed"},
		{Health(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.health.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHealthTextRoundTrip(t *testing.T) {
	for _, h := range []Health{Alive, Suspect, Confirmed, Departed} {
		text, err := h.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", h, err)
		}

		var back Health
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != h {
			t.Errorf("round trip of %v gave %v", h, back)
		}
	}
}

func TestHealthUnmarshalUnknown(t *testing.T) {
	var h Health
	err := h.UnmarshalText([]byte("zombie"))
	if !IsDomainError(err, ErrUnknownHealth.Code) {
		t.Errorf("UnmarshalText(zombie) = %v, want %v", err, ErrUnknownHealth)
	}
}

func TestHealthWorse(t *testing.T) {
	tests := []struct {
		a, b Health
		want bool
	}{
		{Suspect, Alive, true},
		{Confirmed, Suspect, true},
		{Departed, Confirmed, true},
		{Alive, Suspect, false},
		{Suspect, Suspect, false},
	}

	for _, tt := range tests {
		if got := tt.a.Worse(tt.b); got != tt.want {
			t.Errorf("%v.Worse(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGenerateMemberID(t *testing.T) {
	id, err := GenerateMemberID()
	if err != nil {
		t.Fatalf("GenerateMemberID: %v", err)
	}

	if !strings.HasPrefix(id, MemberIDPrefix) {
		t.Errorf("id %q missing prefix %q", id, MemberIDPrefix)
	}
	if len(id) != 31 {
		t.Errorf("len(id) = %d, want 31", len(id))
	}
	if id != strings.ToLower(id) {
		t.Errorf("id %q is not lowercase", id)
	}
	if !IsValidMemberID(id) {
		t.Errorf("generated id %q does not validate", id)
	}
}

func TestGenerateMemberIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := GenerateMemberID()
		if err != nil {
			t.Fatalf("GenerateMemberID: %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsValidMemberID(t *testing.T) {
	valid, err := GenerateMemberID()
	if err != nil {
		t.Fatalf("GenerateMemberID: %v", err)
	}

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"generated", valid, true},
		{"uppercase variant", strings.ToUpper(valid), true},
		{"empty", "", false},
		{"wrong prefix", "xxxx-01hqv8n5q8z3m9k2p7r4t6w8y0", false},
		{"too short", "rmnd-01hqv", false},
		{"not a ulid", "rmnd-zzzzzzzzzzzzzzzzzzzzzzzzzz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidMemberID(tt.id); got != tt.want {
				t.Errorf("IsValidMemberID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestMemberKey(t *testing.T) {
	m := Member{ID: "rmnd-x", Health: Suspect, LastTransition: time.Now()}

	key := m.Key()
	if key.Kind != KindMember {
		t.Errorf("key.Kind = %v, want %v", key.Kind, KindMember)
	}
	if key.ID != "rmnd-x" {
		t.Errorf("key.ID = %q, want %q", key.ID, "rmnd-x")
	}
	if key.Qualifier != "" {
		t.Errorf("key.Qualifier = %q, want empty", key.Qualifier)
	}
}
