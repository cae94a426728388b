package link

import "testing"

func TestRelationshipAlphabetSize(t *testing.T) {
	if got := len(Relationships()); got != 16 {
		t.Errorf("alphabet has %d symbols, want 16", got)
	}
}

func TestInverseIsInvolutive(t *testing.T) {
	for _, r := range Relationships() {
		inv, err := Inverse(r)
		if err != nil {
			t.Fatalf("Inverse(%q): %v", r, err)
		}
		if inv == r {
			t.Errorf("Inverse(%q) maps to itself", r)
		}
		back, err := Inverse(inv)
		if err != nil {
			t.Fatalf("Inverse(%q): %v", inv, err)
		}
		if back != r {
			t.Errorf("Inverse(Inverse(%q)) = %q, want %q", r, back, r)
		}
	}
}

func TestInverseKnownPairs(t *testing.T) {
	pairs := map[string]string{
		"evolved_into": "evolved_from",
		"part_of":      "contains",
		"blocked_by":   "blocks",
		"supersedes":   "superseded_by",
		"references":   "referenced_by",
		"depends_on":   "dependency_of",
		"enables":      "enabled_by",
		"informs":      "informed_by",
	}
	for r, want := range pairs {
		got, err := Inverse(r)
		if err != nil {
			t.Fatalf("Inverse(%q): %v", r, err)
		}
		if got != want {
			t.Errorf("Inverse(%q) = %q, want %q", r, got, want)
		}
	}
}

func TestInverseUnknown(t *testing.T) {
	if _, err := Inverse("friends_with"); err == nil {
		t.Error("expected error for unknown relationship")
	}
	if IsKnownRelationship("friends_with") {
		t.Error("friends_with should not be in the alphabet")
	}
	if !IsKnownRelationship("references") {
		t.Error("references should be in the alphabet")
	}
}
