package model

import "testing"

func TestForm_PublicID(t *testing.T) {
	f := Form{UUIDBase: UUIDBase{ID: "0b6a7f0e-3d63-4b7e-9a64-9f3c1b2d4e5f"}}
	if f.PublicID() != f.ID {
		t.Fatalf("PublicID = %q, want system id", f.PublicID())
	}

	empty := ""
	f.Slug = &empty
	if f.PublicID() != f.ID {
		t.Fatalf("empty slug should fall back to system id")
	}

	slug := "geography-quiz"
	f.Slug = &slug
	if f.PublicID() != slug {
		t.Fatalf("PublicID = %q, want slug", f.PublicID())
	}
}

func TestCandidateRefs_Order(t *testing.T) {
	refs := CandidateRefs("  abc ")
	if len(refs) != 2 {
		t.Fatalf("got %d refs", len(refs))
	}
	if refs[0] != SlugRef("abc") || refs[1] != SystemRef("abc") {
		t.Fatalf("unexpected refs %+v", refs)
	}
	if CandidateRefs("   ") != nil {
		t.Fatal("blank identifier must yield no refs")
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug string
		ok   bool
	}{
		{"geography-quiz", true},
		{"quiz2", true},
		{"Geography", false},
		{"double--dash", false},
		{"-leading", false},
		{"64f1a2b3c4d5e6f708192a3b", false},
		{"0b6a7f0e-3d63-4b7e-9a64-9f3c1b2d4e5f", false},
	}
	for _, tc := range tests {
		err := ValidateSlug(tc.slug)
		if (err == nil) != tc.ok {
			t.Errorf("ValidateSlug(%q) err = %v, want ok=%v", tc.slug, err, tc.ok)
		}
	}
}

func TestAnswerPayload_Percentage(t *testing.T) {
	if p := (AnswerPayload{Score: 2, MaxScore: 3}).Percentage(); p != 67 {
		t.Fatalf("Percentage = %d, want 67", p)
	}
	if p := (AnswerPayload{Score: 2}).Percentage(); p != 0 {
		t.Fatalf("Percentage with zero max = %d", p)
	}
}
