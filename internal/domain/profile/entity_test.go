package profile

import (
	"testing"

	"github.com/google/uuid"
)

func TestProfile_AddExperience_Order(t *testing.T) {
	var p Profile

	p.AddExperience(Experience{ID: uuid.New(), Title: "first"})
	p.AddExperience(Experience{ID: uuid.New(), Title: "second"})
	p.AddExperience(Experience{ID: uuid.New(), Title: "third"})

	if len(p.Experience) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(p.Experience))
	}
	for i, want := range []string{"third", "second", "first"} {
		if p.Experience[i].Title != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, p.Experience[i].Title)
		}
	}
}

func TestProfile_RemoveExperience_ByID(t *testing.T) {
	var p Profile
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	p.AddExperience(Experience{ID: a, Title: "a"})
	p.AddExperience(Experience{ID: b, Title: "b"})
	p.AddExperience(Experience{ID: c, Title: "c"})

	if p.RemoveExperience(uuid.New()) {
		t.Fatalf("removing an unknown id must report false")
	}
	if len(p.Experience) != 3 {
		t.Fatalf("list must be untouched after a failed removal")
	}

	if !p.RemoveExperience(b) {
		t.Fatalf("expected removal to succeed")
	}
	if len(p.Experience) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(p.Experience))
	}
	if p.Experience[0].ID != c || p.Experience[1].ID != a {
		t.Fatalf("removal must splice exactly the targeted entry")
	}
}

func TestProfile_Education(t *testing.T) {
	var p Profile
	id := uuid.New()
	p.AddEducation(Education{ID: uuid.New(), School: "older"})
	p.AddEducation(Education{ID: id, School: "newer"})

	if p.Education[0].School != "newer" {
		t.Fatalf("newest entry must be at position 0")
	}
	if !p.RemoveEducation(id) {
		t.Fatalf("expected removal to succeed")
	}
	if len(p.Education) != 1 || p.Education[0].School != "older" {
		t.Fatalf("unexpected list after removal: %+v", p.Education)
	}
}
