package post

import (
	"testing"

	"github.com/google/uuid"
)

func TestPost_Likes(t *testing.T) {
	var p Post
	a, b := uuid.New(), uuid.New()

	if p.HasLike(a) {
		t.Fatalf("empty post must have no likes")
	}

	p.AddLike(a)
	p.AddLike(b)

	if !p.HasLike(a) || !p.HasLike(b) {
		t.Fatalf("expected both likes present")
	}
	if p.Likes[0].User != b {
		t.Fatalf("newest like must be first")
	}

	if p.RemoveLike(uuid.New()) {
		t.Fatalf("removing an absent like must report false")
	}
	if !p.RemoveLike(a) {
		t.Fatalf("expected removal to succeed")
	}
	if p.HasLike(a) || len(p.Likes) != 1 {
		t.Fatalf("unexpected likes after removal: %+v", p.Likes)
	}
}

func TestPost_Comments(t *testing.T) {
	var p Post
	author := uuid.New()
	first := Comment{ID: uuid.New(), User: author, Text: "first"}
	second := Comment{ID: uuid.New(), User: author, Text: "second"}

	p.AddComment(first)
	p.AddComment(second)

	if p.Comments[0].ID != second.ID {
		t.Fatalf("newest comment must be first")
	}

	if _, ok := p.FindComment(uuid.New()); ok {
		t.Fatalf("unknown id must not resolve")
	}
	got, ok := p.FindComment(first.ID)
	if !ok || got.Text != "first" {
		t.Fatalf("expected to find the first comment, got %+v", got)
	}

	// Same author on both comments: removal must key on the comment id.
	if !p.RemoveComment(first.ID) {
		t.Fatalf("expected removal to succeed")
	}
	if len(p.Comments) != 1 || p.Comments[0].ID != second.ID {
		t.Fatalf("removal must target the id, not the author: %+v", p.Comments)
	}
}
