package post

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"devconnect/internal/database"
	"devconnect/internal/domain/post"
	"devconnect/internal/domain/user"
)

type mockPostRepo struct {
	posts map[uuid.UUID]post.Post

	conflictsLeft int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: map[uuid.UUID]post.Post{}}
}

func (m *mockPostRepo) Create(_ context.Context, p post.Post) error {
	p.Version = 1
	m.posts[p.ID] = p
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id uuid.UUID) (post.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	return p, nil
}

func (m *mockPostRepo) List(_ context.Context) ([]post.Post, error) {
	out := make([]post.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPostRepo) Update(_ context.Context, p post.Post) error {
	if m.conflictsLeft > 0 {
		m.conflictsLeft--
		return post.ErrConflict
	}
	cur, ok := m.posts[p.ID]
	if !ok || cur.Version != p.Version {
		return post.ErrConflict
	}
	p.Version++
	m.posts[p.ID] = p
	return nil
}

func (m *mockPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.posts[id]; !ok {
		return post.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) DeleteByUserTx(_ context.Context, _ database.Tx, userID uuid.UUID) error {
	for id, p := range m.posts {
		if p.User == userID {
			delete(m.posts, id)
		}
	}
	return nil
}

type mockUserRepo struct {
	users map[uuid.UUID]user.User
}

func (m *mockUserRepo) Create(context.Context, user.User) error { return nil }

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }

func (m *mockUserRepo) DeleteTx(context.Context, database.Tx, uuid.UUID) error { return nil }

type recordingNotifier struct {
	postsCreated  []post.Post
	commentsAdded []post.Comment
}

func (n *recordingNotifier) PostCreated(p post.Post) { n.postsCreated = append(n.postsCreated, p) }
func (n *recordingNotifier) CommentAdded(_ uuid.UUID, c post.Comment) {
	n.commentsAdded = append(n.commentsAdded, c)
}

type fixture struct {
	svc      *Service
	posts    *mockPostRepo
	notifier *recordingNotifier
	author   user.User
	other    user.User
}

func newFixture() *fixture {
	author := user.User{ID: uuid.New(), Name: "Jane", Avatar: "https://example.com/jane.png"}
	other := user.User{ID: uuid.New(), Name: "John", Avatar: "https://example.com/john.png"}

	posts := newMockPostRepo()
	users := &mockUserRepo{users: map[uuid.UUID]user.User{author.ID: author, other.ID: other}}
	notifier := &recordingNotifier{}

	svc := NewService(posts, users, notifier)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	return &fixture{svc: svc, posts: posts, notifier: notifier, author: author, other: other}
}

func (f *fixture) createPost(t *testing.T, text string) post.Post {
	t.Helper()
	p, err := f.svc.Create(context.Background(), f.author.ID, text)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func TestService_Create_SnapshotsAuthor(t *testing.T) {
	f := newFixture()

	p := f.createPost(t, "  hello world  ")

	if p.Text != "hello world" {
		t.Fatalf("expected trimmed text, got %q", p.Text)
	}
	if p.Name != "Jane" || p.Avatar != f.author.Avatar {
		t.Fatalf("expected author snapshot, got name=%q avatar=%q", p.Name, p.Avatar)
	}
	if len(p.Likes) != 0 || len(p.Comments) != 0 {
		t.Fatalf("expected empty likes and comments")
	}
	if len(f.notifier.postsCreated) != 1 {
		t.Fatalf("expected a post_created notification")
	}
}

func TestService_Delete_AuthorOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.createPost(t, "hello")

	if err := f.svc.Delete(ctx, f.other.ID, p.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := f.posts.GetByID(ctx, p.ID); err != nil {
		t.Fatalf("post must remain after rejected delete: %v", err)
	}

	if err := f.svc.Delete(ctx, f.author.ID, p.ID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
	if err := f.svc.Delete(ctx, f.author.ID, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestService_Like_SetSemantics(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.createPost(t, "hello")

	likes, err := f.svc.Like(ctx, f.other.ID, p.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(likes) != 1 || likes[0].User != f.other.ID {
		t.Fatalf("unexpected likes: %+v", likes)
	}

	if _, err := f.svc.Like(ctx, f.other.ID, p.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}

	likes, err = f.svc.Like(ctx, f.author.ID, p.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(likes) != 2 {
		t.Fatalf("expected 2 likes, got %d", len(likes))
	}
	if likes[0].User != f.author.ID {
		t.Fatalf("newest like must be first")
	}
}

func TestService_Unlike(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.createPost(t, "hello")

	if _, err := f.svc.Unlike(ctx, f.other.ID, p.ID); !errors.Is(err, ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}

	if _, err := f.svc.Like(ctx, f.other.ID, p.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	likes, err := f.svc.Unlike(ctx, f.other.ID, p.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(likes) != 0 {
		t.Fatalf("expected empty likes, got %+v", likes)
	}
}

func TestService_Like_RetriesOnConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.createPost(t, "hello")

	f.posts.conflictsLeft = 1
	if _, err := f.svc.Like(ctx, f.other.ID, p.ID); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}

	f.posts.conflictsLeft = maxWriteAttempts
	if _, err := f.svc.Like(ctx, f.author.ID, p.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict after exhausted retries, got %v", err)
	}
}

func TestService_AddComment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.createPost(t, "hello")

	comments, err := f.svc.AddComment(ctx, f.other.ID, p.ID, "first!")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	c := comments[0]
	if c.Text != "first!" || c.User != f.other.ID || c.Name != "John" {
		t.Fatalf("unexpected comment: %+v", c)
	}

	comments, err = f.svc.AddComment(ctx, f.author.ID, p.ID, "second")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if comments[0].Text != "second" {
		t.Fatalf("newest comment must be first, got %q", comments[0].Text)
	}
	if len(f.notifier.commentsAdded) != 2 {
		t.Fatalf("expected comment_added notifications")
	}
}

func TestService_RemoveComment_ByCommentID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.createPost(t, "hello")

	// Two comments by the same author: removal must target the id, not
	// the author's first comment.
	if _, err := f.svc.AddComment(ctx, f.other.ID, p.ID, "older"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	comments, err := f.svc.AddComment(ctx, f.other.ID, p.ID, "newer")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	older := comments[1]

	got, err := f.svc.RemoveComment(ctx, f.other.ID, p.ID, older.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].Text != "newer" {
		t.Fatalf("expected only the targeted comment removed: %+v", got)
	}
}

func TestService_RemoveComment_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.createPost(t, "hello")

	comments, err := f.svc.AddComment(ctx, f.other.ID, p.ID, "mine")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := f.svc.RemoveComment(ctx, f.other.ID, p.ID, uuid.New()); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}

	if _, err := f.svc.RemoveComment(ctx, f.author.ID, p.ID, comments[0].ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-author, got %v", err)
	}

	got, err := f.posts.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Comments) != 1 {
		t.Fatalf("comment must remain after rejected removal")
	}
}
