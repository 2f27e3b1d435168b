package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"devconnect/internal/domain/post"
	"devconnect/internal/domain/user"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthorized   = errors.New("user not authorized")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked")
	ErrConflict        = errors.New("conflicting concurrent update")
	ErrInternal        = errors.New("internal error")
)

const maxWriteAttempts = 3

// Notifier fans mutation events out to the live activity feed. A nil
// notifier disables the feed.
type Notifier interface {
	PostCreated(p post.Post)
	CommentAdded(postID uuid.UUID, c post.Comment)
}

type Usecase interface {
	Create(ctx context.Context, userID uuid.UUID, text string) (post.Post, error)
	List(ctx context.Context) ([]post.Post, error)
	Get(ctx context.Context, id uuid.UUID) (post.Post, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	Like(ctx context.Context, userID, id uuid.UUID) ([]post.Like, error)
	Unlike(ctx context.Context, userID, id uuid.UUID) ([]post.Like, error)

	AddComment(ctx context.Context, userID, id uuid.UUID, text string) ([]post.Comment, error)
	RemoveComment(ctx context.Context, userID, postID, commentID uuid.UUID) ([]post.Comment, error)
}

type Service struct {
	posts    post.Repository
	users    user.Repository
	notifier Notifier

	now func() time.Time
}

func NewService(posts post.Repository, users user.Repository, notifier Notifier) *Service {
	return &Service{
		posts:    posts,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create persists a post carrying a snapshot of the author's current
// name and avatar.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, text string) (post.Post, error) {
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return post.Post{}, ErrInternal
	}

	p := post.Post{
		ID:        uuid.New(),
		User:      author.ID,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Text:      strings.TrimSpace(text),
		Likes:     []post.Like{},
		Comments:  []post.Comment{},
		CreatedAt: s.now().UTC(),
	}

	if err := s.posts.Create(ctx, p); err != nil {
		return post.Post{}, ErrInternal
	}

	if s.notifier != nil {
		s.notifier.PostCreated(p)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]post.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (post.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return post.Post{}, ErrNotFound
		}
		return post.Post{}, ErrInternal
	}
	return p, nil
}

// Delete removes a post with its likes and comments. Only the author
// may delete.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	if p.User != userID {
		return ErrNotAuthorized
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (s *Service) Like(ctx context.Context, userID, id uuid.UUID) ([]post.Like, error) {
	p, err := s.mutate(ctx, id, func(p *post.Post) error {
		if p.HasLike(userID) {
			return ErrAlreadyLiked
		}
		p.AddLike(userID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *Service) Unlike(ctx context.Context, userID, id uuid.UUID) ([]post.Like, error) {
	p, err := s.mutate(ctx, id, func(p *post.Post) error {
		if !p.RemoveLike(userID) {
			return ErrNotLiked
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *Service) AddComment(ctx context.Context, userID, id uuid.UUID, text string) ([]post.Comment, error) {
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	c := post.Comment{
		ID:        uuid.New(),
		User:      author.ID,
		Text:      strings.TrimSpace(text),
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: s.now().UTC(),
	}

	p, err := s.mutate(ctx, id, func(p *post.Post) error {
		p.AddComment(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.CommentAdded(id, c)
	}
	return p.Comments, nil
}

// RemoveComment locates the comment by its own id; only the comment's
// author may remove it.
func (s *Service) RemoveComment(ctx context.Context, userID, postID, commentID uuid.UUID) ([]post.Comment, error) {
	p, err := s.mutate(ctx, postID, func(p *post.Post) error {
		c, ok := p.FindComment(commentID)
		if !ok {
			return ErrCommentNotFound
		}
		if c.User != userID {
			return ErrNotAuthorized
		}
		p.RemoveComment(commentID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

// mutate runs a read-modify-write cycle under the optimistic version
// guard, re-reading and reapplying on conflict. Business checks inside
// fn run against the freshly read document on every attempt.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(*post.Post) error) (post.Post, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		p, err := s.posts.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, post.ErrNotFound) {
				return post.Post{}, ErrNotFound
			}
			return post.Post{}, ErrInternal
		}

		if err := fn(&p); err != nil {
			return post.Post{}, err
		}

		if err := s.posts.Update(ctx, p); err != nil {
			if errors.Is(err, post.ErrConflict) {
				continue
			}
			return post.Post{}, ErrInternal
		}
		return p, nil
	}
	return post.Post{}, ErrConflict
}
