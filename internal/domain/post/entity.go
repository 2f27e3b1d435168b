package post

import (
	"time"

	"github.com/google/uuid"
)

// Like records one user's like. Likes behave as a set keyed by user id;
// the slice keeps recency order, the pre-check in HasLike keeps the set
// constraint.
type Like struct {
	User uuid.UUID `json:"user"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	User      uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// Post carries a denormalized snapshot of the author's name and avatar
// taken at creation time; later account changes do not rewrite history.
type Post struct {
	ID       uuid.UUID `json:"id"`
	User     uuid.UUID `json:"user"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Text     string    `json:"text"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`

	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"date"`
}

func (p *Post) HasLike(userID uuid.UUID) bool {
	for _, l := range p.Likes {
		if l.User == userID {
			return true
		}
	}
	return false
}

// AddLike prepends so the most recent like comes first. Callers check
// HasLike before adding.
func (p *Post) AddLike(userID uuid.UUID) {
	p.Likes = append([]Like{{User: userID}}, p.Likes...)
}

func (p *Post) RemoveLike(userID uuid.UUID) bool {
	for i, l := range p.Likes {
		if l.User == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Post) AddComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

func (p *Post) FindComment(id uuid.UUID) (Comment, bool) {
	for _, c := range p.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

// RemoveComment deletes the comment with the given id, not the first
// comment by a given author.
func (p *Post) RemoveComment(id uuid.UUID) bool {
	for i, c := range p.Comments {
		if c.ID == id {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}
