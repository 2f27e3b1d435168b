package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"devconnect/internal/domain/post"
)

const (
	EventPostCreated  = "post_created"
	EventCommentAdded = "comment_added"
)

type PostCreatedEvent struct {
	Type      string    `json:"type"`
	Post      post.Post `json:"post"`
	Timestamp string    `json:"timestamp"`
}

type CommentAddedEvent struct {
	Type      string       `json:"type"`
	PostID    uuid.UUID    `json:"post_id"`
	Comment   post.Comment `json:"comment"`
	Timestamp string       `json:"timestamp"`
}

// FeedNotifier adapts the hub to the post service's notifier contract.
type FeedNotifier struct {
	hub *Hub
}

func NewFeedNotifier(hub *Hub) *FeedNotifier {
	return &FeedNotifier{hub: hub}
}

func (n *FeedNotifier) PostCreated(p post.Post) {
	if n == nil {
		return
	}
	n.publish(PostCreatedEvent{
		Type:      EventPostCreated,
		Post:      p,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (n *FeedNotifier) CommentAdded(postID uuid.UUID, c post.Comment) {
	if n == nil {
		return
	}
	n.publish(CommentAddedEvent{
		Type:      EventCommentAdded,
		PostID:    postID,
		Comment:   c,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (n *FeedNotifier) publish(evt any) {
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
