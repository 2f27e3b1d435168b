package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"devconnect/internal/database"
	"devconnect/internal/domain/post"
)

type PostRepository struct {
	db database.DB
}

func NewPostRepository(db database.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, user_id, name, avatar, text, likes, comments, version, created_at`

func (r *PostRepository) Create(ctx context.Context, p post.Post) error {
	likes, comments, err := marshalPostEmbedded(p)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO posts (id, user_id, name, avatar, text, likes, comments, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8)`,
		p.ID, p.User, p.Name, p.Avatar, p.Text, likes, comments, p.CreatedAt,
	)
	return err
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (post.Post, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`,
		id,
	)
	return scanPost(row)
}

func (r *PostRepository) List(ctx context.Context) ([]post.Post, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostRepository) Update(ctx context.Context, p post.Post) error {
	likes, comments, err := marshalPostEmbedded(p)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE posts SET likes = $1, comments = $2, version = version + 1
		 WHERE id = $3 AND version = $4`,
		likes, comments, p.ID, p.Version,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return post.ErrConflict
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (r *PostRepository) DeleteByUserTx(ctx context.Context, tx database.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, userID)
	return err
}

func marshalPostEmbedded(p post.Post) (likes, comments []byte, err error) {
	if p.Likes == nil {
		p.Likes = []post.Like{}
	}
	if likes, err = json.Marshal(p.Likes); err != nil {
		return nil, nil, err
	}
	if p.Comments == nil {
		p.Comments = []post.Comment{}
	}
	if comments, err = json.Marshal(p.Comments); err != nil {
		return nil, nil, err
	}
	return likes, comments, nil
}

func scanPost(row database.Row) (post.Post, error) {
	var p post.Post
	var likes, comments []byte

	err := row.Scan(&p.ID, &p.User, &p.Name, &p.Avatar, &p.Text, &likes, &comments, &p.Version, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, err
	}

	if err := json.Unmarshal(likes, &p.Likes); err != nil {
		return post.Post{}, err
	}
	if err := json.Unmarshal(comments, &p.Comments); err != nil {
		return post.Post{}, err
	}
	return p, nil
}
