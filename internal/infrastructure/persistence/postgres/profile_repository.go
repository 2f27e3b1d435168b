package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"devconnect/internal/database"
	"devconnect/internal/domain/profile"
)

// ProfileRepository stores one document row per user. Experience,
// education and the social sub-object live in JSONB columns so a write
// replaces the embedded lists atomically; the version column guards the
// read-modify-write cycle in the service layer.
type ProfileRepository struct {
	db database.DB
}

func NewProfileRepository(db database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
	p.user_id, u.name, u.avatar,
	p.company, p.website, p.status, p.skills, p.bio, p.location, p.github_username,
	p.social, p.experience, p.education,
	p.version, p.created_at, p.updated_at`

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = $1`,
		userID,
	)
	return scanProfile(row)
}

func (r *ProfileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
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

func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) error {
	social, experience, education, err := marshalEmbedded(p)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO profiles
		   (user_id, company, website, status, skills, bio, location, github_username,
		    social, experience, education, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1)`,
		p.User.ID, p.Company, p.Website, p.Status, p.Skills, p.Bio, p.Location, p.GithubUsername,
		social, experience, education,
	)
	return err
}

func (r *ProfileRepository) Update(ctx context.Context, p profile.Profile) error {
	social, experience, education, err := marshalEmbedded(p)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE profiles SET
		   company = $1, website = $2, status = $3, skills = $4, bio = $5,
		   location = $6, github_username = $7, social = $8, experience = $9,
		   education = $10, version = version + 1, updated_at = now()
		 WHERE user_id = $11 AND version = $12`,
		p.Company, p.Website, p.Status, p.Skills, p.Bio,
		p.Location, p.GithubUsername, social, experience, education,
		p.User.ID, p.Version,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return profile.ErrConflict
	}
	return nil
}

func (r *ProfileRepository) DeleteTx(ctx context.Context, tx database.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}

func marshalEmbedded(p profile.Profile) (social, experience, education []byte, err error) {
	if social, err = json.Marshal(p.Social); err != nil {
		return nil, nil, nil, err
	}
	if p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if experience, err = json.Marshal(p.Experience); err != nil {
		return nil, nil, nil, err
	}
	if p.Education == nil {
		p.Education = []profile.Education{}
	}
	if education, err = json.Marshal(p.Education); err != nil {
		return nil, nil, nil, err
	}
	return social, experience, education, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var p profile.Profile
	var social, experience, education []byte

	err := row.Scan(
		&p.User.ID, &p.User.Name, &p.User.Avatar,
		&p.Company, &p.Website, &p.Status, &p.Skills, &p.Bio, &p.Location, &p.GithubUsername,
		&social, &experience, &education,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}

	if err := json.Unmarshal(social, &p.Social); err != nil {
		return profile.Profile{}, err
	}
	if err := json.Unmarshal(experience, &p.Experience); err != nil {
		return profile.Profile{}, err
	}
	if err := json.Unmarshal(education, &p.Education); err != nil {
		return profile.Profile{}, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}
