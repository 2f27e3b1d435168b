package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"devconnect/internal/database"
	"devconnect/internal/domain/post"
	"devconnect/internal/domain/profile"
	"devconnect/internal/domain/user"
	"devconnect/internal/infrastructure/github"
)

var (
	ErrNoProfile     = errors.New("no profile for this user")
	ErrEntryNotFound = errors.New("entry not found")
	ErrConflict      = errors.New("conflicting concurrent update")
	ErrNoGithubUser  = errors.New("no github profile found")
	ErrInternal      = errors.New("internal error")
)

// maxWriteAttempts bounds the optimistic read-modify-write loop. A
// conflict means another request updated the same document between our
// read and write; the loop re-reads and reapplies the mutation.
const maxWriteAttempts = 3

const (
	cacheKeyAll     = "profiles:all"
	cacheKeyUserFmt = "profiles:user:"
	cacheTTL        = 5 * time.Minute
)

// Cache is the read-side cache for public profile GETs.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type UpsertInput struct {
	Company        string
	Website        string
	Status         string
	Skills         string
	Bio            string
	Location       string
	GithubUsername string
	Youtube        string
	Twitter        string
	Facebook       string
	Linkedin       string
	Instagram      string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

type Usecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, in UpsertInput) (profile.Profile, error)
	List(ctx context.Context) ([]profile.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error

	AddExperience(ctx context.Context, userID uuid.UUID, in ExperienceInput) (profile.Profile, error)
	RemoveExperience(ctx context.Context, userID, entryID uuid.UUID) (profile.Profile, error)
	AddEducation(ctx context.Context, userID uuid.UUID, in EducationInput) (profile.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID uuid.UUID) (profile.Profile, error)

	GithubRepos(ctx context.Context, username string) (json.RawMessage, error)
}

type Service struct {
	db       database.DB
	profiles profile.Repository
	users    user.Repository
	posts    post.Repository
	cache    Cache
	github   github.Client
}

func NewService(
	db database.DB,
	profiles profile.Repository,
	users user.Repository,
	posts post.Repository,
	cache Cache,
	gh github.Client,
) *Service {
	return &Service{
		db:       db,
		profiles: profiles,
		users:    users,
		posts:    posts,
		cache:    cache,
		github:   gh,
	}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrNoProfile
		}
		return profile.Profile{}, ErrInternal
	}
	return p, nil
}

// Upsert creates the caller's profile or partially merges the supplied
// fields into the existing one. Repeated calls with the same input
// converge: only supplied (non-empty) fields overwrite.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, in UpsertInput) (profile.Profile, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		p, err := s.profiles.GetByUserID(ctx, userID)
		if err != nil {
			if !errors.Is(err, profile.ErrNotFound) {
				return profile.Profile{}, ErrInternal
			}

			owner, err := s.users.GetByID(ctx, userID)
			if err != nil {
				return profile.Profile{}, ErrInternal
			}
			fresh := profile.Profile{
				User: profile.Owner{ID: owner.ID, Name: owner.Name, Avatar: owner.Avatar},
			}
			applyUpsert(&fresh, in)
			if err := s.profiles.Create(ctx, fresh); err != nil {
				// Another request created the profile first; merge into it.
				continue
			}
			return s.finishWrite(ctx, userID)
		}

		applyUpsert(&p, in)
		if err := s.profiles.Update(ctx, p); err != nil {
			if errors.Is(err, profile.ErrConflict) {
				continue
			}
			return profile.Profile{}, ErrInternal
		}
		return s.finishWrite(ctx, userID)
	}
	return profile.Profile{}, ErrConflict
}

func (s *Service) List(ctx context.Context) ([]profile.Profile, error) {
	var cached []profile.Profile
	if ok, _ := s.cache.GetJSON(ctx, cacheKeyAll, &cached); ok {
		return cached, nil
	}

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	_ = s.cache.SetJSON(ctx, cacheKeyAll, profiles, cacheTTL)
	return profiles, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	key := cacheKeyUserFmt + userID.String()

	var cached profile.Profile
	if ok, _ := s.cache.GetJSON(ctx, key, &cached); ok {
		return cached, nil
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrNoProfile
		}
		return profile.Profile{}, ErrInternal
	}

	_ = s.cache.SetJSON(ctx, key, p, cacheTTL)
	return p, nil
}

// DeleteAccount removes the caller's posts, profile and user record in
// one transaction.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return ErrInternal
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := s.posts.DeleteByUserTx(ctx, tx, userID); err != nil {
		return ErrInternal
	}
	if err := s.profiles.DeleteTx(ctx, tx, userID); err != nil {
		return ErrInternal
	}
	if err := s.users.DeleteTx(ctx, tx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return ErrInternal
	}

	if err := tx.Commit(ctx); err != nil {
		return ErrInternal
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) AddExperience(ctx context.Context, userID uuid.UUID, in ExperienceInput) (profile.Profile, error) {
	return s.mutate(ctx, userID, func(p *profile.Profile) error {
		p.AddExperience(profile.Experience{
			ID:          uuid.New(),
			Title:       strings.TrimSpace(in.Title),
			Company:     strings.TrimSpace(in.Company),
			Location:    strings.TrimSpace(in.Location),
			From:        strings.TrimSpace(in.From),
			To:          strings.TrimSpace(in.To),
			Current:     in.Current,
			Description: strings.TrimSpace(in.Description),
		})
		return nil
	})
}

func (s *Service) RemoveExperience(ctx context.Context, userID, entryID uuid.UUID) (profile.Profile, error) {
	return s.mutate(ctx, userID, func(p *profile.Profile) error {
		if !p.RemoveExperience(entryID) {
			return ErrEntryNotFound
		}
		return nil
	})
}

func (s *Service) AddEducation(ctx context.Context, userID uuid.UUID, in EducationInput) (profile.Profile, error) {
	return s.mutate(ctx, userID, func(p *profile.Profile) error {
		p.AddEducation(profile.Education{
			ID:           uuid.New(),
			School:       strings.TrimSpace(in.School),
			Degree:       strings.TrimSpace(in.Degree),
			FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
			From:         strings.TrimSpace(in.From),
			To:           strings.TrimSpace(in.To),
			Current:      in.Current,
			Description:  strings.TrimSpace(in.Description),
		})
		return nil
	})
}

func (s *Service) RemoveEducation(ctx context.Context, userID, entryID uuid.UUID) (profile.Profile, error) {
	return s.mutate(ctx, userID, func(p *profile.Profile) error {
		if !p.RemoveEducation(entryID) {
			return ErrEntryNotFound
		}
		return nil
	})
}

func (s *Service) GithubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	repos, err := s.github.ListRepos(ctx, username)
	if err != nil {
		if errors.Is(err, github.ErrNoProfile) {
			return nil, ErrNoGithubUser
		}
		return nil, ErrInternal
	}
	return repos, nil
}

// mutate runs one read-modify-write cycle against the caller's profile
// under the optimistic version guard, retrying on conflict.
func (s *Service) mutate(ctx context.Context, userID uuid.UUID, fn func(*profile.Profile) error) (profile.Profile, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		p, err := s.profiles.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				return profile.Profile{}, ErrNoProfile
			}
			return profile.Profile{}, ErrInternal
		}

		if err := fn(&p); err != nil {
			return profile.Profile{}, err
		}

		if err := s.profiles.Update(ctx, p); err != nil {
			if errors.Is(err, profile.ErrConflict) {
				continue
			}
			return profile.Profile{}, ErrInternal
		}
		return s.finishWrite(ctx, userID)
	}
	return profile.Profile{}, ErrConflict
}

func (s *Service) finishWrite(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	s.invalidate(ctx, userID)

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, ErrInternal
	}
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	_ = s.cache.Delete(ctx, cacheKeyAll, cacheKeyUserFmt+userID.String())
}

func applyUpsert(p *profile.Profile, in UpsertInput) {
	if v := strings.TrimSpace(in.Company); v != "" {
		p.Company = v
	}
	if v := strings.TrimSpace(in.Website); v != "" {
		p.Website = v
	}
	if v := strings.TrimSpace(in.Status); v != "" {
		p.Status = v
	}
	if v := strings.TrimSpace(in.Bio); v != "" {
		p.Bio = v
	}
	if v := strings.TrimSpace(in.Location); v != "" {
		p.Location = v
	}
	if v := strings.TrimSpace(in.GithubUsername); v != "" {
		p.GithubUsername = v
	}
	if strings.TrimSpace(in.Skills) != "" {
		p.Skills = ParseSkills(in.Skills)
	}

	if v := strings.TrimSpace(in.Youtube); v != "" {
		p.Social.Youtube = v
	}
	if v := strings.TrimSpace(in.Twitter); v != "" {
		p.Social.Twitter = v
	}
	if v := strings.TrimSpace(in.Facebook); v != "" {
		p.Social.Facebook = v
	}
	if v := strings.TrimSpace(in.Linkedin); v != "" {
		p.Social.Linkedin = v
	}
	if v := strings.TrimSpace(in.Instagram); v != "" {
		p.Social.Instagram = v
	}
}

// ParseSkills splits a comma-separated skills string into trimmed
// tokens. Empty tokens are dropped; duplicates are kept as submitted.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
