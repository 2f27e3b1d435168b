package profile

import (
	"time"

	"github.com/google/uuid"
)

// Owner is the denormalized slice of the owning user that profile reads
// expose alongside the document.
type Owner struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience and Education are embedded entries. From/To are kept as the
// opaque date strings clients submit; the service never computes on them.
type Experience struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location,omitempty"`
	From        string    `json:"from"`
	To          string    `json:"to,omitempty"`
	Current     bool      `json:"current"`
	Description string    `json:"description,omitempty"`
}

type Education struct {
	ID           uuid.UUID `json:"id"`
	School       string    `json:"school"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"fieldofstudy"`
	From         string    `json:"from"`
	To           string    `json:"to,omitempty"`
	Current      bool      `json:"current"`
	Description  string    `json:"description,omitempty"`
}

type Profile struct {
	User           Owner        `json:"user"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Bio            string       `json:"bio,omitempty"`
	Location       string       `json:"location,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`

	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddExperience prepends the entry so the list stays most-recent-first.
func (p *Profile) AddExperience(e Experience) {
	p.Experience = append([]Experience{e}, p.Experience...)
}

// RemoveExperience deletes the entry with the given id. It reports whether
// an entry was found; the list is untouched otherwise.
func (p *Profile) RemoveExperience(id uuid.UUID) bool {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Profile) AddEducation(e Education) {
	p.Education = append([]Education{e}, p.Education...)
}

func (p *Profile) RemoveEducation(id uuid.UUID) bool {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}
