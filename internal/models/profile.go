package models

import "time"

// Profile is the one-per-user developer profile.
type Profile struct {
	ID             string       `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	UserID         string       `gorm:"uniqueIndex;not null;type:varchar(36)" json:"-"`
	User           *UserSummary `gorm:"-" json:"user,omitempty"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `gorm:"not null" json:"status"`
	GitHubUsername string       `gorm:"column:github_username" json:"githubusername,omitempty"`
	Skills         []string     `gorm:"serializer:json;type:text" json:"skills"`
	Social         Social       `gorm:"serializer:json;type:text" json:"social"`
	Experience     []Experience `gorm:"serializer:json;type:text" json:"experience"`
	Education      []Education  `gorm:"serializer:json;type:text" json:"education"`
	Date           time.Time    `json:"date"`
}

// Social holds the optional social network links of a profile.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is one job entry.
type Experience struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is one school entry.
type Education struct {
	ID           string     `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// PrependExperience returns list with exp at the head.
func PrependExperience(list []Experience, exp Experience) []Experience {
	return append([]Experience{exp}, list...)
}

// RemoveExperience drops the entry with id. Unknown ids leave list unchanged.
func RemoveExperience(list []Experience, id string) []Experience {
	out := make([]Experience, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// PrependEducation returns list with edu at the head.
func PrependEducation(list []Education, edu Education) []Education {
	return append([]Education{edu}, list...)
}

// RemoveEducation drops the entry with id. Unknown ids leave list unchanged.
func RemoveEducation(list []Education, id string) []Education {
	out := make([]Education, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Normalize replaces nil lists so they serialize as [].
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
}
