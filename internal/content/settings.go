package content

import (
	"fmt"

	"github.com/devfolio/devfolio/internal/store"
)

type SocialLink struct {
	ID       string `json:"id" mapstructure:"id"`
	Platform string `json:"platform" mapstructure:"platform" validate:"required"`
	URL      string `json:"url" mapstructure:"url" validate:"required,url"`
	Icon     string `json:"icon,omitempty" mapstructure:"icon"`
}

type Education struct {
	ID          string `json:"id" mapstructure:"id"`
	Degree      string `json:"degree" mapstructure:"degree" validate:"required"`
	Institution string `json:"institution" mapstructure:"institution" validate:"required"`
	Year        string `json:"year" mapstructure:"year" validate:"required"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

type Certification struct {
	ID     string `json:"id" mapstructure:"id"`
	Name   string `json:"name" mapstructure:"name" validate:"required"`
	Issuer string `json:"issuer" mapstructure:"issuer" validate:"required"`
	Date   string `json:"date" mapstructure:"date" validate:"required"`
	URL    string `json:"url,omitempty" mapstructure:"url"`
}

// Settings is the singleton stored at settings/general.
type Settings struct {
	FullName        string          `json:"fullName" mapstructure:"fullName"`
	Title           string          `json:"title" mapstructure:"title"`
	Bio             string          `json:"bio" mapstructure:"bio"`
	Email           string          `json:"email" mapstructure:"email"`
	Location        string          `json:"location" mapstructure:"location"`
	ProfileImage    string          `json:"profileImage" mapstructure:"profileImage"`
	SiteTitle       string          `json:"siteTitle" mapstructure:"siteTitle"`
	SiteDescription string          `json:"siteDescription" mapstructure:"siteDescription"`
	Keywords        []string        `json:"keywords" mapstructure:"keywords"`
	OGImage         string          `json:"ogImage" mapstructure:"ogImage"`
	TwitterHandle   string          `json:"twitterHandle" mapstructure:"twitterHandle"`
	CustomDomain    string          `json:"customDomain" mapstructure:"customDomain"`
	AboutMe         string          `json:"aboutMe" mapstructure:"aboutMe"`
	SocialLinks     []SocialLink    `json:"socialLinks" mapstructure:"socialLinks"`
	Education       []Education     `json:"education" mapstructure:"education"`
	Certifications  []Certification `json:"certifications" mapstructure:"certifications"`
}

// DefaultSettings is written on first load when no settings exist.
func DefaultSettings() Settings {
	return Settings{
		Keywords:       []string{},
		SocialLinks:    []SocialLink{},
		Education:      []Education{},
		Certifications: []Certification{},
	}
}

// DecodeSettings decodes the settings document. Missing lists become empty
// lists and legacy entries without an id are assigned one.
func DecodeSettings(d store.Document) (Settings, error) {
	s, _, err := DecodeSettingsAssigningIDs(d)
	return s, err
}

// DecodeSettingsAssigningIDs is DecodeSettings that also reports whether any
// entry was assigned a new id. Such ids exist only in the returned value
// until the settings are written back.
func DecodeSettingsAssigningIDs(d store.Document) (Settings, bool, error) {
	s := DefaultSettings()
	if err := decode(d.Fields, &s); err != nil {
		return Settings{}, false, fmt.Errorf("decode settings: %w", err)
	}
	assigned := s.normalize()
	return s, assigned, nil
}

func (s *Settings) normalize() bool {
	if s.Keywords == nil {
		s.Keywords = []string{}
	}
	if s.SocialLinks == nil {
		s.SocialLinks = []SocialLink{}
	}
	if s.Education == nil {
		s.Education = []Education{}
	}
	if s.Certifications == nil {
		s.Certifications = []Certification{}
	}
	assigned := false
	for i := range s.SocialLinks {
		if s.SocialLinks[i].ID == "" {
			s.SocialLinks[i].ID = NewEntryID()
			assigned = true
		}
	}
	for i := range s.Education {
		if s.Education[i].ID == "" {
			s.Education[i].ID = NewEntryID()
			assigned = true
		}
	}
	for i := range s.Certifications {
		if s.Certifications[i].ID == "" {
			s.Certifications[i].ID = NewEntryID()
			assigned = true
		}
	}
	return assigned
}

// Fields returns the whole settings object as one document.
func (s Settings) Fields() store.Fields {
	keywords := make([]any, 0, len(s.Keywords))
	for _, k := range s.Keywords {
		keywords = append(keywords, k)
	}
	links := make([]any, 0, len(s.SocialLinks))
	for _, l := range s.SocialLinks {
		links = append(links, map[string]any{"id": l.ID, "platform": l.Platform, "url": l.URL, "icon": l.Icon})
	}
	edu := make([]any, 0, len(s.Education))
	for _, e := range s.Education {
		edu = append(edu, map[string]any{
			"id": e.ID, "degree": e.Degree, "institution": e.Institution, "year": e.Year, "description": e.Description,
		})
	}
	certs := make([]any, 0, len(s.Certifications))
	for _, c := range s.Certifications {
		certs = append(certs, map[string]any{"id": c.ID, "name": c.Name, "issuer": c.Issuer, "date": c.Date, "url": c.URL})
	}
	return store.Fields{
		"fullName":        s.FullName,
		"title":           s.Title,
		"bio":             s.Bio,
		"email":           s.Email,
		"location":        s.Location,
		"profileImage":    s.ProfileImage,
		"siteTitle":       s.SiteTitle,
		"siteDescription": s.SiteDescription,
		"keywords":        keywords,
		"ogImage":         s.OGImage,
		"twitterHandle":   s.TwitterHandle,
		"customDomain":    s.CustomDomain,
		"aboutMe":         s.AboutMe,
		"socialLinks":     links,
		"education":       edu,
		"certifications":  certs,
	}
}
