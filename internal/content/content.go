// Package content holds the portfolio data model: projects, skills, contact
// messages and the site settings singleton.
package content

import (
	"fmt"
	"reflect"
	"time"

	"github.com/devfolio/devfolio/internal/store"
	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

// Collection names persisted by the store.
const (
	ProjectsCollection  = "projects"
	SkillsCollection    = "skills"
	MessagesCollection  = "messages"
	SettingsCollection  = "settings"
	OperatorsCollection = "operators"

	// SettingsID is the identifier of the settings singleton.
	SettingsID = "general"
)

const (
	MinSkillLevel     = 1
	MaxSkillLevel     = 10
	DefaultSkillLevel = 5
)

type Project struct {
	ID           string   `json:"id" mapstructure:"-"`
	Title        string   `json:"title" mapstructure:"title"`
	Description  string   `json:"description" mapstructure:"description"`
	Technologies []string `json:"technologies" mapstructure:"technologies"`
	ImageURL     string   `json:"imageUrl,omitempty" mapstructure:"imageUrl"`
	LiveURL      string   `json:"liveUrl,omitempty" mapstructure:"liveUrl"`
	GithubURL    string   `json:"githubUrl,omitempty" mapstructure:"githubUrl"`
}

func (p Project) Fields() store.Fields {
	tech := make([]any, 0, len(p.Technologies))
	for _, t := range p.Technologies {
		tech = append(tech, t)
	}
	return store.Fields{
		"title":        p.Title,
		"description":  p.Description,
		"technologies": tech,
		"imageUrl":     p.ImageURL,
		"liveUrl":      p.LiveURL,
		"githubUrl":    p.GithubURL,
	}
}

type Skill struct {
	ID       string `json:"id" mapstructure:"-"`
	Name     string `json:"name" mapstructure:"name"`
	Category string `json:"category" mapstructure:"category"`
	Level    int    `json:"level" mapstructure:"level"`
}

func (s Skill) Fields() store.Fields {
	return store.Fields{"name": s.Name, "category": s.Category, "level": s.Level}
}

// TimestampLayout is RFC 3339 in UTC with fixed millisecond precision, so
// stored timestamps sort as strings in time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Message is a contact form submission. CreatedAt uses TimestampLayout.
type Message struct {
	ID        string `json:"id" mapstructure:"-"`
	Name      string `json:"name" mapstructure:"name"`
	Email     string `json:"email" mapstructure:"email"`
	Subject   string `json:"subject" mapstructure:"subject"`
	Message   string `json:"message" mapstructure:"message"`
	CreatedAt string `json:"createdAt" mapstructure:"createdAt"`
	Read      bool   `json:"read" mapstructure:"read"`
}

func (m Message) Fields() store.Fields {
	return store.Fields{
		"name":      m.Name,
		"email":     m.Email,
		"subject":   m.Subject,
		"message":   m.Message,
		"createdAt": m.CreatedAt,
		"read":      m.Read,
	}
}

// Created parses CreatedAt, with or without fractional seconds; the zero
// time is returned for malformed values.
func (m Message) Created() time.Time {
	t, err := time.Parse(time.RFC3339, m.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NewEntryID returns a client-generated, time-ordered identifier for list
// entries embedded in the settings document.
func NewEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// DecodeProject, DecodeSkill and DecodeMessage map a stored document onto
// the typed record, tolerating the numeric and container types drivers return.
func DecodeProject(d store.Document) (Project, error) {
	var p Project
	if err := decode(d.Fields, &p); err != nil {
		return Project{}, fmt.Errorf("decode project %s: %w", d.ID, err)
	}
	p.ID = d.ID
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p, nil
}

func DecodeSkill(d store.Document) (Skill, error) {
	var s Skill
	if err := decode(d.Fields, &s); err != nil {
		return Skill{}, fmt.Errorf("decode skill %s: %w", d.ID, err)
	}
	s.ID = d.ID
	return s, nil
}

func DecodeMessage(d store.Document) (Message, error) {
	var m Message
	if err := decode(d.Fields, &m); err != nil {
		return Message{}, fmt.Errorf("decode message %s: %w", d.ID, err)
	}
	m.ID = d.ID
	return m, nil
}

func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       timeToString,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func timeToString(from, to reflect.Type, data any) (any, error) {
	if t, ok := data.(time.Time); ok && to.Kind() == reflect.String {
		return t.UTC().Format(TimestampLayout), nil
	}
	return data, nil
}
