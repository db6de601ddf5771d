package portfolio

import (
	"fmt"
	"strconv"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/crud"
	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/store"
)

// SkillForm keeps Level as text so a blank input can mean the default level.
type SkillForm struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Category string `json:"category" form:"category" validate:"required"`
	Level    string `json:"level" form:"level"`
}

type SkillKind struct{}

func (SkillKind) Collection() string { return content.SkillsCollection }
func (SkillKind) Query() store.Query { return store.Query{} }
func (SkillKind) Labels() crud.Labels {
	return crud.Labels{Singular: "Skill", Plural: "skills"}
}
func (SkillKind) Decode(d store.Document) (content.Skill, error) { return content.DecodeSkill(d) }
func (SkillKind) ID(s content.Skill) string { return s.ID }
func (SkillKind) Blank() SkillForm {
	return SkillForm{Level: strconv.Itoa(content.DefaultSkillLevel)}
}

func (SkillKind) FormOf(s content.Skill) SkillForm {
	return SkillForm{Name: s.Name, Category: s.Category, Level: strconv.Itoa(s.Level)}
}

func (SkillKind) Fields(f SkillForm) (store.Fields, error) {
	f = SkillForm{Name: trim(f.Name), Category: trim(f.Category), Level: trim(f.Level)}
	if err := check(f); err != nil {
		return nil, err
	}
	level, err := ParseLevel(f.Level)
	if err != nil {
		return nil, err
	}
	return content.Skill{Name: f.Name, Category: f.Category, Level: level}.Fields(), nil
}

// ParseLevel parses a proficiency level. Blank means the default level;
// values outside [MinSkillLevel, MaxSkillLevel] are rejected.
func ParseLevel(s string) (int, error) {
	if s == "" {
		return content.DefaultSkillLevel, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Validation("level", "must be a whole number")
	}
	if n < content.MinSkillLevel || n > content.MaxSkillLevel {
		return 0, errs.Validation("level", fmt.Sprintf("must be between %d and %d", content.MinSkillLevel, content.MaxSkillLevel))
	}
	return n, nil
}

type SkillManager = crud.Manager[content.Skill, SkillForm]

func NewSkillManager(s store.Store, n crud.Notifier) *SkillManager {
	return crud.NewManager[content.Skill, SkillForm](s, SkillKind{}, n)
}
