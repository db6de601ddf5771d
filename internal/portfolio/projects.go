package portfolio

import (
	"strings"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/crud"
	"github.com/devfolio/devfolio/internal/store"
)

// ProjectForm is the editable shape of a project. Technologies is the
// comma-separated tag list as typed by the operator.
type ProjectForm struct {
	Title        string `json:"title" form:"title" validate:"required"`
	Description  string `json:"description" form:"description" validate:"required"`
	Technologies string `json:"technologies" form:"technologies"`
	ImageURL     string `json:"imageUrl" form:"imageUrl"`
	LiveURL      string `json:"liveUrl" form:"liveUrl" validate:"omitempty,url"`
	GithubURL    string `json:"githubUrl" form:"githubUrl" validate:"omitempty,url"`
}

type ProjectKind struct{}

func (ProjectKind) Collection() string { return content.ProjectsCollection }
func (ProjectKind) Query() store.Query { return store.Query{} }
func (ProjectKind) Labels() crud.Labels {
	return crud.Labels{Singular: "Project", Plural: "projects"}
}
func (ProjectKind) Decode(d store.Document) (content.Project, error) { return content.DecodeProject(d) }
func (ProjectKind) ID(p content.Project) string { return p.ID }
func (ProjectKind) Blank() ProjectForm { return ProjectForm{} }

func (ProjectKind) FormOf(p content.Project) ProjectForm {
	return ProjectForm{
		Title:        p.Title,
		Description:  p.Description,
		Technologies: strings.Join(p.Technologies, ", "),
		ImageURL:     p.ImageURL,
		LiveURL:      p.LiveURL,
		GithubURL:    p.GithubURL,
	}
}

func (ProjectKind) Fields(f ProjectForm) (store.Fields, error) {
	f = ProjectForm{
		Title:        trim(f.Title),
		Description:  trim(f.Description),
		Technologies: f.Technologies,
		ImageURL:     trim(f.ImageURL),
		LiveURL:      trim(f.LiveURL),
		GithubURL:    trim(f.GithubURL),
	}
	if err := check(f); err != nil {
		return nil, err
	}
	return content.Project{
		Title:        f.Title,
		Description:  f.Description,
		Technologies: splitList(f.Technologies),
		ImageURL:     f.ImageURL,
		LiveURL:      f.LiveURL,
		GithubURL:    f.GithubURL,
	}.Fields(), nil
}

type ProjectManager = crud.Manager[content.Project, ProjectForm]

func NewProjectManager(s store.Store, n crud.Notifier) *ProjectManager {
	return crud.NewManager[content.Project, ProjectForm](s, ProjectKind{}, n)
}
