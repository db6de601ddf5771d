// Package site assembles the public portfolio views. Every fetch fails
// independently and falls back to placeholder content.
package site

import (
	"context"
	"html/template"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Placeholder content shown when settings are missing or unreadable.
const (
	FallbackBrand       = "Portfolio"
	FallbackName        = "Developer"
	FallbackTitle       = "A passionate developer"
	FallbackBio         = "Building amazing web experiences"
	FallbackMetaTitle   = "Portfolio"
	FallbackDescription = "Personal portfolio website"
)

// SiteMeta is rendered into the document head.
type SiteMeta struct {
	Title         string
	Description   string
	Keywords      []string
	OGImage       string
	TwitterHandle string
	CustomDomain  string
}

// Layout is shared by every public page.
type Layout struct {
	Meta        SiteMeta
	Brand       string
	SocialLinks []content.SocialLink
}

type Hero struct {
	Name         string
	Title        string
	Bio          string
	ProfileImage string
}

type HomeView struct {
	Layout
	Hero      Hero
	Featured  []content.Project
	TopSkills []content.Skill
}

type ProjectsView struct {
	Layout
	Projects []content.Project
}

type AboutView struct {
	Layout
	AboutMe        template.HTML
	Email          string
	Location       string
	SkillGroups    []SkillGroup
	Education      []content.Education
	Certifications []content.Certification
}

// Renderer builds the public views.
type Renderer struct {
	Store    store.Store
	Settings SettingsSource
}

func NewRenderer(s store.Store, settings SettingsSource) *Renderer {
	if settings == nil {
		settings = StoreSettings{Store: s}
	}
	return &Renderer{Store: s, Settings: settings}
}

// LayoutFor derives the shared layout from settings, with fallbacks.
func LayoutFor(s content.Settings) Layout {
	return Layout{
		Meta: SiteMeta{
			Title:         or(s.SiteTitle, FallbackMetaTitle),
			Description:   or(s.SiteDescription, FallbackDescription),
			Keywords:      s.Keywords,
			OGImage:       s.OGImage,
			TwitterHandle: s.TwitterHandle,
			CustomDomain:  s.CustomDomain,
		},
		Brand:       or(s.FullName, FallbackBrand),
		SocialLinks: s.SocialLinks,
	}
}

func (r *Renderer) Layout(ctx context.Context) Layout {
	return LayoutFor(r.settings(ctx))
}

func (r *Renderer) Home(ctx context.Context) HomeView {
	var (
		s        content.Settings
		projects []content.Project
		skills   []content.Skill
		g        errgroup.Group
	)
	g.Go(func() error { s = r.settings(ctx); return nil })
	g.Go(func() error { projects = r.projects(ctx); return nil })
	g.Go(func() error { skills = r.skills(ctx); return nil })
	_ = g.Wait()

	return HomeView{
		Layout: LayoutFor(s),
		Hero: Hero{
			Name:         or(s.FullName, FallbackName),
			Title:        or(s.Title, FallbackTitle),
			Bio:          or(s.Bio, FallbackBio),
			ProfileImage: s.ProfileImage,
		},
		Featured:  Featured(projects),
		TopSkills: TopSkills(skills),
	}
}

func (r *Renderer) Projects(ctx context.Context) ProjectsView {
	var (
		s        content.Settings
		projects []content.Project
		g        errgroup.Group
	)
	g.Go(func() error { s = r.settings(ctx); return nil })
	g.Go(func() error { projects = r.projects(ctx); return nil })
	_ = g.Wait()
	return ProjectsView{Layout: LayoutFor(s), Projects: projects}
}

func (r *Renderer) About(ctx context.Context) AboutView {
	var (
		s      content.Settings
		skills []content.Skill
		g      errgroup.Group
	)
	g.Go(func() error { s = r.settings(ctx); return nil })
	g.Go(func() error { skills = r.skills(ctx); return nil })
	_ = g.Wait()
	return AboutView{
		Layout:         LayoutFor(s),
		AboutMe:        RenderMarkdown(s.AboutMe),
		Email:          s.Email,
		Location:       s.Location,
		SkillGroups:    GroupByCategory(skills),
		Education:      s.Education,
		Certifications: s.Certifications,
	}
}

func (r *Renderer) settings(ctx context.Context) content.Settings {
	s, err := r.Settings.Settings(ctx)
	if err != nil {
		logger.Errorf("site: fetch settings: %v", err)
		return content.DefaultSettings()
	}
	return s
}

func (r *Renderer) projects(ctx context.Context) []content.Project {
	docs, err := r.Store.List(ctx, content.ProjectsCollection, store.Query{})
	if err != nil {
		logger.Errorf("site: fetch projects: %v", err)
		return []content.Project{}
	}
	out := make([]content.Project, 0, len(docs))
	for _, d := range docs {
		p, err := content.DecodeProject(d)
		if err != nil {
			logger.Warnf("site: %v", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *Renderer) skills(ctx context.Context) []content.Skill {
	docs, err := r.Store.List(ctx, content.SkillsCollection, store.Query{})
	if err != nil {
		logger.Errorf("site: fetch skills: %v", err)
		return []content.Skill{}
	}
	out := make([]content.Skill, 0, len(docs))
	for _, d := range docs {
		s, err := content.DecodeSkill(d)
		if err != nil {
			logger.Warnf("site: %v", err)
			continue
		}
		out = append(out, s)
	}
	return out
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
