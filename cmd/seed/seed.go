package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/crud"
	"github.com/devfolio/devfolio/internal/portfolio"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/logger"
	"github.com/spf13/viper"
)

// File is the layout of a seed file.
type File struct {
	Projects []SeedProject `mapstructure:"projects"`
	Skills   []SeedSkill   `mapstructure:"skills"`
	Settings *SeedSettings `mapstructure:"settings"`
}

type SeedProject struct {
	Title        string   `mapstructure:"title"`
	Description  string   `mapstructure:"description"`
	Technologies []string `mapstructure:"technologies"`
	ImageURL     string   `mapstructure:"imageUrl"`
	LiveURL      string   `mapstructure:"liveUrl"`
	GithubURL    string   `mapstructure:"githubUrl"`
}

type SeedSkill struct {
	Name     string `mapstructure:"name"`
	Category string `mapstructure:"category"`
	Level    int    `mapstructure:"level"`
}

type SeedSettings struct {
	portfolio.SettingsForm `mapstructure:",squash"`
	SocialLinks            []content.SocialLink    `mapstructure:"socialLinks"`
	Education              []content.Education     `mapstructure:"education"`
	Certifications         []content.Certification `mapstructure:"certifications"`
}

// LoadFile reads a YAML, JSON or TOML seed file.
func LoadFile(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// Result counts what Apply wrote.
type Result struct {
	Projects int
	Skills   int
	Settings bool
}

// Apply writes f through the same managers the admin console uses, so seeded
// content passes the same validation. Projects and skills whose title or
// name already exists are skipped.
func Apply(ctx context.Context, s store.Store, f *File) (Result, error) {
	var res Result
	notify := crud.LogNotifier{}

	pm := portfolio.NewProjectManager(s, notify)
	if err := pm.Load(ctx); err != nil {
		return res, err
	}
	for _, p := range f.Projects {
		if hasProject(pm.Items, p.Title) {
			logger.Infof("seed: project %q exists, skipping", p.Title)
			continue
		}
		form := portfolio.ProjectForm{
			Title:        p.Title,
			Description:  p.Description,
			Technologies: strings.Join(p.Technologies, ", "),
			ImageURL:     p.ImageURL,
			LiveURL:      p.LiveURL,
			GithubURL:    p.GithubURL,
		}
		if err := pm.Submit(ctx, form); err != nil {
			return res, fmt.Errorf("project %q: %w", p.Title, err)
		}
		res.Projects++
	}

	sm := portfolio.NewSkillManager(s, notify)
	if err := sm.Load(ctx); err != nil {
		return res, err
	}
	for _, sk := range f.Skills {
		if hasSkill(sm.Items, sk.Name) {
			logger.Infof("seed: skill %q exists, skipping", sk.Name)
			continue
		}
		form := portfolio.SkillForm{Name: sk.Name, Category: sk.Category}
		if sk.Level != 0 {
			form.Level = strconv.Itoa(sk.Level)
		}
		if err := sm.Submit(ctx, form); err != nil {
			return res, fmt.Errorf("skill %q: %w", sk.Name, err)
		}
		res.Skills++
	}

	if f.Settings != nil {
		e := portfolio.NewSettingsEditor(s, notify)
		if err := e.Load(ctx); err != nil {
			return res, err
		}
		e.Apply(f.Settings.SettingsForm)
		e.ReplaceLists(f.Settings.SocialLinks, f.Settings.Education, f.Settings.Certifications)
		if err := e.Save(ctx); err != nil {
			return res, fmt.Errorf("settings: %w", err)
		}
		res.Settings = true
	}
	return res, nil
}

func hasProject(items []content.Project, title string) bool {
	for _, p := range items {
		if strings.EqualFold(p.Title, title) {
			return true
		}
	}
	return false
}

func hasSkill(items []content.Skill, name string) bool {
	for _, s := range items {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}
