package site

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/devfolio/devfolio/internal/cache"
	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// partialOutage fails every read of the named collections.
type partialOutage struct {
	store.Store
	down map[string]bool
}

func (p partialOutage) Get(ctx context.Context, c, id string) (*store.Document, error) {
	if p.down[c] {
		return nil, store.ErrUnavailable
	}
	return p.Store.Get(ctx, c, id)
}

func (p partialOutage) List(ctx context.Context, c string, q store.Query) ([]store.Document, error) {
	if p.down[c] {
		return nil, store.ErrUnavailable
	}
	return p.Store.List(ctx, c, q)
}

func TestGroupByCategoryFirstSeenOrder(t *testing.T) {
	skills := []content.Skill{
		{Name: "Go", Category: "Lang", Level: 8},
		{Name: "Docker", Category: "Tools", Level: 6},
		{Name: "Rust", Category: "Lang", Level: 7},
	}
	assert.Equal(t, []string{"Lang", "Tools"}, Categories(skills))
	groups := GroupByCategory(skills)
	require.Len(t, groups, 2)
	assert.Equal(t, "Lang", groups[0].Category)
	assert.Equal(t, []string{"Go", "Rust"}, []string{groups[0].Skills[0].Name, groups[0].Skills[1].Name})
	assert.Equal(t, "Docker", groups[1].Skills[0].Name)
}

func TestFeaturedIsPrefixOfThree(t *testing.T) {
	for n := 0; n <= 5; n++ {
		var ps []content.Project
		for i := 0; i < n; i++ {
			ps = append(ps, content.Project{ID: fmt.Sprint(i)})
		}
		got := Featured(ps)
		want := min(n, FeaturedCount)
		require.Len(t, got, want)
		for i := range got {
			assert.Equal(t, fmt.Sprint(i), got[i].ID)
		}
	}
}

func TestTopSkillsStableDescending(t *testing.T) {
	var skills []content.Skill
	for i, lvl := range []int{5, 9, 5, 7, 9, 3, 5, 8} {
		skills = append(skills, content.Skill{ID: fmt.Sprint(i), Level: lvl})
	}
	got := TopSkills(skills)
	require.Len(t, got, TopSkillsCount)
	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"1", "4", "7", "3", "0", "2"}, ids)
	assert.Equal(t, 5, skills[0].Level, "input must not be reordered")
}

func TestLevelBands(t *testing.T) {
	assert.Equal(t, "expert", LevelBand(8))
	assert.Equal(t, "advanced", LevelBand(7))
	assert.Equal(t, "intermediate", LevelBand(4))
	assert.Equal(t, "beginner", LevelBand(3))
	assert.Equal(t, 100, LevelPercent(14))
	assert.Equal(t, 10, LevelPercent(-2))
}

func TestRenderMarkdownSanitises(t *testing.T) {
	out := string(RenderMarkdown("# Hi\n\n**bold**\n\n<script>alert(1)</script>"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Empty(t, string(RenderMarkdown("")))
}

func TestHomeFallbacksWithoutSettings(t *testing.T) {
	r := NewRenderer(store.NewMemoryStore(), nil)
	v := r.Home(context.Background())
	assert.Equal(t, FallbackBrand, v.Brand)
	assert.Equal(t, FallbackName, v.Hero.Name)
	assert.Equal(t, FallbackTitle, v.Hero.Title)
	assert.Equal(t, FallbackBio, v.Hero.Bio)
	assert.Equal(t, FallbackMetaTitle, v.Meta.Title)
	assert.Equal(t, FallbackDescription, v.Meta.Description)
	assert.Empty(t, v.Featured)
}

func TestHomeSectionsFailIndependently(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.SetWithMerge(ctx, content.SettingsCollection, content.SettingsID, store.Fields{"fullName": "Ada"}))
	_, err := mem.Create(ctx, content.ProjectsCollection, store.Fields{"title": "P1"})
	require.NoError(t, err)
	_, err = mem.Create(ctx, content.SkillsCollection, store.Fields{"name": "Go", "category": "Lang", "level": 9})
	require.NoError(t, err)

	r := NewRenderer(partialOutage{Store: mem, down: map[string]bool{content.SkillsCollection: true}}, nil)
	v := r.Home(ctx)
	assert.Equal(t, "Ada", v.Hero.Name)
	require.Len(t, v.Featured, 1)
	assert.Empty(t, v.TopSkills)

	r = NewRenderer(partialOutage{Store: mem, down: map[string]bool{content.SettingsCollection: true}}, nil)
	v = r.Home(ctx)
	assert.Equal(t, FallbackName, v.Hero.Name)
	require.Len(t, v.TopSkills, 1)
}

func TestAboutView(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	s := content.DefaultSettings()
	s.AboutMe = "I like *Go*."
	s.Education = []content.Education{{ID: "e", Degree: "BSc", Institution: "Uni", Year: "2010"}}
	require.NoError(t, mem.SetWithMerge(ctx, content.SettingsCollection, content.SettingsID, s.Fields()))
	for _, sk := range []store.Fields{
		{"name": "Go", "category": "Lang", "level": 9},
		{"name": "Docker", "category": "Tools", "level": 6},
		{"name": "Rust", "category": "Lang", "level": 7},
	} {
		_, err := mem.Create(ctx, content.SkillsCollection, sk)
		require.NoError(t, err)
	}

	v := NewRenderer(mem, nil).About(ctx)
	assert.True(t, strings.Contains(string(v.AboutMe), "<em>Go</em>"))
	require.Len(t, v.SkillGroups, 2)
	assert.Len(t, v.SkillGroups[0].Skills, 2)
	assert.Len(t, v.Education, 1)
}

type countingSource struct {
	calls int
	s     content.Settings
	err   error
}

func (c *countingSource) Settings(context.Context) (content.Settings, error) {
	c.calls++
	return c.s, c.err
}

func TestCachedSettings(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{s: content.Settings{FullName: "Ada"}}
	c := &CachedSettings{Source: src, Cache: cache.NewMemoryCache(), TTL: time.Minute}

	for i := 0; i < 3; i++ {
		s, err := c.Settings(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ada", s.FullName)
	}
	assert.Equal(t, 1, src.calls)

	src.s.FullName = "Grace"
	c.Invalidate(ctx)
	s, err := c.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Grace", s.FullName)
	assert.Equal(t, 2, src.calls)

	src.err = errors.New("down")
	c.Invalidate(ctx)
	_, err = c.Settings(ctx)
	require.Error(t, err)
}

func TestCachedSettingsZeroTTLReadsThrough(t *testing.T) {
	src := &countingSource{}
	c := &CachedSettings{Source: src, Cache: cache.NewMemoryCache()}
	_, _ = c.Settings(context.Background())
	_, _ = c.Settings(context.Background())
	assert.Equal(t, 2, src.calls)
}
