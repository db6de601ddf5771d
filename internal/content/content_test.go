package content

import (
	"testing"
	"time"

	"github.com/devfolio/devfolio/internal/store"
	"github.com/stretchr/testify/require"
)

func TestDecodeProjectToleratesDriverTypes(t *testing.T) {
	p, err := DecodeProject(store.Document{ID: "p1", Fields: store.Fields{
		"title":        "Site",
		"description":  "d",
		"technologies": []any{"Go", "HTMX"},
	}})
	require.NoError(t, err)
	require.Equal(t, "p1", p.ID)
	require.Equal(t, []string{"Go", "HTMX"}, p.Technologies)

	p, err = DecodeProject(store.Document{ID: "p2", Fields: store.Fields{"title": "x"}})
	require.NoError(t, err)
	require.NotNil(t, p.Technologies)
}

func TestDecodeSkillNumericLevels(t *testing.T) {
	for _, lvl := range []any{int32(7), int64(7), float64(7), "7"} {
		s, err := DecodeSkill(store.Document{ID: "s", Fields: store.Fields{"name": "Go", "category": "Lang", "level": lvl}})
		require.NoError(t, err)
		require.Equal(t, 7, s.Level)
	}
}

func TestDecodeMessageTimeField(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m, err := DecodeMessage(store.Document{ID: "m", Fields: store.Fields{"name": "A", "createdAt": ts, "read": false}})
	require.NoError(t, err)
	require.Equal(t, "2024-05-01T12:00:00.000Z", m.CreatedAt)
	require.True(t, m.Created().Equal(ts))
}

func TestSettingsRoundTripAndLegacyIDs(t *testing.T) {
	s := DefaultSettings()
	s.FullName = "Ada"
	s.Keywords = []string{"go"}
	s.Education = []Education{{ID: "e1", Degree: "BSc", Institution: "Uni", Year: "2010"}}

	back, err := DecodeSettings(store.Document{ID: SettingsID, Fields: s.Fields()})
	require.NoError(t, err)
	require.Equal(t, s, back)

	legacy, err := DecodeSettings(store.Document{ID: SettingsID, Fields: store.Fields{
		"socialLinks": []any{map[string]any{"platform": "GitHub", "url": "https://github.com/ada"}},
	}})
	require.NoError(t, err)
	require.Len(t, legacy.SocialLinks, 1)
	require.NotEmpty(t, legacy.SocialLinks[0].ID)
	require.NotNil(t, legacy.Certifications)
}

func TestLegacyIDsStableOnceWrittenBack(t *testing.T) {
	doc := store.Document{ID: SettingsID, Fields: store.Fields{
		"socialLinks": []any{map[string]any{"platform": "GitHub", "url": "https://github.com/ada"}},
		"education":   []any{map[string]any{"id": "e1", "degree": "BSc", "institution": "Uni", "year": "2010"}},
	}}

	first, assigned, err := DecodeSettingsAssigningIDs(doc)
	require.NoError(t, err)
	require.True(t, assigned)
	require.Equal(t, "e1", first.Education[0].ID)

	again, assigned, err := DecodeSettingsAssigningIDs(store.Document{ID: SettingsID, Fields: first.Fields()})
	require.NoError(t, err)
	require.False(t, assigned)
	require.Equal(t, first.SocialLinks, again.SocialLinks)
	require.Equal(t, first.Education, again.Education)
}

func TestNewEntryIDUnique(t *testing.T) {
	require.NotEqual(t, NewEntryID(), NewEntryID())
}
