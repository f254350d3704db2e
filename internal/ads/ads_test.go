package ads

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/adchat/internal/models"
)

func newTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker("https://app.example.com/api/click")
	require.NoError(t, err)
	return tr
}

func ids(ps []models.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestNewTracker(t *testing.T) {
	_, err := NewTracker(" ")
	assert.Error(t, err)

	tr, err := NewTracker("https://app.example.com")
	require.NoError(t, err)
	assert.Equal(t, DefaultMarker, tr.Marker())
	assert.Equal(t, "https://app.example.com/api/click?product_id=7", tr.URL(7, 0))
	assert.Equal(t, []int64{7}, tr.ProductIDs("see "+tr.URL(7, 0)))

	tr, err = NewTracker("https://app.example.com/?src=tg")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/api/click?src=tg&product_id=7&user_id=1", tr.URL(7, 1))
	assert.Equal(t, []int64{7}, tr.ProductIDs(tr.URL(7, 1)))

	tr, err = NewTracker("https://app.example.com/r/go/")
	require.NoError(t, err)
	assert.Equal(t, "/r/go", tr.Marker())
}

func TestTrackerURL(t *testing.T) {
	tr := newTracker(t)
	assert.Equal(t, "https://app.example.com/api/click?product_id=7", tr.URL(7, 0))
	assert.Equal(t, "https://app.example.com/api/click?product_id=7&user_id=99", tr.URL(7, 99))

	withQuery, err := NewTracker("https://app.example.com/api/click?src=tg")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/api/click?src=tg&product_id=3", withQuery.URL(3, 0))
}

func TestFilterForAssistant(t *testing.T) {
	catalog := []models.Product{
		{ID: 1, TargetAssistants: ""},
		{ID: 2, TargetAssistants: "medic, fitness"},
		{ID: 3, TargetAssistants: "pushkin"},
		{ID: 4, TargetAssistants: "   "},
		{ID: 5, TargetAssistants: "Medic"},
	}

	assert.ElementsMatch(t, []int64{1, 2, 4, 5}, ids(FilterForAssistant(catalog, "medic")))
	assert.ElementsMatch(t, []int64{1, 2, 4}, ids(FilterForAssistant(catalog, "fitness")))
	assert.ElementsMatch(t, []int64{1, 3, 4}, ids(FilterForAssistant(catalog, "pushkin")))
	assert.ElementsMatch(t, []int64{1, 4}, ids(FilterForAssistant(catalog, "unknown")))
	assert.Empty(t, FilterForAssistant(nil, "medic"))
}

func TestTargetsAssistantIsExactMembership(t *testing.T) {
	assert.False(t, TargetsAssistant("medic", "med"))
	assert.False(t, TargetsAssistant("medic,fitness", "medic,fitness"))
	assert.True(t, TargetsAssistant(" medic ,fitness", "fitness"))
	assert.False(t, TargetsAssistant("medic", ""))
	assert.True(t, TargetsAssistant("", ""))
}

func TestDeduplicate(t *testing.T) {
	catalog := []models.Product{{ID: 1}, {ID: 2}}

	t.Run("empty history keeps everything", func(t *testing.T) {
		assert.Equal(t, catalog, Deduplicate(catalog, nil, DefaultMarker))
	})

	t.Run("link in assistant text suppresses all", func(t *testing.T) {
		recent := []models.Message{
			{Role: models.RoleUserTurn, Content: "hi"},
			{Role: models.RoleAssistantTurn, Content: "try [this](https://x/api/click?product_id=42)"},
			{Role: models.RoleUserTurn, Content: "thanks"},
		}
		assert.Empty(t, Deduplicate(catalog, recent, DefaultMarker))
	})

	t.Run("structured marker suppresses all", func(t *testing.T) {
		m := models.Message{Role: models.RoleAssistantTurn, Content: "plain text"}
		require.NoError(t, m.SetAdMarkers([]models.AdMarker{{ProductID: 2}}))
		assert.Empty(t, Deduplicate(catalog, []models.Message{m}, DefaultMarker))
	})

	t.Run("user turns are ignored", func(t *testing.T) {
		recent := []models.Message{{Role: models.RoleUserTurn, Content: "what is /api/click?product_id=1"}}
		assert.Equal(t, catalog, Deduplicate(catalog, recent, DefaultMarker))
	})

	t.Run("custom marker", func(t *testing.T) {
		recent := []models.Message{{Role: models.RoleAssistantTurn, Content: "see https://x/r/go?product_id=1"}}
		assert.Empty(t, Deduplicate(catalog, recent, "/r/go"))
		assert.Equal(t, catalog, Deduplicate(catalog, recent, DefaultMarker))
	})
}

func TestCompose(t *testing.T) {
	tr := newTracker(t)

	assert.Equal(t, "", tr.Compose(nil, 99))

	out := tr.Compose([]models.Product{
		{ID: 7, Name: "Ortho Pillow", Keywords: pq.StringArray{"back", " neck ", ""}, AdText: "Supports the neck"},
		{ID: 8, Name: "Vitamin D"},
	}, 99)

	assert.Contains(t, out, "Ortho Pillow")
	assert.Contains(t, out, "Topics: back, neck\n")
	assert.Contains(t, out, "About: Supports the neck")
	assert.Contains(t, out, "https://app.example.com/api/click?product_id=7&user_id=99")
	assert.Contains(t, out, "https://app.example.com/api/click?product_id=8&user_id=99")
	assert.Contains(t, out, "Never invent")

	anon := tr.Compose([]models.Product{{ID: 8, Name: "Vitamin D"}}, 0)
	assert.Contains(t, anon, "URL: https://app.example.com/api/click?product_id=8\n")
}

func TestProductIDs(t *testing.T) {
	tr := newTracker(t)

	tests := []struct {
		name string
		text string
		want []int64
	}{
		{"none", "no links here", nil},
		{"single", "Try https://app.example.com/api/click?product_id=7 today", []int64{7}},
		{"duplicate counted once", "[a](https://app.example.com/api/click?product_id=7) and again https://app.example.com/api/click?product_id=7&user_id=1", []int64{7}},
		{"several in order", "/api/click?product_id=9 then /api/click?product_id=3&user_id=5", []int64{9, 3}},
		{"param after user id", "/api/click?user_id=5&product_id=11", []int64{11}},
		{"html escaped amp", "/api/click?user_id=5&amp;product_id=12", []int64{12}},
		{"other path ignored", "https://shop.example.com/item?product_id=4", nil},
		{"zero ignored", "/api/click?product_id=0", nil},
		{"overflow ignored", "/api/click?product_id=99999999999999999999", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.ProductIDs(tt.text))
		})
	}
}
