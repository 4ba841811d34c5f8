package project

import (
	"testing"

	"github.com/emrgen/modelhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withApps(id string, apps ...model.ProjectApplication) *model.Model {
	m := model.NewOrigin(id, model.LibraryProject, model.Content{Name: id})
	m.Applications = apps
	return m
}

func app(project string, useCount int, team string) model.ProjectApplication {
	return model.ProjectApplication{
		ID:           project + "-" + team,
		ProjectName:  project,
		Status:       "active",
		UseCount:     useCount,
		LastUsedDate: "2024-03-01",
		Team:         team,
		Description:  project + " usage",
	}
}

func TestGroupByProject(t *testing.T) {
	a := withApps("a", app("apollo", 3, "gnc"), app("gemini", 1, "gnc"), app("apollo", 2, "thermal"))
	b := withApps("b", app("apollo", 5, "power"))
	c := withApps("c")

	groups := GroupByProject([]*model.Model{a, b, c})

	assert.Equal(t, []*model.Model{a, b}, groups["apollo"])
	assert.Equal(t, []*model.Model{a}, groups["gemini"])
	assert.Equal(t, []*model.Model{c}, groups[Unassigned])
	assert.Len(t, groups, 3)
}

func TestStatsFor(t *testing.T) {
	models := []*model.Model{
		withApps("a", app("apollo", 3, "gnc"), app("gemini", 1, "avionics")),
		withApps("b", app("apollo", 5, "power")),
		withApps("c"),
	}

	stats := StatsFor(models, "apollo")
	assert.Equal(t, Stats{
		ModelCount:    2,
		TotalUseCount: 8,
		Status:        "active",
		Team:          "gnc",
		LastUsedDate:  "2024-03-01",
		Description:   "apollo usage",
	}, stats)

	assert.Equal(t, Stats{ModelCount: 1}, StatsFor(models, Unassigned))
	assert.Equal(t, Stats{}, StatsFor(models, "mercury"))
}

func TestSummaries(t *testing.T) {
	models := []*model.Model{
		withApps("x"),
		withApps("a", app("zeus", 1, "t")),
		withApps("b", app("apollo", 2, "t")),
	}

	summaries := Summaries(models)
	require.Len(t, summaries, 3)
	assert.Equal(t, "apollo", summaries[0].Name)
	assert.Equal(t, "zeus", summaries[1].Name)
	assert.Equal(t, Unassigned, summaries[2].Name)
	assert.Equal(t, 2, summaries[0].Stats.TotalUseCount)
}
