// Package project groups library models by the projects that use them.
package project

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/modelhub/internal/model"
)

// Unassigned is the bucket of models without any project application.
const Unassigned = "unassigned"

// Stats summarizes one project bucket. Status, Team, LastUsedDate and
// Description are taken from the first usage record found in the bucket.
type Stats struct {
	ModelCount    int    `json:"modelCount"`
	TotalUseCount int    `json:"totalUseCount"`
	Status        string `json:"status"`
	Team          string `json:"team"`
	LastUsedDate  string `json:"lastUsedDate"`
	Description   string `json:"description"`
}

type Summary struct {
	Name   string         `json:"name"`
	Stats  Stats          `json:"stats"`
	Models []*model.Model `json:"-"`
}

// GroupByProject places each model in the bucket of every distinct project its
// usage records name, or in Unassigned when it has none. Model order is kept.
func GroupByProject(models []*model.Model) map[string][]*model.Model {
	groups := make(map[string][]*model.Model)
	for _, m := range models {
		if len(m.Applications) == 0 {
			groups[Unassigned] = append(groups[Unassigned], m)
			continue
		}

		seen := mapset.NewThreadUnsafeSet[string]()
		for _, app := range m.Applications {
			if seen.Add(app.ProjectName) {
				groups[app.ProjectName] = append(groups[app.ProjectName], m)
			}
		}
	}

	return groups
}

// StatsFor aggregates the bucket of projectName.
func StatsFor(models []*model.Model, projectName string) Stats {
	return statsOf(GroupByProject(models)[projectName], projectName)
}

// Summaries returns every bucket with its stats, sorted by project name with
// Unassigned last.
func Summaries(models []*model.Model) []Summary {
	groups := GroupByProject(models)

	names := make([]string, 0, len(groups))
	for name := range groups {
		if name != Unassigned {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := groups[Unassigned]; ok {
		names = append(names, Unassigned)
	}

	summaries := make([]Summary, 0, len(names))
	for _, name := range names {
		summaries = append(summaries, Summary{
			Name:   name,
			Stats:  statsOf(groups[name], name),
			Models: groups[name],
		})
	}

	return summaries
}

func statsOf(bucket []*model.Model, projectName string) Stats {
	stats := Stats{ModelCount: len(bucket)}

	first := true
	for _, m := range bucket {
		app, ok := findApplication(m, projectName)
		if !ok {
			continue
		}

		stats.TotalUseCount += app.UseCount
		if first {
			stats.Status = app.Status
			stats.Team = app.Team
			stats.LastUsedDate = app.LastUsedDate
			stats.Description = app.Description
			first = false
		}
	}

	return stats
}

func findApplication(m *model.Model, projectName string) (model.ProjectApplication, bool) {
	for _, app := range m.Applications {
		if app.ProjectName == projectName {
			return app, true
		}
	}

	return model.ProjectApplication{}, false
}
