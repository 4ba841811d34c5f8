package mirror

import (
	"testing"

	"github.com/emrgen/modelhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func origin(id string, public bool, status model.Status) *model.Model {
	m := model.NewOrigin(id, model.LibraryPersonal, model.Content{
		Name:    "model " + id,
		Type:    "SysML",
		Version: "1.0.0",
		Tags:    []string{"avionics"},
	})
	m.IsPublic = public
	m.Status = status
	return m
}

func apps(names ...string) []model.ProjectApplication {
	var out []model.ProjectApplication
	for i, name := range names {
		out = append(out, model.ProjectApplication{
			ID:          name + "-app",
			ProjectName: name,
			Status:      "active",
			UseCount:    i + 1,
		})
	}
	return out
}

func TestSyncPublic_MirrorsOnlyPublicOrigins(t *testing.T) {
	personal := []*model.Model{
		origin("p1", true, model.StatusDraft),
		origin("p2", false, model.StatusDraft),
		origin("p3", true, model.StatusPublished),
	}

	mirrors := SyncPublic(personal)
	require.Len(t, mirrors, 2)

	for i, want := range []*model.Model{personal[0], personal[2]} {
		got := mirrors[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, model.LibraryPublic, got.Library)
		assert.True(t, got.IsMirror())
		assert.Equal(t, want.ID, got.OriginID())
		assert.Equal(t, want.Content, got.Content)
		assert.Equal(t, want.Status, got.Status)
	}
}

func TestSyncPublic_VisibilityInvariant(t *testing.T) {
	personal := []*model.Model{
		origin("a", true, model.StatusDraft),
		origin("b", false, model.StatusUnderReview),
		origin("c", true, model.StatusPublished),
		origin("d", false, model.StatusDraft),
	}

	ids := map[string]bool{}
	for _, m := range SyncPublic(personal) {
		ids[m.ID] = true
	}

	for _, m := range personal {
		assert.Equal(t, m.IsPublic, ids[m.ID], "model %s", m.ID)
	}
}

func TestSyncPublic_CopiesDoNotAliasOrigin(t *testing.T) {
	p := origin("p1", true, model.StatusDraft)
	mirrors := SyncPublic([]*model.Model{p})
	require.Len(t, mirrors, 1)

	p.Tags[0] = "changed"
	assert.Equal(t, []string{"avionics"}, mirrors[0].Tags)
}

func TestSyncProject_PromotedOriginsOnly(t *testing.T) {
	personal := []*model.Model{
		origin("draft", false, model.StatusDraft),
		origin("review", false, model.StatusUnderReview),
		origin("done", true, model.StatusPublished),
	}

	mirrors := SyncProject(personal, nil)
	require.Len(t, mirrors, 2)

	assert.Equal(t, "mirror-review", mirrors[0].ID)
	assert.Equal(t, "review", mirrors[0].OriginID())
	assert.Equal(t, model.StatusUnderReview, mirrors[0].Status)
	assert.Equal(t, model.LibraryProject, mirrors[0].Library)

	assert.Equal(t, "mirror-done", mirrors[1].ID)
	assert.Equal(t, model.StatusPublished, mirrors[1].Status)
	assert.False(t, mirrors[1].IsPublic)
}

func TestSyncProject_MergePreservesMirrorApplications(t *testing.T) {
	p := origin("p2", false, model.StatusUnderReview)

	first := SyncProject([]*model.Model{p}, nil)
	require.Len(t, first, 1)
	first[0].Applications = apps("Orion", "Artemis")

	p.Name = "renamed"
	second := SyncProject([]*model.Model{p}, first)
	require.Len(t, second, 1)

	assert.Equal(t, "renamed", second[0].Name)
	assert.Equal(t, apps("Orion", "Artemis"), second[0].Applications)
}

func TestSyncProject_OriginApplicationsReplaceMirrorList(t *testing.T) {
	p := origin("p2", false, model.StatusUnderReview)
	prev := SyncProject([]*model.Model{p}, nil)
	prev[0].Applications = apps("Orion")

	p.Applications = apps("Gateway")
	next := SyncProject([]*model.Model{p}, prev)
	require.Len(t, next, 1)
	assert.Equal(t, apps("Gateway"), next[0].Applications)
}

func TestSyncProject_CascadeDropsOrphans(t *testing.T) {
	p1 := origin("p1", false, model.StatusUnderReview)
	p2 := origin("p2", false, model.StatusUnderReview)

	mirrors := SyncProject([]*model.Model{p1, p2}, nil)
	require.Len(t, mirrors, 2)

	// p2 deleted
	mirrors = SyncProject([]*model.Model{p1}, mirrors)
	require.Len(t, mirrors, 1)
	assert.Equal(t, "mirror-p1", mirrors[0].ID)

	// p1 back to draft
	p1.Status = model.StatusDraft
	assert.Empty(t, SyncProject([]*model.Model{p1}, mirrors))
}

func TestRecompute_Idempotent(t *testing.T) {
	projectOrigin := model.NewOrigin("proj-1", model.LibraryProject, model.Content{Name: "Launch vehicle"})
	projectOrigin.Applications = apps("Orion")

	snapshot := Snapshot{
		Personal: []*model.Model{
			origin("a", true, model.StatusDraft),
			origin("b", true, model.StatusUnderReview),
			origin("c", false, model.StatusPublished),
		},
		Project: []*model.Model{projectOrigin},
	}

	once := Recompute(snapshot)
	twice := Recompute(once)

	assert.Equal(t, once, twice)
	assert.Len(t, twice.Public, 2)
	assert.Len(t, twice.Project, 3)
}

func TestRecompute_NoDuplicateMirrors(t *testing.T) {
	snapshot := Snapshot{
		Personal: []*model.Model{
			origin("a", true, model.StatusUnderReview),
			origin("b", true, model.StatusPublished),
		},
	}

	for i := 0; i < 3; i++ {
		snapshot = Recompute(snapshot)
	}

	for _, partition := range [][]*model.Model{snapshot.Public, snapshot.Project} {
		seen := map[string]bool{}
		for _, m := range partition {
			key := string(m.Library) + "/" + m.OriginID()
			assert.False(t, seen[key], "duplicate mirror %s", key)
			seen[key] = true
		}
	}
}

func TestRecompute_ProjectOriginsUntouched(t *testing.T) {
	projectOrigin := model.NewOrigin("proj-1", model.LibraryProject, model.Content{Name: "Launch vehicle"})
	projectOrigin.Applications = apps("Orion")
	want := projectOrigin.Clone()

	snapshot := Snapshot{
		Personal: []*model.Model{origin("a", false, model.StatusDraft)},
		Project:  []*model.Model{projectOrigin},
	}

	for _, status := range []model.Status{model.StatusUnderReview, model.StatusPublished, model.StatusDraft} {
		snapshot.Personal[0].Status = status
		snapshot = Recompute(snapshot)
		require.NotEmpty(t, snapshot.Project)
		assert.Equal(t, want, snapshot.Project[0])
	}
}

func TestIsReservedID(t *testing.T) {
	assert.True(t, IsReservedID("mirror-abc"))
	assert.False(t, IsReservedID("mirror-"))
	assert.False(t, IsReservedID("abc"))
}
