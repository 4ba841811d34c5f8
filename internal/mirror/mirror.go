// Package mirror derives the public and project mirror sets from the personal
// library.
//
// The functions in this file are pure: they never touch a store and return
// the same result for the same input. Synchronizer applies them to a store.
package mirror

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/modelhub/internal/model"
)

const mirrorIDPrefix = "mirror-"

// ProjectMirrorID is the deterministic id of the project mirror of an origin.
func ProjectMirrorID(originID string) string {
	return mirrorIDPrefix + originID
}

// IsReservedID reports whether id collides with the project mirror id space.
func IsReservedID(id string) bool {
	return len(id) > len(mirrorIDPrefix) && id[:len(mirrorIDPrefix)] == mirrorIDPrefix
}

// Snapshot is the content of the three partitions at one point in time.
type Snapshot struct {
	Personal []*model.Model
	Public   []*model.Model
	Project  []*model.Model
}

// SyncPublic derives one public mirror per public personal origin. The mirror
// shares the origin id and owns no field of its own.
func SyncPublic(personal []*model.Model) []*model.Model {
	mirrors := make([]*model.Model, 0)
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, origin := range personal {
		if origin.IsMirror() || !origin.IsPublic {
			continue
		}
		if !seen.Add(origin.ID) {
			continue
		}

		mirrors = append(mirrors, model.NewMirror(origin, model.LibraryPublic, origin.ID))
	}

	return mirrors
}

// SyncProject derives one project mirror per promoted personal origin. The
// project applications of an existing mirror survive unless the origin brings
// a non-empty list of its own. Mirrors of origins that are gone or no longer
// promoted are not carried over.
func SyncProject(personal []*model.Model, project []*model.Model) []*model.Model {
	previous := make(map[string]*model.Model)
	for _, m := range project {
		if m.IsMirror() {
			previous[m.ID] = m
		}
	}

	mirrors := make([]*model.Model, 0)
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, origin := range personal {
		if origin.IsMirror() || !origin.Status.Promoted() {
			continue
		}

		id := ProjectMirrorID(origin.ID)
		if !seen.Add(id) {
			continue
		}

		prev := previous[id]
		if prev != nil && prev.OriginID() != origin.ID {
			prev = nil
		}

		mirror := model.NewMirror(origin, model.LibraryProject, id)
		mirror.Applications = ownedApplications(origin, prev)
		mirrors = append(mirrors, mirror)
	}

	return mirrors
}

// Recompute derives the full snapshot. Origins of the public and project
// partitions are kept as they are, mirrors are rebuilt after them.
func Recompute(s Snapshot) Snapshot {
	public := origins(s.Public)
	public = append(public, SyncPublic(s.Personal)...)

	project := origins(s.Project)
	project = append(project, SyncProject(s.Personal, s.Project)...)

	return Snapshot{
		Personal: s.Personal,
		Public:   public,
		Project:  project,
	}
}

// project applications are the only mirror-owned field
func ownedApplications(origin, previous *model.Model) []model.ProjectApplication {
	if len(origin.Applications) > 0 {
		return model.CloneApplications(origin.Applications)
	}
	if previous != nil {
		return model.CloneApplications(previous.Applications)
	}

	return nil
}

func origins(models []*model.Model) []*model.Model {
	out := make([]*model.Model, 0, len(models))
	for _, m := range models {
		if !m.IsMirror() {
			out = append(out, m)
		}
	}

	return out
}
