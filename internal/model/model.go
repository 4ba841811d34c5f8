package model

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidLibrary = errors.New("invalid library type, expected personal, public or project")

// LibraryType selects the partition a model lives in.
type LibraryType string

const (
	LibraryPersonal LibraryType = "personal"
	LibraryPublic   LibraryType = "public"
	LibraryProject  LibraryType = "project"
)

func ParseLibraryType(s string) (LibraryType, error) {
	switch LibraryType(strings.ToLower(strings.TrimSpace(s))) {
	case LibraryPersonal:
		return LibraryPersonal, nil
	case LibraryPublic:
		return LibraryPublic, nil
	case LibraryProject:
		return LibraryProject, nil
	}

	return "", ErrInvalidLibrary
}

type Status string

const (
	StatusDraft       Status = "draft"
	StatusUnderReview Status = "under_review"
	StatusPublished   Status = "published"
)

// Promoted reports whether a model with this status owns a project mirror.
func (s Status) Promoted() bool {
	return s == StatusUnderReview || s == StatusPublished
}

type Dependencies struct {
	Upstream   []string `json:"upstream"`
	Downstream []string `json:"downstream"`
}

func (d Dependencies) clone() Dependencies {
	return Dependencies{
		Upstream:   cloneStrings(d.Upstream),
		Downstream: cloneStrings(d.Downstream),
	}
}

// ProjectApplication records how a project uses a model.
type ProjectApplication struct {
	ID           string `json:"id"`
	ProjectName  string `json:"projectName"`
	Status       string `json:"status"`
	UseCount     int    `json:"useCount"`
	LastUsedDate string `json:"lastUsedDate"`
	Team         string `json:"team"`
	Description  string `json:"description"`
}

// Content holds the origin-owned fields. Mirrors always carry a verbatim copy.
type Content struct {
	Name         string
	Type         string
	Description  string
	Version      string
	Project      string
	Tags         []string
	RFLPCategory string
	Dependencies Dependencies
	Uploader     string
	UploadTime   time.Time
	Rating       float64
	Downloads    int64
}

func (c Content) clone() Content {
	out := c
	out.Tags = cloneStrings(c.Tags)
	out.Dependencies = c.Dependencies.clone()
	return out
}

// Model is a unit of engineering content in one of the library partitions.
//
// A model is either an origin, created by a user, or a mirror derived from an
// origin by the synchronizer. Mirrors can only be built with NewMirror.
type Model struct {
	ID           string
	Library      LibraryType
	Status       Status
	IsPublic     bool
	Content
	Applications []ProjectApplication

	origin string
}

// NewOrigin creates a draft origin record.
func NewOrigin(id string, library LibraryType, content Content) *Model {
	return &Model{
		ID:      id,
		Library: library,
		Status:  StatusDraft,
		Content: content.clone(),
	}
}

// NewMirror derives a mirror of origin living in library under id.
// The content, status and project applications are copied from the origin.
func NewMirror(origin *Model, library LibraryType, id string) *Model {
	return &Model{
		ID:           id,
		Library:      library,
		Status:       origin.Status,
		Content:      origin.Content.clone(),
		Applications: CloneApplications(origin.Applications),
		origin:       origin.ID,
	}
}

func (m *Model) IsMirror() bool {
	return m.origin != ""
}

// OriginID returns the id of the mirrored origin, empty for origins.
func (m *Model) OriginID() string {
	return m.origin
}

func (m *Model) Clone() *Model {
	out := *m
	out.Content = m.Content.clone()
	out.Applications = CloneApplications(m.Applications)
	return &out
}

func CloneApplications(apps []ProjectApplication) []ProjectApplication {
	if len(apps) == 0 {
		return nil
	}

	return append([]ProjectApplication(nil), apps...)
}

// empty slices are normalized to nil so that repeated copies compare equal
func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}

	return append([]string(nil), s...)
}
