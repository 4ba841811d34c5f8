package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Model {
	m := NewOrigin("m1", LibraryPersonal, Content{
		Name:         "Battery Pack",
		Type:         "Modelica",
		Description:  "Thermal model of the main battery",
		Version:      "1.2.0",
		Tags:         []string{"Power", "thermal"},
		RFLPCategory: "physical",
		Dependencies: Dependencies{Upstream: []string{"cell"}},
		UploadTime:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	m.Applications = []ProjectApplication{{ID: "a1", ProjectName: "apollo", UseCount: 4}}
	return m
}

func TestParseLibraryType(t *testing.T) {
	got, err := ParseLibraryType(" Project ")
	require.NoError(t, err)
	assert.Equal(t, LibraryProject, got)

	_, err = ParseLibraryType("shared")
	assert.ErrorIs(t, err, ErrInvalidLibrary)
}

func TestFilter_Match(t *testing.T) {
	m := sample()

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "empty", filter: Filter{}, want: true},
		{name: "search name", filter: Filter{Search: "battery"}, want: true},
		{name: "search description", filter: Filter{Search: "MAIN"}, want: true},
		{name: "search tag", filter: Filter{Search: "therm"}, want: true},
		{name: "search miss", filter: Filter{Search: "rotor"}, want: false},
		{name: "type", filter: Filter{Types: []string{"sysml", "modelica"}}, want: true},
		{name: "type miss", filter: Filter{Types: []string{"sysml"}}, want: false},
		{name: "any tag", filter: Filter{Tags: []string{"power", "avionics"}}, want: true},
		{name: "tag miss", filter: Filter{Tags: []string{"avionics"}}, want: false},
		{name: "rflp", filter: Filter{RFLPCategory: "Physical"}, want: true},
		{name: "rflp all", filter: Filter{RFLPCategory: "all"}, want: true},
		{name: "rflp miss", filter: Filter{RFLPCategory: "logical"}, want: false},
		{name: "combined", filter: Filter{Search: "pack", Types: []string{"modelica"}, Tags: []string{"thermal"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(m))
		})
	}
}

func TestNewMirror(t *testing.T) {
	origin := sample()
	origin.Status = StatusUnderReview

	mirror := NewMirror(origin, LibraryProject, "mirror-m1")
	assert.True(t, mirror.IsMirror())
	assert.Equal(t, "m1", mirror.OriginID())
	assert.Equal(t, StatusUnderReview, mirror.Status)
	assert.Equal(t, origin.Content, mirror.Content)
	assert.False(t, origin.IsMirror())

	// copies do not share backing arrays
	mirror.Tags[0] = "changed"
	mirror.Applications[0].UseCount = 99
	assert.Equal(t, "Power", origin.Tags[0])
	assert.Equal(t, 4, origin.Applications[0].UseCount)
}

func TestRecordRoundTrip(t *testing.T) {
	origin := sample()
	mirror := NewMirror(origin, LibraryPublic, origin.ID)

	for _, m := range []*Model{origin, mirror} {
		got := m.ToRecord().ToModel()
		assert.Equal(t, m, got)
	}

	// empty collections come back as nil
	bare := NewOrigin("m2", LibraryPersonal, Content{Name: "bare", Tags: []string{}})
	got := bare.ToRecord().ToModel()
	assert.Nil(t, got.Tags)
	assert.Nil(t, got.Applications)
}

func TestStatus_Promoted(t *testing.T) {
	assert.False(t, StatusDraft.Promoted())
	assert.True(t, StatusUnderReview.Promoted())
	assert.True(t, StatusPublished.Promoted())
}
