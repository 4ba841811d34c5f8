package model

import (
	"time"

	"gorm.io/datatypes"
)

// ModelRecord is the persisted row of a model. The library and id form the
// primary key since a public mirror shares the id of its personal origin.
type ModelRecord struct {
	ID           string                                   `gorm:"primaryKey;not null"`
	Library      string                                   `gorm:"primaryKey;not null;index:idx_models_library_origin"`
	OriginID     string                                   `gorm:"index:idx_models_library_origin"`
	Status       string                                   `gorm:"not null;default:draft"`
	IsPublic     bool                                     `gorm:"not null;default:false"`
	Name         string                                   `gorm:"not null"`
	Type         string                                   `gorm:"index"`
	Description  string
	Version      string
	Project      string
	Tags         datatypes.JSONType[[]string]
	RFLPCategory string                                   `gorm:"column:rflp_category;index"`
	Dependencies datatypes.JSONType[Dependencies]
	Uploader     string
	UploadTime   time.Time                                `gorm:"index"`
	Rating       float64
	Downloads    int64
	Applications datatypes.JSONType[[]ProjectApplication]
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ModelRecord) TableName() string {
	return "models"
}

func (m *Model) ToRecord() *ModelRecord {
	return &ModelRecord{
		ID:           m.ID,
		Library:      string(m.Library),
		OriginID:     m.origin,
		Status:       string(m.Status),
		IsPublic:     m.IsPublic,
		Name:         m.Name,
		Type:         m.Type,
		Description:  m.Description,
		Version:      m.Version,
		Project:      m.Project,
		Tags:         datatypes.NewJSONType(cloneStrings(m.Tags)),
		RFLPCategory: m.RFLPCategory,
		Dependencies: datatypes.NewJSONType(m.Dependencies.clone()),
		Uploader:     m.Uploader,
		UploadTime:   m.UploadTime,
		Rating:       m.Rating,
		Downloads:    m.Downloads,
		Applications: datatypes.NewJSONType(CloneApplications(m.Applications)),
	}
}

func (r *ModelRecord) ToModel() *Model {
	return &Model{
		ID:       r.ID,
		Library:  LibraryType(r.Library),
		Status:   Status(r.Status),
		IsPublic: r.IsPublic,
		Content: Content{
			Name:         r.Name,
			Type:         r.Type,
			Description:  r.Description,
			Version:      r.Version,
			Project:      r.Project,
			Tags:         cloneStrings(r.Tags.Data()),
			RFLPCategory: r.RFLPCategory,
			Dependencies: r.Dependencies.Data().clone(),
			Uploader:     r.Uploader,
			UploadTime:   r.UploadTime.UTC(),
			Rating:       r.Rating,
			Downloads:    r.Downloads,
		},
		Applications: CloneApplications(r.Applications.Data()),
		origin:       r.OriginID,
	}
}
