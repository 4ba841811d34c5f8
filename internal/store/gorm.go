package store

import (
	"context"
	"errors"

	"github.com/emrgen/modelhub/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) ListModels(ctx context.Context, library model.LibraryType) ([]*model.Model, error) {
	var records []*model.ModelRecord
	err := g.db.WithContext(ctx).
		Where("library = ?", string(library)).
		Order("upload_time asc, id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	models := make([]*model.Model, 0, len(records))
	for _, record := range records {
		models = append(models, record.ToModel())
	}

	return models, nil
}

func (g *GormStore) GetModel(ctx context.Context, library model.LibraryType, id string) (*model.Model, error) {
	var record model.ModelRecord
	err := g.db.WithContext(ctx).Where("library = ? AND id = ?", string(library), id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}

	return record.ToModel(), nil
}

func (g *GormStore) CreateModel(ctx context.Context, m *model.Model) error {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.ModelRecord{}).
		Where("library = ? AND id = ?", string(m.Library), m.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrModelExists
	}

	return g.db.WithContext(ctx).Create(m.ToRecord()).Error
}

func (g *GormStore) UpdateModel(ctx context.Context, m *model.Model) error {
	res := g.db.WithContext(ctx).Model(&model.ModelRecord{}).
		Where("library = ? AND id = ?", string(m.Library), m.ID).
		Select("*").Omit("created_at").
		Updates(m.ToRecord())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrModelNotFound
	}

	return nil
}

func (g *GormStore) DeleteModel(ctx context.Context, library model.LibraryType, id string) error {
	res := g.db.WithContext(ctx).Where("library = ? AND id = ?", string(library), id).Delete(&model.ModelRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrModelNotFound
	}

	return nil
}

// ReplaceMirrors deletes every mirror of the library and inserts the given set.
// NOTE: callers run it inside a transaction together with the listing it was derived from
func (g *GormStore) ReplaceMirrors(ctx context.Context, library model.LibraryType, mirrors []*model.Model) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("library = ? AND origin_id <> ''", string(library)).Delete(&model.ModelRecord{}).Error
		if err != nil {
			return err
		}

		if len(mirrors) == 0 {
			return nil
		}

		records := make([]*model.ModelRecord, 0, len(mirrors))
		for _, mirror := range mirrors {
			if !mirror.IsMirror() || mirror.Library != library {
				logrus.Errorf("refusing to store %s/%s as a %s mirror", mirror.Library, mirror.ID, library)
				return errors.New("mirror set contains a record that is not a mirror of this library")
			}
			records = append(records, mirror.ToRecord())
		}

		return tx.Create(records).Error
	})
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
