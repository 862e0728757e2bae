// Package preferencerepo stores UI preferences as key-value rows.
package preferencerepo

import (
	"context"
	"errors"
	"time"

	"agromarket/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.PreferenceStore = (*GormPreferenceStore)(nil)

type PreferenceDTO struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (PreferenceDTO) TableName() string {
	return "preferences"
}

type GormPreferenceStore struct {
	db *gorm.DB
}

func NewGormPreferenceStore(db *gorm.DB) *GormPreferenceStore {
	return &GormPreferenceStore{db: db}
}

func (s *GormPreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	var dto PreferenceDTO
	if err := s.db.WithContext(ctx).First(&dto, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return dto.Value, true, nil
}

// Set inserts or overwrites the value of key.
func (s *GormPreferenceStore) Set(ctx context.Context, key, value string) error {
	dto := PreferenceDTO{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&dto).Error
}
