package database

import (
	"github.com/fluenta/tutor-be/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.TutorSession{},
	)
	return err
}
