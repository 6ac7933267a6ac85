package database

import (
	"gorm.io/gorm"

	"microblog/internal/models"
)

// Migrate creates or updates the schema for all domain models.
func Migrate(db *gorm.DB) error {
	// Back the Comment.Likers association with the explicit join model
	// so the edge can be addressed directly.
	if err := db.SetupJoinTable(&models.Comment{}, "Likers", &models.CommentLike{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Follow{},
	)
}
