package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"microblog/internal/models"
)

// FollowRepository defines the interface for follow graph operations.
// Follow and Unfollow are idempotent at this level; the stricter
// already-following checks live in the service policy.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	GetEdge(ctx context.Context, followerID, followedID uint) (*models.Follow, error)
	ListFollowed(ctx context.Context, userID uint, offset, limit int) ([]*models.User, int64, error)
	ListFollowers(ctx context.Context, userID uint, offset, limit int) ([]*models.User, int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: followerID, FollowedID: followedID}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// GetEdge returns the edge with its creation timestamp, or nil when the
// pair is not connected.
func (r *followRepository) GetEdge(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	var edge models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&edge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &edge, nil
}

// ListFollowed returns the users that userID follows, most recent edge first.
func (r *followRepository) ListFollowed(ctx context.Context, userID uint, offset, limit int) ([]*models.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID)
	return r.page(base, offset, limit)
}

// ListFollowers returns the users following userID, most recent edge first.
func (r *followRepository) ListFollowers(ctx context.Context, userID uint, offset, limit int) ([]*models.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID)
	return r.page(base, offset, limit)
}

func (r *followRepository) page(base *gorm.DB, offset, limit int) ([]*models.User, int64, error) {
	query := base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	var users []*models.User
	err := query.
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}
