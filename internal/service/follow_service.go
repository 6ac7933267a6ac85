package service

import (
	"context"
	"time"

	"microblog/internal/models"
	"microblog/internal/repository"
)

type FollowService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// FollowEntry is one row of a follower/followed listing: the user, when
// the edge was created, and whether the viewer follows that user.
type FollowEntry struct {
	User        *models.User
	FollowedAt  time.Time
	IsFollowing bool
}

// NewFollowService creates a new follow service
func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *FollowService {
	return &FollowService{userRepo: userRepo, followRepo: followRepo}
}

// Follow applies the policy-level rules on top of the idempotent edge
// write: no self-follow, and following twice is a bad request.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) error {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if followerID == target.ID {
		return models.NewValidationError("You cannot follow yourself.")
	}
	following, err := s.followRepo.IsFollowing(ctx, followerID, target.ID)
	if err != nil {
		return err
	}
	if following {
		return models.NewValidationError("You have already followed that user.")
	}
	return s.followRepo.Follow(ctx, followerID, target.ID)
}

// Unfollow is the mirror policy: unfollowing someone not followed is a
// bad request.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if followerID == target.ID {
		return models.NewValidationError("You cannot unfollow yourself.")
	}
	following, err := s.followRepo.IsFollowing(ctx, followerID, target.ID)
	if err != nil {
		return err
	}
	if !following {
		return models.NewValidationError("You are not following this user.")
	}
	return s.followRepo.Unfollow(ctx, followerID, target.ID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followedID)
}

// Followeds lists who userID follows. Edge timestamps come from the
// follows table, re-queried per entry rather than denormalized.
func (s *FollowService) Followeds(ctx context.Context, viewerID, userID uint, offset, limit int) ([]FollowEntry, int64, error) {
	users, total, err := s.followRepo.ListFollowed(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.entries(ctx, viewerID, users, func(other uint) (uint, uint) {
		return userID, other
	}, total)
}

// Followers lists who follows userID.
func (s *FollowService) Followers(ctx context.Context, viewerID, userID uint, offset, limit int) ([]FollowEntry, int64, error) {
	users, total, err := s.followRepo.ListFollowers(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.entries(ctx, viewerID, users, func(other uint) (uint, uint) {
		return other, userID
	}, total)
}

// entries decorates each listed user with the edge timestamp and the
// viewer's own follow state. edge maps the listed user's id to the
// (follower, followed) pair of the edge being reported.
func (s *FollowService) entries(ctx context.Context, viewerID uint, users []*models.User, edge func(uint) (uint, uint), total int64) ([]FollowEntry, int64, error) {
	result := make([]FollowEntry, 0, len(users))
	for _, u := range users {
		followerID, followedID := edge(u.ID)
		e, err := s.followRepo.GetEdge(ctx, followerID, followedID)
		if err != nil {
			return nil, 0, err
		}
		var followedAt time.Time
		if e != nil {
			followedAt = e.CreatedAt
		}
		viewerFollows, err := s.followRepo.IsFollowing(ctx, viewerID, u.ID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, FollowEntry{
			User:        u,
			FollowedAt:  followedAt,
			IsFollowing: viewerFollows,
		})
	}
	return result, total, nil
}
