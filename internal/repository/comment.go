package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"microblog/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	List(ctx context.Context, offset, limit int) ([]*models.Comment, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]*models.Comment, int64, error)
	ListReceived(ctx context.Context, userID uint, offset, limit int) ([]*models.Comment, int64, error)
	ListRoots(ctx context.Context, postID uint, offset, limit int) ([]*models.Comment, int64, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, commentID uint) error
	Unlike(ctx context.Context, userID, commentID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// withDetails loads everything the comment DTO needs.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Post").
		Preload("Post.Author").
		Preload("Likers")
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := withDetails(r.db.WithContext(ctx)).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, offset, limit int) ([]*models.Comment, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&models.Comment{}), "created_at DESC", offset, limit)
}

func (r *commentRepository) ListByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]*models.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Comment{}).Where("author_id = ?", authorID)
	return r.page(base, "created_at DESC", offset, limit)
}

// ListReceived returns comments left by other users on the given user's
// posts, unread ones first.
func (r *commentRepository) ListReceived(ctx context.Context, userID uint, offset, limit int) ([]*models.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id IN (?)",
			r.db.Model(&models.Post{}).Select("id").Where("author_id = ?", userID)).
		Where("author_id <> ?", userID)
	return r.page(base, "mark_read, created_at DESC", offset, limit)
}

// ListRoots pages through a post's top-level comments, newest first.
func (r *commentRepository) ListRoots(ctx context.Context, postID uint, offset, limit int) ([]*models.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID)
	return r.page(base, "created_at DESC", offset, limit)
}

// ListByPost loads the post's entire comment arena, oldest first. Tree
// relationships are computed by the caller from ParentID.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := withDetails(r.db.WithContext(ctx)).
		Where("post_id = ?", postID).
		Order("created_at, id").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) page(base *gorm.DB, order string, offset, limit int) ([]*models.Comment, int64, error) {
	// Clone before Count; finishers poison the builder for reuse.
	query := base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	var comments []*models.Comment
	err := withDetails(query).
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the comment, its entire descendant subtree and all
// likes on those comments, atomically.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := expandCommentSubtrees(tx, []uint{id})
		if err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Like records the edge; liking twice is a no-op.
func (r *commentRepository) Like(ctx context.Context, userID, commentID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CommentLike{UserID: userID, CommentID: commentID}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Unlike removes the edge; removing an absent edge is a no-op.
func (r *commentRepository) Unlike(ctx context.Context, userID, commentID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CommentLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// expandCommentSubtrees grows the seed id set with every transitive
// child. The visited set keeps the walk terminating even if the data
// ever held a cycle.
func expandCommentSubtrees(tx *gorm.DB, seed []uint) ([]uint, error) {
	visited := make(map[uint]struct{}, len(seed))
	frontier := make([]uint, 0, len(seed))
	for _, id := range seed {
		if _, ok := visited[id]; !ok {
			visited[id] = struct{}{}
			frontier = append(frontier, id)
		}
	}

	all := append([]uint(nil), frontier...)
	for len(frontier) > 0 {
		var children []uint
		err := tx.Model(&models.Comment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range children {
			if _, ok := visited[id]; ok {
				continue
			}
			visited[id] = struct{}{}
			frontier = append(frontier, id)
			all = append(all, id)
		}
	}
	return all, nil
}
