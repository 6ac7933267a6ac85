package service

import (
	"context"
	"sort"
	"strings"

	"microblog/internal/models"
	"microblog/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	AuthorID uint
	PostID   uint
	ParentID *uint
	Body     string
}

// UpdateCommentInput carries a partial comment update; nil fields are
// left untouched.
type UpdateCommentInput struct {
	ActorID   uint
	CommentID uint
	Body      *string
	MarkRead  *bool
	Disabled  *bool
}

// Thread is one root comment with its whole flattened descendant
// subtree, sorted by creation time ascending.
type Thread struct {
	Root        *models.Comment
	Descendants []*models.Comment
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// Create validates before any write. Unlike post creation this stops at
// the first violation with a single message. A parent comment must
// exist and belong to the same post.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Body is required.")
	}
	if in.PostID == 0 {
		return nil, models.NewValidationError("Post id is required.")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
				return nil, models.NewValidationError("Parent comment does not exist.")
			}
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post.")
		}
	}

	comment := &models.Comment{
		Body:     in.Body,
		AuthorID: in.AuthorID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

func (s *CommentService) List(ctx context.Context, offset, limit int) ([]*models.Comment, int64, error) {
	return s.commentRepo.List(ctx, offset, limit)
}

// ListByAuthor returns the comments a user has written. Self-only.
func (s *CommentService) ListByAuthor(ctx context.Context, actorID, userID uint, offset, limit int) ([]*models.Comment, int64, error) {
	if actorID != userID {
		return nil, 0, models.NewForbiddenError()
	}
	return s.commentRepo.ListByAuthor(ctx, userID, offset, limit)
}

// ListReceived returns comments other users left on the user's posts,
// unread first. Self-only.
func (s *CommentService) ListReceived(ctx context.Context, actorID, userID uint, offset, limit int) ([]*models.Comment, int64, error) {
	if actorID != userID {
		return nil, 0, models.NewForbiddenError()
	}
	return s.commentRepo.ListReceived(ctx, userID, offset, limit)
}

// canModerate implements the asymmetric rule: a comment may be changed
// by its own author or by the author of the post it sits on.
func canModerate(actorID uint, comment *models.Comment) bool {
	return actorID == comment.AuthorID || actorID == comment.Post.AuthorID
}

func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if !canModerate(in.ActorID, comment) {
		return nil, models.NewForbiddenError()
	}

	if in.Body != nil {
		if strings.TrimSpace(*in.Body) == "" {
			return nil, models.NewValidationError("Body is required.")
		}
		comment.Body = *in.Body
	}
	if in.MarkRead != nil {
		comment.MarkRead = *in.MarkRead
	}
	if in.Disabled != nil {
		comment.Disabled = *in.Disabled
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// Delete removes the comment and its whole descendant subtree.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !canModerate(actorID, comment) {
		return models.NewForbiddenError()
	}
	return s.commentRepo.Delete(ctx, comment.ID)
}

// Like records the caller's like; liking twice is a no-op.
func (s *CommentService) Like(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Like(ctx, userID, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, commentID)
}

// Unlike removes the caller's like; removing an absent like is a no-op.
func (s *CommentService) Unlike(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Unlike(ctx, userID, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, commentID)
}

// PostThreads pages through a post's root comments and attaches every
// transitive descendant to its root, oldest first. The traversal is
// set-based over a flat parent index, so no node can repeat.
func (s *CommentService) PostThreads(ctx context.Context, postID uint, offset, limit int) ([]Thread, int64, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, 0, err
	}

	roots, total, err := s.commentRepo.ListRoots(ctx, postID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if len(roots) == 0 {
		return []Thread{}, total, nil
	}

	arena, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	children := make(map[uint][]*models.Comment)
	for _, c := range arena {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	threads := make([]Thread, 0, len(roots))
	for _, root := range roots {
		threads = append(threads, Thread{
			Root:        root,
			Descendants: collectDescendants(root.ID, children),
		})
	}
	return threads, total, nil
}

func collectDescendants(rootID uint, children map[uint][]*models.Comment) []*models.Comment {
	seen := map[uint]struct{}{rootID: {}}
	var out []*models.Comment

	stack := []uint{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range children[id] {
			if _, ok := seen[child.ID]; ok {
				continue
			}
			seen[child.ID] = struct{}{}
			out = append(out, child)
			stack = append(stack, child.ID)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
