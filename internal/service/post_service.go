package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"microblog/internal/models"
	"microblog/internal/repository"
)

const maxTitleLen = 255

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	AuthorID uint
	Title    string
	Summary  string
	Body     string
}

// UpdatePostInput mirrors creation: title and body must be present and
// valid; a nil Summary keeps the stored one.
type UpdatePostInput struct {
	ActorID uint
	PostID  uint
	Title   *string
	Summary *string
	Body    *string
}

// NewPostService creates a new post service
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func validatePostFields(title, body *string) map[string]string {
	fields := map[string]string{}
	if title == nil || strings.TrimSpace(*title) == "" {
		fields["title"] = "Title is required."
	} else if utf8.RuneCountInString(*title) > maxTitleLen {
		fields["title"] = "Title must less than 255 characters."
	}
	if body == nil || strings.TrimSpace(*body) == "" {
		fields["body"] = "Body is required."
	}
	return fields
}

// Create validates every field before any write and derives the summary
// from the body when none is supplied.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if fields := validatePostFields(&in.Title, &in.Body); len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	post := &models.Post{
		Title:    in.Title,
		Summary:  in.Summary,
		Body:     in.Body,
		AuthorID: in.AuthorID,
	}
	post.DeriveSummary()

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// GetDetail is the read used by the detail endpoint: it bumps the view
// counter atomically, so the returned post carries the new count.
func (s *PostService) GetDetail(ctx context.Context, id uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.postRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) List(ctx context.Context, offset, limit int) ([]*models.Post, int64, error) {
	return s.postRepo.List(ctx, offset, limit)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]*models.Post, int64, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, offset, limit)
}

// ListFollowed returns posts authored by anyone the user follows.
func (s *PostService) ListFollowed(ctx context.Context, userID uint, offset, limit int) ([]*models.Post, int64, error) {
	return s.postRepo.ListFollowed(ctx, userID, offset, limit)
}

// Update replaces title/summary/body. Only the author may update.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if in.ActorID != post.AuthorID {
		return nil, models.NewForbiddenError()
	}
	if fields := validatePostFields(in.Title, in.Body); len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	post.Title = *in.Title
	post.Body = *in.Body
	if in.Summary != nil {
		post.Summary = *in.Summary
	}
	post.DeriveSummary()

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Delete removes the post and cascades to its comments. Only the author
// may delete.
func (s *PostService) Delete(ctx context.Context, actorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if actorID != post.AuthorID {
		return models.NewForbiddenError()
	}
	return s.postRepo.Delete(ctx, post.ID)
}
