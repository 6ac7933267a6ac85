package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"microblog/internal/middleware"
	"microblog/internal/models"
	"microblog/internal/pagination"
	"microblog/internal/service"
)

// CreateComment handles POST /api/comments/. A parent_id links the new
// comment into the thread; the parent must belong to the same post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)

	var req struct {
		Body     string `json:"body"`
		PostID   uint   `json:"post_id"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("You must post JSON data."))
	}

	comment, err := s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		AuthorID: current.ID,
		PostID:   req.PostID,
		ParentID: req.ParentID,
		Body:     req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	c.Location(fmt.Sprintf("/api/comments/%d", comment.ID))
	return c.Status(fiber.StatusCreated).JSON(comment.DTO())
}

// ListComments handles GET /api/comments/ (paginated, newest first).
func (s *Server) ListComments(c *fiber.Ctx) error {
	p := s.pageParams(c, s.config.CommentsPerPage)
	comments, total, err := s.commentService.List(c.UserContext(), p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(pagination.Collection(comments, total, p, "/api/comments/",
		func(comment *models.Comment) map[string]any { return comment.DTO() }))
}

// GetComment handles GET /api/comments/:id.
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment.DTO())
}

// UpdateComment handles PUT /api/comments/:id. Allowed for the comment
// author or the author of the post it sits on.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body     *string `json:"body"`
		MarkRead *bool   `json:"mark_read"`
		Disabled *bool   `json:"disabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("You must post JSON data."))
	}

	comment, err := s.commentService.Update(c.UserContext(), service.UpdateCommentInput{
		ActorID:   current.ID,
		CommentID: id,
		Body:      req.Body,
		MarkRead:  req.MarkRead,
		Disabled:  req.Disabled,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment.DTO())
}

// DeleteComment handles DELETE /api/comments/:id. Same principals as
// update; removes the whole descendant subtree.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.commentService.Delete(c.UserContext(), current.ID, id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeComment handles GET /api/comments/:id/like.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.Like(c.UserContext(), current.ID, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment.DTO())
}

// UnlikeComment handles GET /api/comments/:id/unlike.
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.Unlike(c.UserContext(), current.ID, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment.DTO())
}
