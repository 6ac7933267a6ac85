package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"microblog/internal/middleware"
	"microblog/internal/models"
	"microblog/internal/pagination"
	"microblog/internal/service"
)

// CreatePost handles POST /api/posts. Validation failures enumerate
// every bad field at once.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)

	var req struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
		Body    string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("You must post JSON data."))
	}

	post, err := s.postService.Create(c.UserContext(), service.CreatePostInput{
		AuthorID: current.ID,
		Title:    req.Title,
		Summary:  req.Summary,
		Body:     req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	c.Location(fmt.Sprintf("/api/posts/%d", post.ID))
	return c.Status(fiber.StatusCreated).JSON(post.DTO())
}

// ListPosts handles GET /api/posts: the public front page, newest first.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	p := s.pageParams(c, s.config.PostsPerPage)
	posts, total, err := s.postService.List(c.UserContext(), p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(pagination.Collection(posts, total, p, "/api/posts",
		func(post *models.Post) map[string]any { return post.DTO() }))
}

// GetPost handles GET /api/posts/:id. Public; every fetch counts a view.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetDetail(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post.DTO())
}

// UpdatePost handles PUT /api/posts/:id (author only).
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   *string `json:"title"`
		Summary *string `json:"summary"`
		Body    *string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("You must post JSON data."))
	}

	post, err := s.postService.Update(c.UserContext(), service.UpdatePostInput{
		ActorID: current.ID,
		PostID:  id,
		Title:   req.Title,
		Summary: req.Summary,
		Body:    req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post.DTO())
}

// DeletePost handles DELETE /api/posts/:id (author only); cascades to
// the post's comments.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.Delete(c.UserContext(), current.ID, id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPostComments handles GET /api/posts/:id/comments/: paginated root
// comments, each carrying its flattened descendant subtree sorted by
// timestamp ascending.
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := s.pageParams(c, s.config.CommentsPerPage)
	threads, total, err := s.commentService.PostThreads(c.UserContext(), id, p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	endpoint := fmt.Sprintf("/api/posts/%d/comments/", id)
	return c.JSON(pagination.Collection(threads, total, p, endpoint,
		func(t service.Thread) map[string]any {
			data := t.Root.DTO()
			descendants := make([]map[string]any, 0, len(t.Descendants))
			for _, d := range t.Descendants {
				descendants = append(descendants, d.DTO())
			}
			data["descendants"] = descendants
			return data
		}))
}
