package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"microblog/internal/middleware"
	"microblog/internal/models"
	"microblog/internal/pagination"
	"microblog/internal/service"
)

// CreateUser handles POST /api/users. The only unauthenticated write:
// account registration. Validation failures are field-keyed.
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("You must post JSON data."))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	c.Location(fmt.Sprintf("/api/users/%d", user.ID))
	return c.Status(fiber.StatusCreated).JSON(user.DTO(false))
}

// ListUsers handles GET /api/users (paginated).
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := s.pageParams(c, s.config.UsersPerPage)
	users, total, err := s.userService.List(c.UserContext(), p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(pagination.Collection(users, total, p, "/api/users",
		func(u *models.User) map[string]any { return u.DTO(false) }))
}

// GetUser handles GET /api/users/:id. The full profile, email included,
// is only visible to the user themselves; other profiles carry an
// is_following flag relative to the requester.
func (s *Server) GetUser(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if current.ID == user.ID {
		return c.JSON(user.DTO(true))
	}

	following, err := s.followService.IsFollowing(c.UserContext(), current.ID, user.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	data := user.DTO(false)
	data["is_following"] = following
	return c.JSON(data)
}

// UpdateUser handles PUT /api/users/:id (self only).
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Name     *string `json:"name"`
		Location *string `json:"location"`
		AboutMe  *string `json:"about_me"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("You must post JSON data."))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		ActorID:  current.ID,
		UserID:   id,
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Location: req.Location,
		AboutMe:  req.AboutMe,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user.DTO(true))
}

// DeleteUser handles DELETE /api/users/:id (self only). Removes the
// account and everything it owns.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.Delete(c.UserContext(), current.ID, id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// followEntryDTO decorates a user DTO with the edge metadata reported
// by follower/followed listings.
func followEntryDTO(e service.FollowEntry) map[string]any {
	data := e.User.DTO(false)
	data["is_following"] = e.IsFollowing
	data["timestamp"] = e.FollowedAt.UTC()
	return data
}

// GetFolloweds handles GET /api/users/:id/followeds/: who the user follows.
func (s *Server) GetFolloweds(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.userService.Get(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	p := s.pageParams(c, s.config.UsersPerPage)
	entries, total, err := s.followService.Followeds(c.UserContext(), current.ID, id, p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	endpoint := fmt.Sprintf("/api/users/%d/followeds/", id)
	return c.JSON(pagination.Collection(entries, total, p, endpoint, followEntryDTO))
}

// GetFollowers handles GET /api/users/:id/followers/: the followers of the user.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.userService.Get(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	p := s.pageParams(c, s.config.UsersPerPage)
	entries, total, err := s.followService.Followers(c.UserContext(), current.ID, id, p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	endpoint := fmt.Sprintf("/api/users/%d/followers/", id)
	return c.JSON(pagination.Collection(entries, total, p, endpoint, followEntryDTO))
}

// GetUserPosts handles GET /api/users/:id/posts.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.userService.Get(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	p := s.pageParams(c, s.config.PostsPerPage)
	posts, total, err := s.postService.ListByAuthor(c.UserContext(), id, p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	endpoint := fmt.Sprintf("/api/users/%d/posts", id)
	return c.JSON(pagination.Collection(posts, total, p, endpoint,
		func(post *models.Post) map[string]any { return post.DTO() }))
}

// GetFollowedPosts handles GET /api/users/:id/followeds-posts/: posts
// by everyone the user follows, newest first. Self only.
func (s *Server) GetFollowedPosts(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.userService.Get(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	if current.ID != id {
		return models.RespondWithError(c, models.NewForbiddenError())
	}

	p := s.pageParams(c, s.config.PostsPerPage)
	posts, total, err := s.postService.ListFollowed(c.UserContext(), id, p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	endpoint := fmt.Sprintf("/api/users/%d/followeds-posts/", id)
	return c.JSON(pagination.Collection(posts, total, p, endpoint,
		func(post *models.Post) map[string]any { return post.DTO() }))
}

// GetUserComments handles GET /api/users/:id/comments/: comments the
// user wrote. Self only.
func (s *Server) GetUserComments(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.userService.Get(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	p := s.pageParams(c, s.config.CommentsPerPage)
	comments, total, err := s.commentService.ListByAuthor(c.UserContext(), current.ID, id, p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	endpoint := fmt.Sprintf("/api/users/%d/comments/", id)
	return c.JSON(pagination.Collection(comments, total, p, endpoint,
		func(comment *models.Comment) map[string]any { return comment.DTO() }))
}

// GetReceivedComments handles GET /api/users/:id/recived-comments/:
// comments others left on the user's posts, unread first. Self only.
// The path keeps the original spelling; clients depend on it.
func (s *Server) GetReceivedComments(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.userService.Get(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	p := s.pageParams(c, s.config.CommentsPerPage)
	comments, total, err := s.commentService.ListReceived(c.UserContext(), current.ID, id, p.Offset(), p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	endpoint := fmt.Sprintf("/api/users/%d/recived-comments/", id)
	return c.JSON(pagination.Collection(comments, total, p, endpoint,
		func(comment *models.Comment) map[string]any { return comment.DTO() }))
}

// FollowUser handles GET /api/follow/:id.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.followService.Follow(c.UserContext(), current.ID, id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("You are now following %d.", id),
	})
}

// UnfollowUser handles GET /api/unfollow/:id.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.followService.Unfollow(c.UserContext(), current.ID, id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("You are not following %d anymore.", id),
	})
}
