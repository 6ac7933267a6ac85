// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"fmt"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/middleware"
	"microblog/internal/repository"
	"microblog/internal/service"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config    *config.Config
	db        *gorm.DB
	tokenAuth *middleware.TokenAuth

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository

	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return newServerWithDB(cfg, db), nil
}

func newServerWithDB(cfg *config.Config, db *gorm.DB) *Server {
	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		followRepo:  repository.NewFollowRepository(db),
	}
	s.userService = service.NewUserService(s.userRepo)
	s.postService = service.NewPostService(s.postRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.followService = service.NewFollowService(s.userRepo, s.followRepo)
	s.tokenAuth = middleware.NewTokenAuth(cfg.JWTSecret, s.userRepo)
	return s
}

// SetupMiddleware registers the global middleware stack.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	prom := fiberprometheus.New("microblog-api")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)
}

// SetupRoutes registers the API route table.
func (s *Server) SetupRoutes(app *fiber.App) {
	authRequired := s.tokenAuth.RequireToken

	api := app.Group("/api")
	api.Get("/ping", s.Ping)
	api.Post("/tokens", s.IssueToken)

	api.Post("/users", s.CreateUser)
	api.Get("/users", authRequired, s.ListUsers)
	api.Get("/users/:id", authRequired, s.GetUser)
	api.Put("/users/:id", authRequired, s.UpdateUser)
	api.Delete("/users/:id", authRequired, s.DeleteUser)
	api.Get("/users/:id/followeds/", authRequired, s.GetFolloweds)
	api.Get("/users/:id/followers/", authRequired, s.GetFollowers)
	api.Get("/users/:id/posts", authRequired, s.GetUserPosts)
	api.Get("/users/:id/followeds-posts/", authRequired, s.GetFollowedPosts)
	api.Get("/users/:id/comments/", authRequired, s.GetUserComments)
	api.Get("/users/:id/recived-comments/", authRequired, s.GetReceivedComments)

	api.Get("/follow/:id", authRequired, s.FollowUser)
	api.Get("/unfollow/:id", authRequired, s.UnfollowUser)

	api.Post("/posts", authRequired, s.CreatePost)
	api.Get("/posts", s.ListPosts)
	api.Get("/posts/:id", s.GetPost)
	api.Put("/posts/:id", authRequired, s.UpdatePost)
	api.Delete("/posts/:id", authRequired, s.DeletePost)
	api.Get("/posts/:id/comments/", s.GetPostComments)

	api.Post("/comments/", authRequired, s.CreateComment)
	api.Get("/comments/", authRequired, s.ListComments)
	api.Get("/comments/:id", authRequired, s.GetComment)
	api.Put("/comments/:id", authRequired, s.UpdateComment)
	api.Delete("/comments/:id", authRequired, s.DeleteComment)
	api.Get("/comments/:id/like", authRequired, s.LikeComment)
	api.Get("/comments/:id/unlike", authRequired, s.UnlikeComment)
}
