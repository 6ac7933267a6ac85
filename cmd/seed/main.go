// Command seed fills a development database with fake users, posts,
// threaded comments and follow edges.
package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm/clause"

	"microblog/internal/auth"
	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/models"
)

func main() {
	userCount := flag.Int("users", 10, "number of users to create")
	postsPerUser := flag.Int("posts", 5, "posts per user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	users := make([]*models.User, 0, *userCount)
	for i := 0; i < *userCount; i++ {
		user := &models.User{
			Username:     gofakeit.Username(),
			Email:        gofakeit.Email(),
			PasswordHash: hash,
			Name:         gofakeit.Name(),
			Location:     gofakeit.City(),
			AboutMe:      gofakeit.Sentence(12),
		}
		if err := db.Create(user).Error; err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		users = append(users, user)
	}

	var posts []*models.Post
	for _, user := range users {
		for i := 0; i < *postsPerUser; i++ {
			post := &models.Post{
				Title:    gofakeit.Sentence(6),
				Body:     gofakeit.Paragraph(3, 4, 20, "\n"),
				AuthorID: user.ID,
			}
			post.DeriveSummary()
			if err := db.Create(post).Error; err != nil {
				log.Fatalf("Failed to create post: %v", err)
			}
			posts = append(posts, post)
		}
	}

	// Root comments plus a reply under each, so threads have depth.
	for _, post := range posts {
		author := users[rand.Intn(len(users))]
		root := &models.Comment{
			Body:     gofakeit.Sentence(10),
			AuthorID: author.ID,
			PostID:   post.ID,
		}
		if err := db.Create(root).Error; err != nil {
			log.Fatalf("Failed to create comment: %v", err)
		}
		replier := users[rand.Intn(len(users))]
		reply := &models.Comment{
			Body:     gofakeit.Sentence(8),
			AuthorID: replier.ID,
			PostID:   post.ID,
			ParentID: &root.ID,
		}
		if err := db.Create(reply).Error; err != nil {
			log.Fatalf("Failed to create reply: %v", err)
		}
	}

	for _, follower := range users {
		for _, followed := range users {
			if follower.ID == followed.ID || rand.Intn(3) != 0 {
				continue
			}
			edge := &models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error; err != nil {
				log.Fatalf("Failed to create follow edge: %v", err)
			}
		}
	}

	log.Printf("Seeded %d users, %d posts", len(users), len(posts))
}
