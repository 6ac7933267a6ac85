package models

import (
	"fmt"
	"time"
)

// Comment is a reply on a post. Comments form a tree through ParentID;
// a nil parent marks a root comment. Deleting a comment removes its
// whole descendant subtree.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	MarkRead  bool      `gorm:"not null;default:false" json:"mark_read"`
	Disabled  bool      `gorm:"not null;default:false" json:"disabled"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID" json:"-"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Likers    []User    `gorm:"many2many:comment_likes" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
}

// DTO returns the serializable representation of the comment. Author,
// Post, Post.Author and Likers are expected to be loaded.
func (c *Comment) DTO() map[string]any {
	likerIDs := make([]uint, 0, len(c.Likers))
	for _, liker := range c.Likers {
		likerIDs = append(likerIDs, liker.ID)
	}

	links := map[string]any{
		"self":       fmt.Sprintf("/api/comments/%d", c.ID),
		"author_url": fmt.Sprintf("/api/users/%d", c.AuthorID),
		"post_url":   fmt.Sprintf("/api/posts/%d", c.PostID),
		"parent_url": nil,
	}
	if c.ParentID != nil {
		links["parent_url"] = fmt.Sprintf("/api/comments/%d", *c.ParentID)
	}

	return map[string]any{
		"id":        c.ID,
		"body":      c.Body,
		"timestamp": c.CreatedAt.UTC(),
		"mark_read": c.MarkRead,
		"disabled":  c.Disabled,
		"likers_id": likerIDs,
		"author": map[string]any{
			"id":       c.Author.ID,
			"username": c.Author.Username,
			"name":     c.Author.Name,
			"avatar":   c.Author.Avatar(128),
		},
		"post": map[string]any{
			"id":        c.Post.ID,
			"title":     c.Post.Title,
			"author_id": c.Post.AuthorID,
		},
		"parent_id": c.ParentID,
		"_links":    links,
	}
}
