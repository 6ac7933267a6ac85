package models

import (
	"fmt"
	"time"
)

// SummaryMarker is appended to an auto-derived summary.
const SummaryMarker = "  ... ..."

// summaryRunes is how much of the body seeds a missing summary.
const summaryRunes = 200

// Post represents a blog post. A post belongs to exactly one author and
// owns its comments; deleting a post cascades to them.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

// DeriveSummary fills an empty summary from the leading runes of the body.
func (p *Post) DeriveSummary() {
	if p.Summary != "" {
		return
	}
	body := []rune(p.Body)
	if len(body) > summaryRunes {
		body = body[:summaryRunes]
	}
	p.Summary = string(body) + SummaryMarker
}

// DTO returns the serializable representation of the post.
func (p *Post) DTO() map[string]any {
	return map[string]any{
		"id":        p.ID,
		"title":     p.Title,
		"summary":   p.Summary,
		"body":      p.Body,
		"timestamp": p.CreatedAt.UTC(),
		"views":     p.Views,
		"author":    p.Author.DTO(false),
		"_links": map[string]any{
			"self":       fmt.Sprintf("/api/posts/%d", p.ID),
			"author_url": fmt.Sprintf("/api/users/%d", p.AuthorID),
		},
	}
}
