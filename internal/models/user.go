// Package models contains data structures for the application's domain models.
package models

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// User represents a registered account. Deleting a user cascades to all
// of its posts, comments (including descendant replies) and follow edges.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Name         string    `gorm:"size:64" json:"name"`
	Location     string    `gorm:"size:64" json:"location"`
	AboutMe      string    `gorm:"type:text" json:"about_me"`
	MemberSince  time.Time `gorm:"autoCreateTime" json:"member_since"`
	LastSeen     time.Time `gorm:"autoCreateTime" json:"last_seen"`

	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

// DisplayName is the name carried in token claims.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Avatar returns a Gravatar URL derived from the user's email.
func (u *User) Avatar(size int) string {
	digest := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=%d", digest, size)
}

// DTO returns the serializable representation of the user. The email is
// only included when the requester is the user themselves.
func (u *User) DTO(includeEmail bool) map[string]any {
	data := map[string]any{
		"id":           u.ID,
		"username":     u.Username,
		"name":         u.Name,
		"location":     u.Location,
		"about_me":     u.AboutMe,
		"member_since": u.MemberSince.UTC(),
		"last_seen":    u.LastSeen.UTC(),
		"_links": map[string]any{
			"self":   fmt.Sprintf("/api/users/%d", u.ID),
			"avatar": u.Avatar(128),
		},
	}
	if includeEmail {
		data["email"] = u.Email
	}
	return data
}
