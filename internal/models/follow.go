package models

import "time"

// Follow is one edge in the follow graph: FollowerID follows FollowedID.
// The pair is the identity; CreatedAt records when the edge was made.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false" json:"followed_id"`
	CreatedAt  time.Time `json:"timestamp"`
}

// TableName keeps the original table name for the follow relation.
func (Follow) TableName() string { return "follows" }
