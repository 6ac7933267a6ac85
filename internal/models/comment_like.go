package models

// CommentLike is the join row behind Comment.Likers. The pair is the
// whole identity; there is no payload.
type CommentLike struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CommentID uint `gorm:"primaryKey;autoIncrement:false" json:"comment_id"`
}

// TableName matches the many2many table on Comment.Likers.
func (CommentLike) TableName() string { return "comment_likes" }
