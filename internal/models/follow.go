package models

import "time"

// Follow is a directed edge: UserID receives AuthorID's posts in their feed.
type Follow struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_follows_pair;check:chk_follows_no_self,user_id <> author_id" json:"user_id"`
	AuthorID  int       `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"author_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
