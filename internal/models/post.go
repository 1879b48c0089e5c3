package models

import "time"

type Post struct {
	ID       int       `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;index;<-:create" json:"pub_date"` // immutable once written
	AuthorID int       `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *int      `gorm:"index" json:"group_id"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
	Image    *string   `json:"image"`
}

// PostChanges holds the author-editable fields of a post.
type PostChanges struct {
	Text    string
	GroupID *int
	Image   *string
}
