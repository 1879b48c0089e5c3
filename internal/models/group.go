package models

// Group is a topical collection of posts, managed by administrators.
type Group struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:63;not null" json:"title"`
	Slug        string `gorm:"size:63;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"size:255" json:"description"`
}
