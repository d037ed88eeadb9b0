package models

import "time"

// Post is authored by exactly one user; AuthorID never changes after creation.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Author    *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) OwnerID() uint {
	return p.AuthorID
}

// PostView is a post as returned by the API, with its author summary.
type PostView struct {
	Post
	Author UserCompact `json:"author"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=200,notblank"`
	Content string `json:"content" validate:"required,notblank"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Absent fields are left unchanged.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,max=200,notblank"`
	Content *string `json:"content,omitempty" validate:"omitempty,notblank"`
}
