package models

import "time"

// Like is unique per (user, post).
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user" gorm:"not null;uniqueIndex:idx_like_user_post"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PostID    uint      `json:"post" gorm:"not null;uniqueIndex:idx_like_user_post;index"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// LikeRequest is the body of both /like and /unlike.
type LikeRequest struct {
	Post uint `json:"post" validate:"required"`
}
