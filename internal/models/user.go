package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account. Username is the public handle and is unique; Password
// holds a bcrypt hash and FirebaseUID is set once the account is linked.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email       *string   `json:"email,omitempty" gorm:"size:254;uniqueIndex"`
	Password    string    `json:"-"`
	FirebaseUID *string   `json:"-" gorm:"size:128;uniqueIndex"`
	Bio         string    `json:"bio" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCompact is the public summary embedded in posts, comments and notifications.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username}
}

// UserProfile is a user with follow graph counters.
type UserProfile struct {
	User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150,notblank"`
	Email    string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Bio   *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
