package models

import "time"

// Follow is a directed edge: Follower receives Followee's posts in their feed.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_follow_pair"`
	Follower   *User     `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FolloweeID uint      `json:"followee_id" gorm:"not null;uniqueIndex:idx_follow_pair;index"`
	Followee   *User     `json:"-" gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"created_at"`
}
