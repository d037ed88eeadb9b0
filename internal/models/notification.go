package models

import "time"

// VerbLikedPost is the verb of the notification emitted when a post is liked.
const VerbLikedPost = "liked your post"

// TargetKind tags the entity a notification points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Target is a typed reference to the entity a notification is about.
type Target struct {
	Kind TargetKind
	ID   uint
}

func PostTarget(id uint) Target {
	return Target{Kind: TargetPost, ID: id}
}

func CommentTarget(id uint) Target {
	return Target{Kind: TargetComment, ID: id}
}

func (t Target) Valid() bool {
	return (t.Kind == TargetPost || t.Kind == TargetComment) && t.ID != 0
}

// Notification is an append-only event addressed to Recipient. Only Read
// ever changes after creation. The target is not a foreign key: it may
// outlive the entity it names.
type Notification struct {
	ID          uint       `json:"id" gorm:"primaryKey" bson:"_id"`
	RecipientID uint       `json:"recipient" gorm:"not null;index:idx_notification_recipient" bson:"recipient_id"`
	Recipient   *User      `json:"-" gorm:"constraint:OnDelete:CASCADE" bson:"-"`
	ActorID     uint       `json:"actor" gorm:"not null;index" bson:"actor_id"`
	Actor       *User      `json:"-" gorm:"constraint:OnDelete:CASCADE" bson:"-"`
	Verb        string     `json:"verb" gorm:"size:255;not null" bson:"verb"`
	TargetType  TargetKind `json:"target_type" gorm:"size:20;not null" bson:"target_type"`
	TargetID    uint       `json:"target_id" gorm:"not null" bson:"target_id"`
	Timestamp   time.Time  `json:"timestamp" gorm:"not null;index" bson:"timestamp"`
	Read        bool       `json:"read" gorm:"column:is_read;not null;index" bson:"read"`
}

func NewNotification(recipientID, actorID uint, verb string, target Target, at time.Time) *Notification {
	return &Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Verb:        verb,
		TargetType:  target.Kind,
		TargetID:    target.ID,
		Timestamp:   at,
	}
}

func (n *Notification) Target() Target {
	return Target{Kind: n.TargetType, ID: n.TargetID}
}

// NotificationView carries the actor summary alongside the stored record.
type NotificationView struct {
	Notification
	ActorSummary UserCompact `json:"actor_summary"`
}
