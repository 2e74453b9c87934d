package models

import (
	"time"

	"gorm.io/datatypes"
)

// Room is the persisted room document. A room is private iff PasswordHash is
// set; there is no separate privacy flag. ParticipantIDs keeps join order and
// MessageIDs is append-only.
type Room struct {
	ID             uint                      `gorm:"primaryKey" json:"id"`
	Name           string                    `gorm:"size:255;not null" json:"name"`
	CreatorID      uint                      `gorm:"not null" json:"creatorId"`
	Creator        User                      `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	PasswordHash   string                    `gorm:"size:255" json:"-"`
	ParticipantIDs datatypes.JSONSlice[uint] `json:"participantIds"`
	MessageIDs     datatypes.JSONSlice[uint] `json:"-"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// IsPrivate reports whether the room is password-protected.
func (r *Room) IsPrivate() bool {
	return r.PasswordHash != ""
}

// HasParticipant reports whether the user id is in the membership list.
func (r *Room) HasParticipant(userID uint) bool {
	for _, id := range r.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
