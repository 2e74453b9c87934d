package models

import (
	"time"

	"gorm.io/datatypes"
)

type Message struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	RoomID    uint                        `gorm:"not null;index" json:"roomId"`
	CreatorID uint                        `gorm:"not null" json:"creatorId"`
	Creator   User                        `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Text      string                      `gorm:"type:text" json:"text,omitempty"`
	ImageURLs datatypes.JSONSlice[string] `json:"imageUrls,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
}
