package services

import (
	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessagesService owns the append-only message history of rooms.
type MessagesService struct {
	db    *gorm.DB
	rooms *RoomsService
}

func NewMessagesService(db *gorm.DB, rooms *RoomsService) *MessagesService {
	return &MessagesService{db: db, rooms: rooms}
}

// CreateMessage stores a message and links it onto the room document. At
// least one of text and images is required; the two writes are independent
// single-document updates with no rollback if the second fails.
func (s *MessagesService) CreateMessage(currentUser *models.User, roomID uint, text string, imageURLs []string) (*models.Message, error) {
	var fields []errs.FieldError
	if text != "" {
		checkField(&fields, "text", text, "min=1,max=500")
	}
	if text == "" && len(imageURLs) == 0 {
		fields = append(fields, errs.FieldError{
			Path:     "text",
			Messages: []string{"either text or images is required"},
		})
	}
	if len(fields) > 0 {
		return nil, errs.NewValidation(fields)
	}

	message := models.Message{
		RoomID:    roomID,
		CreatorID: currentUser.ID,
		Text:      text,
	}
	if len(imageURLs) > 0 {
		message.ImageURLs = datatypes.NewJSONSlice(imageURLs)
	}

	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	if err := s.rooms.AppendMessage(roomID, message.ID); err != nil {
		return nil, err
	}

	if err := s.db.Preload("Creator").First(&message, message.ID).Error; err != nil {
		return nil, err
	}

	return &message, nil
}

// ListMessages returns one page of a room's history starting at offset, in
// chronological order, with creators joined.
func (s *MessagesService) ListMessages(roomID uint, offset int) ([]models.Message, error) {
	if offset < 0 {
		offset = 0
	}

	var messages []models.Message
	err := s.db.Where("room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(ItemsPerPage).
		Preload("Creator").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}
