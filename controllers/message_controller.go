package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/middleware"
	"github.com/roomloop/chat_backend/services"
	"github.com/roomloop/chat_backend/uploads"
)

// MessageController serves a room's message history.
type MessageController struct {
	messages *services.MessagesService
	storage  uploads.Storage
}

func NewMessageController(messages *services.MessagesService, storage uploads.Storage) *MessageController {
	return &MessageController{messages: messages, storage: storage}
}

// CreateMessage godoc
// @Summary Send a message to a room
// @Description Multipart form: text and/or image files, at least one required
// @Tags messages
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param text formData string false "Message text"
// @Param images formData file false "Image attachments"
// @Success 202 {object} map[string]interface{} "Created message"
// @Failure 400 {object} errs.RequestError "Validation error"
// @Router /api/rooms/{id}/messages [post]
func (ctl *MessageController) CreateMessage(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	roomID, err := idParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	text := c.PostForm("text")

	var imageURLs []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, file := range form.File["images"] {
			url, err := ctl.storage.Save(file, uploads.SubdirMessageImages)
			if err != nil {
				c.Error(err)
				return
			}
			imageURLs = append(imageURLs, url)
		}
	}

	if text == "" && len(imageURLs) == 0 {
		c.Error(errs.NewValidation([]errs.FieldError{
			{Path: "text", Messages: []string{"either text or images is required"}},
		}))
		return
	}

	message, err := ctl.messages.CreateMessage(currentUser, roomID, text, imageURLs)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": message})
}

// GetMessages godoc
// @Summary List a room's messages
// @Description Returns one page of messages in chronological order
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param offset query int false "Offset into the history"
// @Success 200 {object} map[string]interface{} "Messages"
// @Failure 401 {object} errs.RequestError "Not authenticated"
// @Router /api/rooms/{id}/messages [get]
func (ctl *MessageController) GetMessages(c *gin.Context) {
	roomID, err := idParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	offset, err := offsetParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	messages, err := ctl.messages.ListMessages(roomID, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
