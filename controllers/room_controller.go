package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/middleware"
	"github.com/roomloop/chat_backend/services"
)

type CreateRoomInput struct {
	Name     string `json:"name" example:"General"`
	Password string `json:"password,omitempty" example:"secret1"`
}

type JoinRoomInput struct {
	Password string `json:"password,omitempty" example:"secret1"`
}

type DeleteRoomInput struct {
	Password string `json:"password,omitempty" example:"secret1"`
}

// RoomController serves the room feed and the membership operations.
type RoomController struct {
	rooms *services.RoomsService
}

func NewRoomController(rooms *services.RoomsService) *RoomController {
	return &RoomController{rooms: rooms}
}

// GetRooms godoc
// @Summary List rooms
// @Description Returns one page of rooms filtered by name search and access, denormalized for the viewer
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name substring"
// @Param access query string false "all, public or private"
// @Param page query int false "1-indexed page"
// @Success 200 {object} map[string]interface{} "Rooms and total pages"
// @Failure 401 {object} errs.RequestError "Not authenticated"
// @Router /api/rooms [get]
func (ctl *RoomController) GetRooms(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	page, err := pageParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	access := c.Query("access")
	switch access {
	case "", "all", "public", "private":
	default:
		c.Error(errs.NewValidation([]errs.FieldError{
			{Path: "access", Messages: []string{"must be one of all, public, private"}},
		}))
		return
	}

	rooms, totalPages, err := ctl.rooms.ListRooms(currentUser, services.RoomsFilter{
		Search: c.Query("search"),
		Access: access,
		Page:   page,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "totalPages": totalPages})
}

// CreateRoom godoc
// @Summary Create a room
// @Description Creates a room, private iff a password is supplied
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room body CreateRoomInput true "Room"
// @Success 202 {object} map[string]interface{} "Created room"
// @Failure 400 {object} errs.RequestError "Validation error"
// @Router /api/rooms [post]
func (ctl *RoomController) CreateRoom(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errs.NewValidation(nil))
		return
	}

	room, err := ctl.rooms.CreateRoom(currentUser, input.Name, input.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"room": room})
}

// JoinRoom godoc
// @Summary Join a room
// @Description Adds the authenticated user to the room; private rooms require the password
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param body body JoinRoomInput false "Password for private rooms"
// @Success 200 {object} map[string]interface{} "Room and user ids"
// @Failure 400 {object} errs.RequestError "Incorrect password"
// @Router /api/rooms/{id}/participants [post]
func (ctl *RoomController) JoinRoom(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	roomID, err := idParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var input JoinRoomInput
	c.ShouldBindJSON(&input)

	if err := ctl.rooms.JoinRoom(currentUser, roomID, input.Password); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roomId": roomID, "userId": currentUser.ID})
}

// LeaveRoom godoc
// @Summary Leave a room
// @Description Removes the authenticated user from the room; a no-op when not a member
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]interface{} "Room and user ids"
// @Failure 401 {object} errs.RequestError "Not authenticated"
// @Router /api/rooms/{id}/leave [delete]
func (ctl *RoomController) LeaveRoom(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	roomID, err := idParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := ctl.rooms.LeaveRoom(currentUser, roomID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roomId": roomID, "userId": currentUser.ID})
}

// DeleteRoom godoc
// @Summary Delete a room
// @Description Deletes the room after re-verifying its password
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param body body DeleteRoomInput false "Password for private rooms"
// @Success 200 {object} map[string]interface{} "Deleted room id"
// @Failure 400 {object} errs.RequestError "Incorrect password"
// @Router /api/rooms/{id} [delete]
func (ctl *RoomController) DeleteRoom(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	roomID, err := idParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var input DeleteRoomInput
	c.ShouldBindJSON(&input)

	if err := ctl.rooms.DeleteRoom(currentUser, roomID, input.Password); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roomId": roomID})
}

// GetRoomParticipants godoc
// @Summary List a room's participants
// @Description Returns one page of participants in join order
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param offset query int false "Offset into the participant list"
// @Success 200 {object} map[string]interface{} "Users"
// @Failure 401 {object} errs.RequestError "Not authenticated"
// @Router /api/rooms/{id}/participants [get]
func (ctl *RoomController) GetRoomParticipants(c *gin.Context) {
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

	users, err := ctl.rooms.GetRoomParticipants(roomID, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetRoomsUserCreated godoc
// @Summary List rooms created by a user
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{} "Rooms"
// @Failure 401 {object} errs.RequestError "Not authenticated"
// @Router /api/users/{id}/rooms/created [get]
func (ctl *RoomController) GetRoomsUserCreated(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	userID, err := idParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	rooms, err := ctl.rooms.RoomsCreatedBy(currentUser, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoomsUserJoined godoc
// @Summary List rooms a user participates in
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{} "Rooms"
// @Failure 401 {object} errs.RequestError "Not authenticated"
// @Router /api/users/{id}/rooms/joined [get]
func (ctl *RoomController) GetRoomsUserJoined(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	userID, err := idParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	rooms, err := ctl.rooms.RoomsJoinedBy(currentUser, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}
