package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/middleware"
	"github.com/roomloop/chat_backend/services"
	"github.com/roomloop/chat_backend/uploads"
)

// UserController serves user profiles and the user feed.
type UserController struct {
	users   *services.UsersService
	storage uploads.Storage
}

func NewUserController(users *services.UsersService, storage uploads.Storage) *UserController {
	return &UserController{users: users, storage: storage}
}

// GetMe godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Current user"
// @Failure 401 {object} errs.RequestError "Not authenticated"
// @Router /api/users/me [get]
func (ctl *UserController) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

// GetUsers godoc
// @Summary List users
// @Description Returns one page of users filtered by username search and presence
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Username substring"
// @Param sort query string false "all, online or offline"
// @Param page query int false "1-indexed page"
// @Success 200 {object} map[string]interface{} "Users and total pages"
// @Failure 401 {object} errs.RequestError "Not authenticated"
// @Router /api/users [get]
func (ctl *UserController) GetUsers(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	users, totalPages, err := ctl.users.ListUsers(services.UsersFilter{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Page:   page,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "totalPages": totalPages})
}

// GetUser godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{} "User"
// @Failure 404 {object} errs.RequestError "User not found"
// @Router /api/users/{id} [get]
func (ctl *UserController) GetUser(c *gin.Context) {
	userID, err := idParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	user, err := ctl.users.GetByID(userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Description Multipart form: optional name fields plus avatar upload or removal
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param firstName formData string false "First name"
// @Param lastName formData string false "Last name"
// @Param username formData string false "Username"
// @Param removeAvatar formData bool false "Drop the current avatar"
// @Param avatar formData file false "New avatar image"
// @Success 200 {object} map[string]interface{} "Updated user"
// @Failure 400 {object} errs.RequestError "Validation error"
// @Router /api/users/me [put]
func (ctl *UserController) UpdateProfile(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	update := services.ProfileUpdate{
		Username:     c.PostForm("username"),
		FirstName:    c.PostForm("firstName"),
		LastName:     c.PostForm("lastName"),
		RemoveAvatar: c.PostForm("removeAvatar") == "true",
	}

	if file, err := c.FormFile("avatar"); err == nil && !update.RemoveAvatar {
		url, err := ctl.storage.Save(file, uploads.SubdirAvatars)
		if err != nil {
			c.Error(err)
			return
		}
		update.AvatarURL = url
	}

	user, err := ctl.users.UpdateProfile(currentUser.ID, update)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// pageParam parses the optional 1-indexed page query parameter.
func pageParam(c *gin.Context) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, errs.NewValidation([]errs.FieldError{
			{Path: "page", Messages: []string{"must be a positive number"}},
		})
	}
	return page, nil
}

// idParam parses a numeric path parameter.
func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, errs.NewValidation([]errs.FieldError{
			{Path: name, Messages: []string{"must be a number"}},
		})
	}
	return uint(id), nil
}

// offsetParam parses the optional offset query parameter.
func offsetParam(c *gin.Context) (int, error) {
	raw := c.Query("offset")
	if raw == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, errs.NewValidation([]errs.FieldError{
			{Path: "offset", Messages: []string{"must be a non-negative number"}},
		})
	}
	return offset, nil
}
