package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/services"
)

type RegisterInput struct {
	Username  string `json:"username" example:"alice"`
	FirstName string `json:"firstName" example:"Alice"`
	LastName  string `json:"lastName" example:"Cooper"`
	Password  string `json:"password" example:"secret1"`
}

type LoginInput struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret1"`
}

// AuthController issues and refreshes credentials.
type AuthController struct {
	users  *services.UsersService
	tokens *services.TokensService
}

func NewAuthController(users *services.UsersService, tokens *services.TokensService) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a user account and returns it with an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterInput true "Registration"
// @Success 202 {object} map[string]interface{} "User and tokens"
// @Failure 400 {object} errs.RequestError "Validation error or username taken"
// @Router /api/register [post]
func (ctl *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errs.NewValidation(nil))
		return
	}

	user, err := ctl.users.Register(input.Username, input.FirstName, input.LastName, input.Password)
	if err != nil {
		c.Error(err)
		return
	}

	accessToken, refreshToken, err := ctl.tokens.GenerateTokens(c.Request.Context(), user.ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Login godoc
// @Summary Authenticate a user
// @Description Verifies credentials and returns the user with a fresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{} "User and tokens"
// @Failure 400 {object} errs.RequestError "Incorrect password"
// @Failure 404 {object} errs.RequestError "User not found"
// @Router /api/login [post]
func (ctl *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errs.NewValidation(nil))
		return
	}

	user, err := ctl.users.Login(input.Username, input.Password)
	if err != nil {
		c.Error(err)
		return
	}

	accessToken, refreshToken, err := ctl.tokens.GenerateTokens(c.Request.Context(), user.ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.SetCookie("refreshToken", refreshToken, 0, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Refresh godoc
// @Summary Rotate the token pair
// @Description Exchanges a valid refresh token for a new access/refresh pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "New tokens"
// @Failure 401 {object} errs.RequestError "Not authenticated"
// @Router /api/refresh [post]
func (ctl *AuthController) Refresh(c *gin.Context) {
	token, err := c.Cookie("refreshToken")
	if err != nil || token == "" {
		c.Error(errs.NewNotAuthenticated())
		return
	}

	userID, err := ctl.tokens.ValidateRefreshToken(c.Request.Context(), token)
	if err != nil {
		c.Error(err)
		return
	}

	accessToken, refreshToken, err := ctl.tokens.GenerateTokens(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.SetCookie("refreshToken", refreshToken, 0, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}
