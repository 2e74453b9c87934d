package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/models"
	"github.com/roomloop/chat_backend/services"
	"github.com/roomloop/chat_backend/utils"
)

const currentUserKey = "currentUser"

// JWTAuth verifies the bearer token and loads the authenticated user into
// the request context.
func JWTAuth(users *services.UsersService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthenticated(c)
			return
		}

		userID, err := utils.ParseToken(parts[1])
		if err != nil {
			unauthenticated(c)
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			unauthenticated(c)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func unauthenticated(c *gin.Context) {
	reqErr := errs.NewNotAuthenticated()
	c.AbortWithStatusJSON(reqErr.Status, reqErr)
}

// CurrentUser returns the user loaded by JWTAuth. It panics when called on
// an unprotected route, same as a missing context key would.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(currentUserKey).(*models.User)
}
