package middleware

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/roomloop/chat_backend/errs"
)

// ErrorHandler is the single boundary mapping service failures onto the wire
// envelope. Typed errors keep their status and code; anything else becomes a
// generic unknown_error without leaking details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if reqErr, ok := errs.As(err); ok {
			c.JSON(reqErr.Status, reqErr)
			return
		}

		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		reqErr := errs.NewUnknown()
		c.JSON(reqErr.Status, reqErr)
	}
}
