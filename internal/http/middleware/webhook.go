package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/caseline-backend/internal/http/response"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
)

const headerWebhookSecret = "X-Webhook-Secret"

// RequireWebhookSecret compares the shared secret header in constant time.
// An empty secret rejects every request.
func RequireWebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(headerWebhookSecret)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			response.RespondAPIError(c, nil, apierr.Unauthorized())
			return
		}
		c.Next()
	}
}
