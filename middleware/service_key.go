package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextServiceKeyID carries the authenticated key's ID for audit logging.
const ContextServiceKeyID = "serviceKeyID"

// RequireServiceKey authenticates internal callers with an X-Service-Key
// header of the form "keyID.secret". Keys map key IDs to secrets; the secret
// comparison is constant time and the key ID is logged for audit. Scoped
// keys replace the old shared admin key: a key grants only the routes it is
// mounted on.
func RequireServiceKey(keys map[string]string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Service-Key")
		keyID, secret, found := strings.Cut(raw, ".")
		if !found || keyID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed service key"})
			c.Abort()
			return
		}

		expected, ok := keys[keyID]
		if !ok || subtle.ConstantTimeCompare([]byte(secret), []byte(expected)) != 1 {
			logger.Warn("Service key rejected",
				zap.String("key_id", keyID),
				zap.String("path", c.FullPath()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid service key"})
			c.Abort()
			return
		}

		logger.Info("Service key accepted",
			zap.String("key_id", keyID),
			zap.String("path", c.FullPath()),
		)
		c.Set(ContextServiceKeyID, keyID)
		c.Next()
	}
}
