package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	OperatorKey string `json:"operator_key"`
}

// LoginHandler exchanges the operator key for a short-lived bearer token.
func LoginHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}

		token, err := m.Login(time.Now(), req.OperatorKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid operator key"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "Bearer"})
	}
}
