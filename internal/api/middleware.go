package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"household-meal-planner/internal/auth"
	"household-meal-planner/internal/member"

	"github.com/gin-gonic/gin"
)

const memberKey = "member"

// requireMember resolves the bearer token to a member and stores it on the
// context; requests without a valid token get 401.
func (h *handlers) requireMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, "Not authenticated")
			return
		}

		m, err := h.auth.Authenticate(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) {
				log.Printf("Failed to authenticate request: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
				return
			}
			unauthorized(c, "Could not validate credentials")
			return
		}

		c.Set(memberKey, m)
		c.Next()
	}
}

func currentMember(c *gin.Context) *member.Member {
	return c.MustGet(memberKey).(*member.Member)
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
