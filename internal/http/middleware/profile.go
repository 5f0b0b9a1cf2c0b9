package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/marketpay/internal/model"
)

// ProfileResolver looks up the profile behind a caller's credentials.
type ProfileResolver interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

// Profile resolves the profile_id request header into a principal. Any
// failure is a bare 401 so the header cannot be used to probe which
// profile ids exist.
func Profile(profiles ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("profile_id")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing profile_id header"})
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		profile, err := profiles.GetProfile(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(principalKey, model.Principal{
			ProfileID: profile.ID,
			Role:      string(profile.Role),
		})
		c.Next()
	}
}
