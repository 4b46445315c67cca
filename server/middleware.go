package server

import (
	"errors"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"github.com/techagentng/civicsafety/server/response"
	"github.com/techagentng/civicsafety/services/jwt"
	"gorm.io/gorm"
)

// Authorize validates the bearer token and loads the user onto the
// context for downstream handlers.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}

		var userID uint
		switch v := accessClaims["id"].(type) {
		case float64:
			userID = uint(v)
		default:
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("invalid token claims", http.StatusUnauthorized))
			return
		}

		user, err := s.AuthRepository.FindUserByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
				return
			}
			respondAndAbort(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		c.Set("user", user)
		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuthorize loads the user when a valid token is present but
// lets anonymous requests through. Public reads use it so moderators
// get the unfiltered view on the same routes.
func (s *Server) OptionalAuthorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			c.Next()
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			c.Next()
			return
		}
		if v, ok := accessClaims["id"].(float64); ok {
			if user, err := s.AuthRepository.FindUserByID(uint(v)); err == nil {
				c.Set("user", user)
				c.Set("userID", user.ID)
			}
		}
		c.Next()
	}
}

// currentUser returns the authenticated user set by Authorize, or nil
// on anonymous requests.
func currentUser(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// limitAuthRoutes rate limits signup/login per client IP.
func limitAuthRoutes(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler:   errs.ErrorHandler,
		KeyFunc:        keyFunc,
		BeforeResponse: nil,
	})
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func newAuthRateLimitStore() ratelimit.Store {
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 20,
	})
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 8 {
		return authHeader[7:]
	}
	return ""
}
