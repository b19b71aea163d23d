package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/models"
)

const actorKey = "actor"

// Claims is the access token payload.
type Claims struct {
	UserID   string `json:"userId"`
	IsAdmin  bool   `json:"isAdmin"`
	Name     string `json:"name"`
	FullName string `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an access token for user.
func IssueToken(secret string, ttl time.Duration, user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID:   user.ID.Hex(),
		IsAdmin:  user.IsAdmin,
		Name:     user.Username,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID.Hex(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

var errInvalidToken = errors.New("invalid token")

func parseBearer(header, secret string) (models.Actor, error) {
	parts := strings.Split(strings.TrimSpace(header), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return models.Actor{}, errInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}, errInvalidToken
	}
	if _, err := primitive.ObjectIDFromHex(claims.UserID); err != nil {
		return models.Actor{}, errors.New("invalid userId claim")
	}

	return models.Actor{
		UserID:      models.UserRef(claims.UserID),
		IsAdmin:     claims.IsAdmin,
		DisplayName: claims.Name,
		FullName:    claims.FullName,
	}, nil
}

// Authenticate requires a valid bearer token and stores the caller's actor.
func Authenticate(secret string, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		actor, err := parseBearer(raw, secret)
		if err != nil {
			log.WithField("path", c.FullPath()).WithError(err).Warn("token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth attaches an actor when a valid token is sent and otherwise
// lets the request through anonymously.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := strings.TrimSpace(c.GetHeader("Authorization")); raw != "" {
			if actor, err := parseBearer(raw, secret); err == nil {
				c.Set(actorKey, actor)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the request actor, or the anonymous actor.
func ActorFrom(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}

// SetActor attaches actor to the request context.
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}
