package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outfitstore/internal/apperr"
	"outfitstore/internal/middleware"
	"outfitstore/internal/models"
	"outfitstore/internal/services"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
	Gender   string `json:"gender"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer struct {
	Secret string
	TTL    time.Duration
}

func (t TokenIssuer) respond(c *gin.Context, status int, user *models.User) error {
	accessToken, err := middleware.IssueToken(t.Secret, t.TTL, user)
	if err != nil {
		return apperr.Internal("token generation failed", err)
	}
	c.JSON(status, gin.H{
		"accessToken": accessToken,
		"expiresIn":   int64(t.TTL.Seconds()),
		"user":        user,
	})
	return nil
}

func Register(svc *services.UserService, tokens TokenIssuer, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, log, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := svc.Register(ctx, services.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
			Gender:   models.Gender(strings.TrimSpace(req.Gender)),
		})
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		if err := tokens.respond(c, http.StatusCreated, user); err != nil {
			respondError(c, log, route, err)
		}
	}
}

func Login(svc *services.UserService, tokens TokenIssuer, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, log, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := svc.Authenticate(ctx, models.NormalizeEmail(req.Email), req.Password)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		if err := tokens.respond(c, http.StatusOK, user); err != nil {
			respondError(c, log, route, err)
			return
		}
		log.WithField("user", user.ID.Hex()).Info("login succeeded")
	}
}
