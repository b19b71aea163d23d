package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"outfitstore/internal/apperr"
	"outfitstore/internal/middleware"
	"outfitstore/internal/models"
)

const requestTimeout = 5 * time.Second

func handlePanic(c *gin.Context, log logrus.FieldLogger, route string) {
	if r := recover(); r != nil {
		log.WithFields(logrus.Fields{"route": route, "panic": r}).Error("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondError writes err with the status of its kind. Internal causes are
// logged and never sent to the client.
func respondError(c *gin.Context, log logrus.FieldLogger, route string, err error) {
	status := apperr.HTTPStatus(err)
	entry := log.WithFields(logrus.Fields{
		"route":      route,
		"status":     status,
		"request_id": middleware.RequestIDFrom(c),
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.WithField("reason", err.Error()).Debug("request rejected")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error": apperr.PublicMessage(err),
		"kind":  apperr.KindOf(err),
	})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min", "gte":
				details = append(details, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
			case "max", "lte":
				details = append(details, fmt.Sprintf("%s must be at most %s", field, fieldError.Param()))
			case "oneof":
				details = append(details, fmt.Sprintf("%s must be one of %s", field, fieldError.Param()))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"kind":    apperr.KindValidation,
			"details": details,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "invalid body",
		"kind":    apperr.KindValidation,
		"details": err.Error(),
	})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// pathID parses the named path parameter as an ObjectID.
func pathID(c *gin.Context, param, aggregate string) (primitive.ObjectID, error) {
	return models.ParseObjectID(aggregate, c.Param(param))
}
