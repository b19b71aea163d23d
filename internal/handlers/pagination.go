package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"outfitstore/internal/apperr"
	"outfitstore/internal/models"
)

// parseWindow reads offset/limit, or page/limit when page is given, plus
// sort and order. A missing limit is left at zero for the service default.
func parseWindow(c *gin.Context) (models.Window, error) {
	var w models.Window

	limit, err := parseNonNegative(c.Query("limit"), "limit")
	if err != nil {
		return w, err
	}
	w.Limit = limit

	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || page < 1 {
			return w, apperr.Validation("invalid page")
		}
		size := limit
		if size == 0 {
			size = 20
		}
		w.Offset = (page - 1) * size
	} else {
		offset, err := parseNonNegative(c.Query("offset"), "offset")
		if err != nil {
			return w, err
		}
		w.Offset = offset
	}

	w.SortField = strings.TrimSpace(c.Query("sort"))
	switch strings.ToLower(strings.TrimSpace(c.Query("order"))) {
	case "", "desc":
		w.SortDir = models.SortDesc
	case "asc":
		w.SortDir = models.SortAsc
	default:
		return w, apperr.Validation("order must be asc or desc")
	}
	return w, nil
}

func parseNonNegative(raw, name string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return v, nil
}

// parseOptionalBool returns nil for an empty value.
func parseOptionalBool(raw, name string) (*bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := parseBoolValue(raw)
	if err != nil {
		return nil, apperr.Validation("invalid %s", name)
	}
	return &v, nil
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" {
		return true, nil
	}
	return strconv.ParseBool(value)
}

// parseDate accepts RFC3339 or a plain date.
func parseDate(raw, name string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Validation("invalid %s date", name)
}
