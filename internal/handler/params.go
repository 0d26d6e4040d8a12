package handler

import (
	"strconv"
	"strings"
	"time"

	"shelterconnect/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body into dst, converting binding failures to ValidationErrors.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apperrors.Respond(c, apperrors.FromBinding(err))
		return false
	}
	return true
}

func parseID(field, raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation(field, "Invalid "+field)
	}
	return uint(id), nil
}

// queryInt reads an integer query param; range checks happen in services.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation(name, name+" must be a positive integer")
	}
	return n, nil
}

// endOfDay widens a bare YYYY-MM-DD upper bound to cover the whole day.
func endOfDay(raw string, t *time.Time) *time.Time {
	if t == nil || len(strings.TrimSpace(raw)) != len("2006-01-02") {
		return t
	}
	end := t.Add(24*time.Hour - time.Nanosecond)
	return &end
}
