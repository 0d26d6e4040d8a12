package apperrors

import (
	"errors"
	"reflect"
	"strings"

	"shelterconnect/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterJSONTagNames makes gin's validator report JSON field names instead of Go ones.
func RegisterJSONTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Respond writes err as {"message": ...} with the matching status code. Internal causes are
// logged and never sent to the client.
func Respond(c *gin.Context, err error) {
	appErr := As(err)
	status := appErr.StatusCode()
	if appErr.Kind == KindInternal {
		logger.CtxError(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, gin.H{"message": "Internal server error"})
		return
	}
	body := gin.H{"message": appErr.Message}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.AbortWithStatusJSON(status, body)
}

// FromBinding converts a gin binding error into a ValidationError naming the first bad field.
func FromBinding(err error) *AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := jsonFieldName(fe)
		switch fe.Tag() {
		case "required":
			return Validation(field, field+" is required")
		case "oneof":
			return Validation(field, "Invalid "+field+". Must be one of: "+strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			return Validation(field, "Invalid "+field)
		}
	}
	return Validation("", "Invalid request body")
}

// jsonFieldName turns "Title" into "title" and "DueDate" into "due_date" when the
// validator was not configured with a tag-name func.
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" || strings.ToLower(name[:1]) == name[:1] {
		return name
	}
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
