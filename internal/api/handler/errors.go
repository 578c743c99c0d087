package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperr "oragh/backend/pkg/errors"
	"oragh/backend/pkg/response"
)

// statusOf maps an error kind to its HTTP status.
var statusOf = map[apperr.Kind]int{
	apperr.KindValidation:    http.StatusBadRequest,
	apperr.KindStateConflict: http.StatusBadRequest,
	apperr.KindUnauthorized:  http.StatusUnauthorized,
	apperr.KindPermission:    http.StatusForbidden,
	apperr.KindNotFound:      http.StatusNotFound,
}

// respondError writes the envelope for err. Business errors keep their code
// and message; anything else is recorded on the context for the request
// logger and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperr.As(err); ok {
		status, known := statusOf[appErr.Kind]
		if !known {
			status = http.StatusBadRequest
		}
		if len(appErr.Fields) > 0 {
			response.ErrorWithFields(c, status, appErr.Code, appErr.Message, appErr.Fields)
			return
		}
		response.Error(c, status, appErr.Code, appErr.Message)
		return
	}
	_ = c.Error(err)
	response.InternalError(c)
}

// respondBindError answers a request whose body or query failed binding.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = validationMessage(fe)
		}
		response.ErrorWithFields(c, http.StatusBadRequest, 10001, "Validation failed", fields)
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body too large")
		return
	}
	response.BadRequest(c, 10001, "Malformed request")
}

// fieldPath drops the top level struct name from the namespace:
// "MarkAttendanceRequest.attendances[0].present" becomes "attendances[0].present".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return "Too short or too small (min " + fe.Param() + ")"
	case "max":
		return "Too long or too large (max " + fe.Param() + ")"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "instrument":
		return "Unknown instrument"
	case "event_type":
		return "Must be concert, rehearsal or soundcheck"
	case "attendance_value":
		return "Must be 0.0, 0.5 or 1.0"
	default:
		return "Invalid value"
	}
}
