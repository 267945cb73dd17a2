package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"example.com/campusdrop/internal/service"
)

// respondError maps a domain error to an HTTP status and a message
// body. Internal failures are logged and surfaced generically.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong!"})
		return
	}

	body := gin.H{"message": service.MessageOf(err)}
	var svcErr *service.Error
	if errors.As(err, &svcErr) && svcErr.Field != "" {
		body["field"] = svcErr.Field
		body["value"] = svcErr.Value
	}

	c.JSON(statusFor(kind), body)
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindConflict:
		return http.StatusConflict
	case service.KindPrecondition:
		return http.StatusPreconditionFailed
	case service.KindExpired:
		return http.StatusGone
	case service.KindNotification:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
