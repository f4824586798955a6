package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindMessages maps struct field -> validator tag -> client message.
type bindMessages map[string]map[string]string

// bindJSON decodes the body into req. Oversized bodies get 413, everything
// else 400 with the first message found for a failing field.
func bindJSON(c *gin.Context, req any, messages bindMessages, fallback string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(c, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	writeError(c, http.StatusBadRequest, messages.lookup(err, fallback))
	return false
}

// bindURI treats any malformed path parameter as a missing resource.
func bindURI(c *gin.Context, req any) bool {
	if err := c.ShouldBindUri(req); err != nil {
		writeError(c, http.StatusNotFound, "not found")
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid query")
		return false
	}
	return true
}

func (m bindMessages) lookup(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if msg, ok := m[verr.Field()][verr.Tag()]; ok {
				return msg
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "invalid request"
}
