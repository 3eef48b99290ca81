package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

const (
	msgUpstream = "the payment provider is unavailable, please try again later"
	msgInternal = "an unexpected server error occurred, please try again later"
)

// Envelope is the JSON body shape shared by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// PageMeta describes a page of a paginated listing.
type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 response wrapping data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response wrapping data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with paging metadata.
func Paginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"meta":    PageMeta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: message, Code: "BAD_REQUEST"})
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Success: false, Error: message, Code: "UNAUTHORIZED"})
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, Envelope{Success: false, Error: message, Code: "FORBIDDEN"})
}

// Error maps err to a status code and a caller-safe message. Upstream and
// persistence failures never expose their cause; it is recorded on the gin
// context so the request logger can write it.
func Error(c *gin.Context, err error) {
	status, body := Resolve(err)
	_ = c.Error(err)
	c.JSON(status, body)
}

// Resolve returns the status code and body Error would write for err.
func Resolve(err error) (int, Envelope) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, Envelope{Error: msgInternal, Code: "INTERNAL"}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, Envelope{Error: de.Message, Code: de.Code}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, Envelope{Error: de.Message, Code: de.Code}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, Envelope{Error: de.Message, Code: de.Code}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, Envelope{Error: de.Message, Code: de.Code}
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, Envelope{Error: msgUpstream, Code: de.Code}
	default:
		return http.StatusInternalServerError, Envelope{Error: msgInternal, Code: de.Code}
	}
}
