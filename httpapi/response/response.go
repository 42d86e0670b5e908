// Package response holds the gin response envelope shared by every route
// in httpapi, grounded on the teacher's delivery/rest/response package.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppError is an error that knows its own HTTP status and machine-readable
// code.
type AppError interface {
	error
	Code() string
	HTTPStatus() int
}

// HTTPError is the concrete AppError used by handlers that need to pick a
// status explicitly.
type HTTPError struct {
	code       string
	message    string
	httpStatus int
}

// NewError builds an HTTPError.
func NewError(code, message string, httpStatus int) *HTTPError {
	return &HTTPError{code: code, message: message, httpStatus: httpStatus}
}

func (e *HTTPError) Error() string    { return e.message }
func (e *HTTPError) Code() string     { return e.code }
func (e *HTTPError) HTTPStatus() int  { return e.httpStatus }

var (
	ErrBadRequest = &HTTPError{"bad_request", "bad request", http.StatusBadRequest}
	ErrNotFound   = &HTTPError{"not_found", "resource not found", http.StatusNotFound}
	ErrInternal   = &HTTPError{"internal_error", "internal server error", http.StatusInternalServerError}
)

// OK sends a 200 with data as the JSON body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 with data as the JSON body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204.
func NoContent(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}

// Error logs err and writes the matching status/code/message. Errors that
// don't implement AppError are treated as internal.
func Error(c *gin.Context, log *zap.Logger, err error) {
	var httpErr AppError
	if e, ok := err.(AppError); ok {
		httpErr = e
	} else {
		httpErr = &HTTPError{code: "internal_error", message: err.Error(), httpStatus: http.StatusInternalServerError}
	}

	log.Error("request failed",
		zap.String("code", httpErr.Code()),
		zap.String("path", c.Request.URL.Path),
		zap.Error(httpErr),
	)

	c.JSON(httpErr.HTTPStatus(), gin.H{
		"error":   httpErr.Code(),
		"message": httpErr.Error(),
	})
}

// ErrorWithMessage writes a bespoke error body without needing an AppError.
func ErrorWithMessage(c *gin.Context, log *zap.Logger, httpStatus int, code, message string) {
	log.Warn("request rejected",
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path),
		zap.String("message", message),
	)
	c.JSON(httpStatus, gin.H{"error": code, "message": message})
}
