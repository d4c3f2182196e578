package response

import (
	"errors"
	"net/http"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/gin-gonic/gin"
)

// CodeInternal is reported for errors that are not DomainErrors.
const CodeInternal = "INTERNAL_ERROR"

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Code       string            `json:"code,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// Pagination describes a page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeUnauthenticated:   http.StatusUnauthorized,
	domain.CodeForbidden:         http.StatusForbidden,
	domain.CodeValidation:        http.StatusBadRequest,
	domain.CodeInvalidTransition: http.StatusConflict,
	domain.CodeStorage:           http.StatusInternalServerError,
	domain.CodeNotFound:          http.StatusNotFound,
	domain.CodeConflict:          http.StatusConflict,
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with a page of items.
func Paginated(c *gin.Context, items any, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Pagination: &Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// BadRequest writes a 400 validation failure with a plain message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Error: message, Code: string(domain.CodeValidation)})
}

// Unauthorized writes a 401 failure.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Envelope{Error: message, Code: string(domain.CodeUnauthenticated)})
}

// Error maps err to an HTTP status and writes the failure envelope.
func Error(c *gin.Context, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, Envelope{Error: de.Message, Code: string(de.Code), Fields: de.Fields})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Envelope{Error: "internal server error", Code: CodeInternal})
}
