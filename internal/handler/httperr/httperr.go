package httperr

import (
	"net/http"

	"autoservice-workflow/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	kind   error
	status int
	msg    string
}

// first match wins
var taxonomy = []mapping{
	{errs.ErrValidation, http.StatusBadRequest, "Invalid request"},
	{errs.ErrNotFound, http.StatusNotFound, "Not found"},
	{errs.ErrInvalidTransition, http.StatusConflict, "Invalid status transition"},
	{errs.ErrInvalidMechanic, http.StatusUnprocessableEntity, "Invalid mechanic"},
	{errs.ErrConflict, http.StatusConflict, "Conflict"},
	{errs.ErrTimeout, http.StatusServiceUnavailable, "Request timed out"},
	{errs.ErrTransactionFailure, http.StatusInternalServerError, "Internal error"},
}

// Status resolves the HTTP status and public message for a usecase error.
func Status(err error) (int, string) {
	for _, m := range taxonomy {
		if errs.Is(err, m.kind) {
			return m.status, m.msg
		}
	}
	return http.StatusInternalServerError, "Internal error"
}

// AbortWithDomainError aborts with the status the error taxonomy assigns. Client errors carry
// the domain message as detail.
func AbortWithDomainError(c *gin.Context, err error) {
	status, msg := Status(err)
	var detail any
	if status < http.StatusInternalServerError {
		detail = err.Error()
	}
	AbortWithError(c, status, err, msg, detail)
}
