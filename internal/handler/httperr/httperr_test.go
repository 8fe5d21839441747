//go:build unit

package httperr_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/domain/mechanic"
	"autoservice-workflow/internal/handler/httperr"
	"autoservice-workflow/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", appointment.ErrMissingServiceType, http.StatusBadRequest, "Invalid request"},
		{"not found", errs.Wrap(errs.ErrNotFound, "appointment not found"), http.StatusNotFound, "Not found"},
		{"invoice of another appointment", invoice.ErrInvoiceMismatch, http.StatusNotFound, "Not found"},
		{"invalid transition", appointment.ErrTransitionNotAllowed, http.StatusConflict, "Invalid status transition"},
		{"missing triage", appointment.ErrTriageMissing, http.StatusConflict, "Invalid status transition"},
		{"invalid mechanic", mechanic.ErrWrongCenter, http.StatusUnprocessableEntity, "Invalid mechanic"},
		{"busy mechanic", mechanic.ErrBusy, http.StatusConflict, "Conflict"},
		{"already paid", errs.Wrap(invoice.ErrAlreadyPaid, "record payment"), http.StatusConflict, "Conflict"},
		{"timeout", errs.Mark(errors.New("context deadline exceeded"), errs.ErrTimeout), http.StatusServiceUnavailable, "Request timed out"},
		{"transaction failure", errs.Mark(errors.New("commit"), errs.ErrTransactionFailure), http.StatusInternalServerError, "Internal error"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "Internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := httperr.Status(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, msg)
		})
	}
}

func TestAbortWithDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	decode := func(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	t.Run("client errors carry the detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		httperr.AbortWithDomainError(c, mechanic.ErrInactive)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.True(t, c.IsAborted())
		require.Len(t, c.Errors, 1)
		body := decode(t, w)
		assert.Equal(t, "Invalid mechanic", body["error"].(map[string]any)["message"])
		assert.Contains(t, body["detail"], "mechanic is not active")
	})

	t.Run("recorded error is public and keeps the response", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		httperr.AbortWithDomainError(c, mechanic.ErrBusy)

		last := c.Errors.Last()
		require.NotNil(t, last)
		assert.True(t, last.IsType(gin.ErrorTypePublic))
		assert.True(t, errs.Is(last.Err, mechanic.ErrBusy))
		resp, ok := last.Meta.(httperr.Response)
		require.True(t, ok, "meta should carry the rendered response")
		assert.Equal(t, http.StatusConflict, resp.Status)
		assert.Equal(t, "Conflict", resp.Error.Message)
	})

	t.Run("server errors hide the cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		httperr.AbortWithDomainError(c, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.NotContains(t, body, "detail")
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("nil error panics", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Panics(t, func() { httperr.AbortWithError(c, http.StatusBadRequest, nil, "Invalid request", nil) })
	})
}
