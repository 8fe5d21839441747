package api

import (
	"net/http"

	"autoservice-workflow/internal/domain/notification"
	reqdto "autoservice-workflow/internal/handler/dto/request"
	resdto "autoservice-workflow/internal/handler/dto/response"
	"autoservice-workflow/internal/handler/httperr"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	cmds commands.NotificationCommands
	q    queries.NotificationQueries
}

func NewNotificationHandler(cmds commands.NotificationCommands, q queries.NotificationQueries) *NotificationHandler {
	return &NotificationHandler{cmds: cmds, q: q}
}

// @Summary List notifications
// @Description List a recipient's notifications, newest first
// @Tags notifications
// @Produce json
// @Param recipient_kind query string true "CUSTOMER or SERVICE_CENTER"
// @Param recipient_id query string true "Recipient ID"
// @Param limit query int false "Max items (default 50, max 200)"
// @Success 200 {array} resdto.NotificationResponse
// @Failure 400 {object} httperr.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var q reqdto.ListNotificationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	kind, err := notification.ParseRecipientKind(q.RecipientKind)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	recipientID, err := uuid.Parse(q.RecipientID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid recipient_id", nil)
		return
	}
	views, err := h.q.ListForRecipient(c.Request.Context(), kind, recipientID, queries.ValidateLimit(q.Limit))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	res, err := resdto.FromNotificationViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Mark notification read
// @Tags notifications
// @Accept json
// @Param id path string true "Notification ID"
// @Param request body reqdto.MarkReadRequest true "Mark read request"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	kind, err := notification.ParseRecipientKind(req.RecipientKind)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	if err = h.cmds.MarkRead(c.Request.Context(), kind, id); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Mark all notifications read
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body reqdto.MarkAllReadRequest true "Mark all read request"
// @Success 200 {object} resdto.MarkAllReadResponse
// @Failure 400 {object} httperr.Response
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	var req reqdto.MarkAllReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	kind, err := notification.ParseRecipientKind(req.RecipientKind)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	updated, err := h.cmds.MarkAllRead(c.Request.Context(), kind, req.RecipientID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.MarkAllReadResponse{Updated: updated})
}
