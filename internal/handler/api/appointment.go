package api

import (
	"net/http"

	reqdto "autoservice-workflow/internal/handler/dto/request"
	resdto "autoservice-workflow/internal/handler/dto/response"
	"autoservice-workflow/internal/handler/httperr"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	cmds commands.WorkflowCommands
	q    queries.AppointmentQueries
}

func NewAppointmentHandler(cmds commands.WorkflowCommands, q queries.AppointmentQueries) *AppointmentHandler {
	return &AppointmentHandler{cmds: cmds, q: q}
}

// @Summary Create appointment
// @Description Book a service appointment; it starts in PENDING
// @Tags appointments
// @Accept json
// @Produce json
// @Param request body reqdto.CreateAppointmentRequest true "Create appointment request"
// @Success 201 {object} resdto.AppointmentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req reqdto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	appt, err := h.cmds.CreateAppointment(c.Request.Context(), cmd)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Header("Location", "/api/appointments/"+appt.ID().String())
	h.respondWithView(c, http.StatusCreated, appt.ID())
}

// @Summary Get appointment
// @Description Get an appointment with its triage history, active assignments and invoice
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	h.respondWithView(c, http.StatusOK, id)
}

// @Summary Change appointment status
// @Description Apply a status transition and its side effects atomically
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body reqdto.TransitionRequest true "Transition request"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id}/status [post]
func (h *AppointmentHandler) Transition(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	if _, err = h.cmds.ApplyTransition(c.Request.Context(), id, cmd); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	h.respondWithView(c, http.StatusOK, id)
}

// @Summary Assign mechanic
// @Description Assign a mechanic of the appointment's service center
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body reqdto.AssignMechanicRequest true "Assign mechanic request"
// @Success 201 {object} resdto.AssignmentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /appointments/{id}/mechanics [post]
func (h *AppointmentHandler) AssignMechanic(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.AssignMechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	assignment, err := h.cmds.AssignMechanic(c.Request.Context(), id, req.MechanicID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	res, err := resdto.FromAssignment(assignment)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AppointmentHandler) respondWithView(c *gin.Context, status int, id uuid.UUID) {
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	res, err := resdto.FromAppointmentView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(status, res)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
