//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/domain/mechanic"
	"autoservice-workflow/internal/handler/api"
	resdto "autoservice-workflow/internal/handler/dto/response"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/internal/usecase/queries"
	"autoservice-workflow/tests/common/builder"
	"autoservice-workflow/tests/common/httptest"
	"autoservice-workflow/tests/common/testutil"
	commandsmock "autoservice-workflow/tests/mock/commands"
	queriesmock "autoservice-workflow/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AppointmentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockWorkflowCommands
	mockQueries  *queriesmock.MockAppointmentQueries
	handler      *api.AppointmentHandler
}

func (s *AppointmentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockWorkflowCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockAppointmentQueries(s.mockCtrl)
	s.handler = api.NewAppointmentHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/appointments", s.handler.Create)
	s.router.GET("/appointments/:id", s.handler.Get)
	s.router.POST("/appointments/:id/status", s.handler.Transition)
	s.router.POST("/appointments/:id/mechanics", s.handler.AssignMechanic)
}

func (s *AppointmentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAppointmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(AppointmentHandlerTestSuite))
}

type testCaseAppointment struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestCreate() {
	url := "/appointments"

	b := builder.NewAppointmentBuilder()
	reqBody := b.BuildCreateRequestDTO()
	created := b.BuildReconstructed()
	view := b.BuildView()

	s.Run("success: returns 201 Created with the appointment view", func() {
		s.mockCommands.EXPECT().CreateAppointment(gomock.Any(), b.BuildCommand()).Return(created, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var res resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal(b.ID, res.ID)
		s.Equal("PENDING", res.Status)
		s.Equal("MEDIUM", res.Urgency)
		s.Empty(res.Triages)
		s.Nil(res.Invoice)
		httptest.AssertLocation(s.T(), rec, "/api/appointments/"+b.ID.String())
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseAppointment{
			{name: "service type length OK (100 chars)", mutate: testutil.Field("service_type", strings.Repeat("a", 100)), expectCode: http.StatusCreated},
			{name: "service type too long (101 chars)", mutate: testutil.Field("service_type", strings.Repeat("a", 101)), expectCode: http.StatusBadRequest},
			{name: "unknown urgency", mutate: testutil.Field("urgency", "URGENT"), expectCode: http.StatusBadRequest},
			{name: "photo is not a url", mutate: testutil.Field("photos", []string{"not a url"}), expectCode: http.StatusBadRequest},
			{name: "photos are optional", mutate: testutil.Field("photos", nil), expectCode: http.StatusCreated},
			{name: "missing field: customer_id", mutate: testutil.Field("customer_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: vehicle_id", mutate: testutil.Field("vehicle_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: service_center_id", mutate: testutil.Field("service_center_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: service_type", mutate: testutil.Field("service_type", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: sla_deadline", mutate: testutil.Field("sla_deadline", nil), expectCode: http.StatusBadRequest},
			{name: "malformed customer_id", mutate: testutil.Field("customer_id", "123"), expectCode: http.StatusBadRequest},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				if tc.expectCode == http.StatusCreated {
					s.mockCommands.EXPECT().CreateAppointment(gomock.Any(), gomock.Any()).Return(created, nil).Times(1)
					s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(view, nil).Times(1)
				}

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				if tc.expectCode == http.StatusCreated {
					httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
				} else {
					httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
				}
			})
		}
	})

	s.Run("error: 400 Bad Request on malformed JSON", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, `{"customer_id":`, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{"unknown customer", commands.ErrCustomerNotFound, http.StatusNotFound, "Not found"},
			{"vehicle not owned", commands.ErrVehicleNotOwned, http.StatusNotFound, "Not found"},
			{"deadline before request", appointment.ErrDeadlineBeforeStart, http.StatusBadRequest, "Invalid request"},
			{"transaction failure", errs.Mark(errors.New("commit"), errs.ErrTransactionFailure), http.StatusInternalServerError, "Internal error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateAppointment(gomock.Any(), gomock.Any()).Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestGet() {
	high := appointment.PriorityHigh
	b := builder.NewAppointmentBuilder().WithStatus(appointment.StatusApproved).With(func(b *builder.AppointmentBuilder) {
		b.DecidedPriority = &high
	})
	url := "/appointments/" + b.ID.String()

	view := b.BuildView()
	view.Triages = []queries.TriageView{{ID: uuid.New(), DecidedPriority: "HIGH", Source: "MANUAL", Reason: "MANUAL_OVERRIDE", CreatedAt: b.Now}}
	view.ActiveAssignments = []queries.AssignmentView{{ID: uuid.New(), MechanicID: uuid.New(), AssignedAt: b.Now}}
	view.Invoice = &queries.InvoiceView{ID: uuid.New(), Number: "INV-000001", Sequence: 1, TotalCents: 125050, Status: "SENT"}

	s.Run("success: returns 200 OK with the workflow records", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var res resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("APPROVED", res.Status)
		s.Require().NotNil(res.DecidedPriority)
		s.Equal("HIGH", *res.DecidedPriority)
		s.Require().Len(res.Triages, 1)
		s.Equal(view.Triages[0].ID, res.Triages[0].ID)
		s.Require().Len(res.ActiveAssignments, 1)
		s.Equal(view.ActiveAssignments[0].MechanicID, res.ActiveAssignments[0].MechanicID)
		s.Require().NotNil(res.Invoice)
		s.Equal("INV-000001", res.Invoice.Number)
		s.Equal(int64(125050), res.Invoice.TotalCents)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments/invalid-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found for missing appointment", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).
			Return(nil, errs.Wrap(errs.ErrNotFound, "appointment not found")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

// ================================================================================
// TestTransition
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestTransition() {
	b := builder.NewAppointmentBuilder()
	url := "/appointments/" + b.ID.String() + "/status"
	high := appointment.PriorityHigh

	s.Run("success: approves with a priority", func() {
		want := commands.TransitionRequest{Status: appointment.StatusApproved, Priority: &high, Source: appointment.TriageSourceAutomatic, Reason: appointment.TriageReasonAccident}
		s.mockCommands.EXPECT().ApplyTransition(gomock.Any(), b.ID, want).
			Return(b.WithStatus(appointment.StatusApproved).BuildReconstructed(), nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(b.BuildView(), nil).Times(1)

		body := map[string]any{"status": "approved", "priority": "HIGH", "source": "AUTOMATIC", "reason": "ACCIDENT"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var res resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("APPROVED", res.Status)
	})

	s.Run("success: reject needs no priority", func() {
		s.mockCommands.EXPECT().ApplyTransition(gomock.Any(), b.ID, commands.TransitionRequest{Status: appointment.StatusRejected}).
			Return(b.WithStatus(appointment.StatusRejected).BuildReconstructed(), nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(b.BuildView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"status": "REJECTED"}, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request on malformed requests", func() {
		cases := []struct {
			name string
			body map[string]any
		}{
			{"missing status", map[string]any{"priority": "HIGH"}},
			{"unknown status", map[string]any{"status": "SHIPPED"}},
			{"unknown priority", map[string]any{"status": "APPROVED", "priority": "URGENT"}},
			{"unknown source", map[string]any{"status": "APPROVED", "priority": "HIGH", "source": "ROBOT"}},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, tc.body, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{"transition not allowed", appointment.ErrTransitionNotAllowed, http.StatusConflict, "Invalid status transition"},
			{"priority missing", appointment.ErrPriorityRequired, http.StatusConflict, "Invalid status transition"},
			{"appointment not found", errs.Wrap(errs.ErrNotFound, "appointment not found"), http.StatusNotFound, "Not found"},
			{"lock timeout", errs.Mark(errors.New("deadline"), errs.ErrTimeout), http.StatusServiceUnavailable, "Request timed out"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().ApplyTransition(gomock.Any(), b.ID, gomock.Any()).Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"status": "IN_SERVICE"}, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestAssignMechanic
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestAssignMechanic() {
	appointmentID := uuid.New()
	mechanicID := uuid.New()
	url := "/appointments/" + appointmentID.String() + "/mechanics"
	assignedAt := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	s.Run("success: returns 201 Created with the assignment", func() {
		assignment := mechanic.NewAssignment(appointmentID, mechanicID, assignedAt)
		s.mockCommands.EXPECT().AssignMechanic(gomock.Any(), appointmentID, mechanicID).Return(assignment, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"mechanic_id": mechanicID}, "")

		var res resdto.AssignmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal(assignment.ID, res.ID)
		s.Equal(appointmentID, res.AppointmentID)
		s.Equal(mechanicID, res.MechanicID)
		s.True(assignedAt.Equal(res.AssignedAt))
		s.Nil(res.UnassignedAt)
	})

	s.Run("error: 400 Bad Request without mechanic_id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: maps assignment policy errors", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{"mechanic inactive", mechanic.ErrInactive, http.StatusUnprocessableEntity, "Invalid mechanic"},
			{"mechanic of another center", mechanic.ErrWrongCenter, http.StatusUnprocessableEntity, "Invalid mechanic"},
			{"mechanic busy", mechanic.ErrBusy, http.StatusConflict, "Conflict"},
			{"appointment closed", mechanic.ErrNotAssignable, http.StatusConflict, "Conflict"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().AssignMechanic(gomock.Any(), appointmentID, mechanicID).Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"mechanic_id": mechanicID}, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
