//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/handler/api"
	resdto "autoservice-workflow/internal/handler/dto/response"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/tests/common/builder"
	"autoservice-workflow/tests/common/httptest"
	"autoservice-workflow/tests/common/testutil"
	commandsmock "autoservice-workflow/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BillingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBillingCommands
	handler      *api.BillingHandler
}

func (s *BillingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBillingCommands(s.mockCtrl)
	s.handler = api.NewBillingHandler(s.mockCommands)

	s.router.POST("/appointments/:id/invoice", s.handler.CreateInvoice)
	s.router.POST("/appointments/:id/payments", s.handler.RecordPayment)
}

func (s *BillingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBillingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BillingHandlerTestSuite))
}

// ================================================================================
// TestCreateInvoice
// ================================================================================

func (s *BillingHandlerTestSuite) TestCreateInvoice() {
	appointmentID := uuid.New()
	url := "/appointments/" + appointmentID.String() + "/invoice"
	reqBody := map[string]any{"total_amount_cents": 125050}

	inv, err := builder.NewInvoiceBuilder().With(func(b *builder.InvoiceBuilder) {
		b.AppointmentID = appointmentID
		b.Sequence = 12
	}).BuildDomain()
	s.Require().NoError(err)

	s.Run("success: returns 201 Created with the invoice number", func() {
		s.mockCommands.EXPECT().CreateInvoice(gomock.Any(), appointmentID, int64(125050)).Return(inv, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var res resdto.InvoiceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal(inv.ID, res.ID)
		s.Equal(appointmentID, res.AppointmentID)
		s.Equal("INV-000012", res.Number)
		s.Equal(int64(12), res.Sequence)
		s.Equal(int64(125050), res.TotalCents)
		s.Equal("1250.50", res.TotalAmountText)
		s.Equal("SENT", res.Status)
		s.True(inv.DueDate.Equal(res.DueDate))
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseAppointment{
			{name: "zero total", mutate: testutil.Field("total_amount_cents", 0), expectCode: http.StatusBadRequest},
			{name: "negative total", mutate: testutil.Field("total_amount_cents", -5), expectCode: http.StatusBadRequest},
			{name: "missing total", mutate: testutil.Field("total_amount_cents", nil), expectCode: http.StatusBadRequest},
			{name: "fractional total", mutate: testutil.Field("total_amount_cents", 10.5), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, tc.mutate), "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
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
			{"already invoiced", invoice.ErrAlreadyInvoiced, http.StatusConflict, "Conflict"},
			{"appointment not found", errs.Wrap(errs.ErrNotFound, "appointment not found"), http.StatusNotFound, "Not found"},
			{"sequence exhausted", errs.Mark(errs.New("serialization failure"), errs.ErrTransactionFailure), http.StatusInternalServerError, "Internal error"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateInvoice(gomock.Any(), appointmentID, int64(125050)).Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/appointments/nope/invoice", reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})
}

// ================================================================================
// TestRecordPayment
// ================================================================================

func (s *BillingHandlerTestSuite) TestRecordPayment() {
	appointmentID := uuid.New()
	invoiceID := uuid.New()
	url := "/appointments/" + appointmentID.String() + "/payments"
	reqBody := map[string]any{"invoice_id": invoiceID, "amount_cents": 125050, "method": "UPI"}
	paidAt := time.Date(2025, 3, 13, 11, 0, 0, 0, time.UTC)

	s.Run("success: returns 201 Created with the transaction", func() {
		payment := &invoice.Payment{
			ID:            uuid.New(),
			AppointmentID: appointmentID,
			InvoiceID:     invoiceID,
			Amount:        invoice.MoneyFromCents(125050),
			Method:        invoice.MethodUPI,
			TransactionID: uuid.New(),
			Status:        invoice.PaymentSuccess,
			PaidAt:        paidAt,
		}
		want := commands.RecordPaymentRequest{AppointmentID: appointmentID, InvoiceID: invoiceID, AmountCents: 125050, Method: "UPI"}
		s.mockCommands.EXPECT().RecordPayment(gomock.Any(), want).Return(payment, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var res resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal(payment.TransactionID, res.TransactionID)
		s.Equal(int64(125050), res.AmountCents)
		s.Equal(string(invoice.MethodUPI), res.Method)
		s.Equal(string(invoice.PaymentSuccess), res.Status)
		s.True(paidAt.Equal(res.PaidAt))
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseAppointment{
			{name: "missing invoice_id", mutate: testutil.Field("invoice_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing method", mutate: testutil.Field("method", nil), expectCode: http.StatusBadRequest},
			{name: "zero amount", mutate: testutil.Field("amount_cents", 0), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, tc.mutate), "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
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
			{"unsupported method", invoice.ErrInvalidMethod, http.StatusBadRequest, "Invalid request"},
			{"partial amount", invoice.ErrAmountMismatch, http.StatusBadRequest, "Invalid request"},
			{"invoice of another appointment", invoice.ErrInvoiceMismatch, http.StatusNotFound, "Not found"},
			{"already paid", invoice.ErrAlreadyPaid, http.StatusConflict, "Conflict"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().RecordPayment(gomock.Any(), gomock.Any()).Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
