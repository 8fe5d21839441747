package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"autoservice-workflow/internal/handler/api"
	"autoservice-workflow/internal/handler/middleware"
	"autoservice-workflow/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// RealtimeEndpoint upgrades subscribers of the real-time notification topics.
type RealtimeEndpoint interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	Appointments  *api.AppointmentHandler
	Billing       *api.BillingHandler
	Notifications *api.NotificationHandler
	Realtime      RealtimeEndpoint
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if h.Realtime != nil {
		engine.GET("/ws", gin.WrapF(h.Realtime.ServeWS))
	}

	apiGroup := engine.Group("/api")
	{
		appointments := apiGroup.Group("/appointments")
		{
			addRoutes(appointments, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Appointments.Create},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Appointments.Get},
				{Method: http.MethodPost, Path: "/:id/status", Handler: h.Appointments.Transition},
				{Method: http.MethodPost, Path: "/:id/mechanics", Handler: h.Appointments.AssignMechanic},
				{Method: http.MethodPost, Path: "/:id/invoice", Handler: h.Billing.CreateInvoice},
				{Method: http.MethodPost, Path: "/:id/payments", Handler: h.Billing.RecordPayment},
			})
		}

		notifications := apiGroup.Group("/notifications")
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Notifications.List},
				{Method: http.MethodPost, Path: "/read-all", Handler: h.Notifications.MarkAllRead},
				{Method: http.MethodPost, Path: "/:id/read", Handler: h.Notifications.MarkRead},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
