package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	"github.com/GHanamaAhmed/cancer-detection/internal/config"
	"github.com/GHanamaAhmed/cancer-detection/internal/handlers"
	infraRepo "github.com/GHanamaAhmed/cancer-detection/internal/infra/repository"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
	ucAppointment "github.com/GHanamaAhmed/cancer-detection/internal/usecase/appointment"
	ucLesion "github.com/GHanamaAhmed/cancer-detection/internal/usecase/lesion"
)

// Deps are the process singletons built in main. Optional integrations are
// nil when not configured.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Audit    *audit.Dispatcher
	Notifier *notify.Service
	Limiter  middleware.Limiter

	Reminders ucAppointment.ReminderScheduler
	Checkout  ucAppointment.Checkout
	Tokens    ucAppointment.TokenIssuer

	Store    ucLesion.ObjectStore
	Analyzer ucLesion.Analyzer

	Geocoder   handlers.Geocoder
	Subscriber handlers.Subscriber
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db, cfg := d.DB, d.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.AccessLog(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	lesionRepo := infraRepo.NewLesionGormRepository(db)
	careTeam := infraRepo.NewCareTeam(db)

	settings := ucAppointment.Settings{
		SlotMinutes:          cfg.SlotMinutes,
		SameDayBufferMinutes: cfg.SameDayBufferMinutes,
		WindowDays:           cfg.AvailabilityWindowDays,
		DefaultTimezone:      cfg.DefaultTimezone,
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	facilityHandler := handlers.NewFacilityHandler(db, d.Geocoder, d.Log)
	rulesHandler := handlers.NewAvailabilityRulesHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	connectionHandler := handlers.NewConnectionHandler(db, d.Audit, d.Notifier)
	chatHandler := handlers.NewChatHandler(db, careTeam, d.Notifier)
	deviceHandler := handlers.NewDeviceHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	eventsHandler := handlers.NewEventsHandler(d.Subscriber, d.Log)

	appointmentHandler := handlers.NewAppointmentHandler(handlers.AppointmentDeps{
		Repo:      appointmentRepo,
		Audit:     d.Audit,
		Notifier:  d.Notifier,
		Reminders: d.Reminders,
		Checkout:  d.Checkout,
		Tokens:    d.Tokens,
		Settings:  settings,
		Log:       d.Log,
	})

	var lesionHandler *handlers.LesionHandler
	if d.Store != nil {
		lesionHandler = handlers.NewLesionHandler(handlers.LesionDeps{
			Repo:     lesionRepo,
			Store:    d.Store,
			Analyzer: d.Analyzer,
			Notifier: d.Notifier,
			Audit:    d.Audit,
			Log:      d.Log,
		})
	}

	doctorOnly := middleware.RequireRole(models.RoleDoctor)
	patientOnly := middleware.RequireRole(models.RolePatient)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	if d.Limiter != nil {
		api.Use(middleware.RateLimit(d.Limiter, d.Log))
	}

	// ------------------------------
	// PUBLIC
	// ------------------------------
	public := func(g *gin.RouterGroup) {
		g.POST("/auth/register", authHandler.Register)
		g.POST("/auth/login", authHandler.Login)

		g.GET("/doctors", doctorHandler.List)
		g.GET("/doctors/:id", doctorHandler.Get)
		g.GET("/doctors/:id/services", serviceHandler.ListForDoctor)
		g.GET("/doctors/:id/availability", appointmentHandler.DoctorAvailability)
	}

	// ------------------------------
	// AUTHENTICATED
	// ------------------------------
	mount := func(g *gin.RouterGroup) {
		g.Use(middleware.AuthMiddleware(cfg))

		g.GET("/me", meHandler.GetMe)
		g.PATCH("/me", meHandler.UpdateMe)
		g.POST("/me/devices", deviceHandler.Register)
		g.DELETE("/me/devices/:token", deviceHandler.Unregister)
		g.GET("/me/audit-logs", auditLogsHandler.List)
		g.GET("/me/events", eventsHandler.Stream)

		// doctor setup
		g.GET("/me/facility", doctorOnly, facilityHandler.GetMeFacility)
		g.PATCH("/me/facility", doctorOnly, facilityHandler.UpdateMeFacility)
		g.GET("/me/availability-rules", doctorOnly, rulesHandler.Get)
		g.PUT("/me/availability-rules", doctorOnly, rulesHandler.Update)
		g.GET("/me/services", doctorOnly, serviceHandler.List)
		g.POST("/me/services", doctorOnly, serviceHandler.Create)
		g.PATCH("/me/services/:id", doctorOnly, serviceHandler.Update)
		g.GET("/me/availability", doctorOnly, appointmentHandler.MyAvailability)

		// appointments
		g.POST("/doctors/:id/appointments", patientOnly, appointmentHandler.Create)
		g.GET("/me/appointments", appointmentHandler.ListByDate)
		g.GET("/me/appointments/month", appointmentHandler.ListByMonth)
		g.GET("/me/appointments/:id", appointmentHandler.Get)
		g.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
		g.PATCH("/me/appointments/:id/confirm", doctorOnly, appointmentHandler.Confirm)
		g.PATCH("/me/appointments/:id/reject", doctorOnly, appointmentHandler.Reject)
		g.PATCH("/me/appointments/:id/complete", doctorOnly, appointmentHandler.Complete)
		g.POST("/appointments/:id/video-token", appointmentHandler.VideoToken)

		// care team
		g.POST("/doctors/:id/connections", patientOnly, connectionHandler.Request)
		g.GET("/me/connections", connectionHandler.List)
		g.PATCH("/me/connections/:id/accept", doctorOnly, connectionHandler.Accept)
		g.PATCH("/me/connections/:id/reject", doctorOnly, connectionHandler.Reject)

		g.POST("/conversations/:userId/messages", chatHandler.Send)
		g.GET("/conversations/:userId/messages", chatHandler.List)

		// lesions
		if lesionHandler != nil {
			g.POST("/me/lesions", patientOnly, lesionHandler.Upload)
			g.GET("/me/lesions", patientOnly, lesionHandler.ListMine)
			g.POST("/me/lesions/:id/analyze", patientOnly, lesionHandler.Analyze)
			g.GET("/lesions/:id", lesionHandler.Get)
			g.GET("/patients/:id/lesions", doctorOnly, lesionHandler.ListForPatient)
		}
	}

	public(api)
	mount(api.Group(""))

	mobile := api.Group("/mobile/v1")
	public(mobile)
	mount(mobile.Group(""))
}
