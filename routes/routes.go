package routes

import (
	"event-guard/config"
	"event-guard/controllers/admin"
	"event-guard/controllers/auth"
	eventController "event-guard/controllers/event"
	registrationController "event-guard/controllers/registration"
	"event-guard/controllers/upload"
	userController "event-guard/controllers/user"
	"event-guard/logger"
	"event-guard/middleware"
	userModel "event-guard/models/user"
	otpService "event-guard/services/otp"
	"event-guard/services/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config, mailer otpService.Mailer) {
	tokens := token.NewService(cfg)
	otpSvc := otpService.NewService(db, mailer, cfg)
	asyncLogger := logger.NewAsyncLogger(db)
	listingCache := eventController.NewListingCache(db, rdb)

	authC := auth.NewAuthController(db, cfg, tokens, otpSvc, asyncLogger)
	userC := userController.NewUserController(db)
	eventC := eventController.NewEventController(db, listingCache)
	regC := registrationController.NewRegistrationController(db)
	adminC := admin.NewAdminController(db)
	uploadC := upload.NewUploadController(cfg)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Keep the public event listing warm
	go listingCache.Run()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Auth Routes (public)
	===============================================================================*/
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authC.Register)
	authGroup.Post("/login", authC.Login)
	authGroup.Post("/otp/request", authC.RequestOTP)
	authGroup.Get("/otp/status", authC.OTPStatus)
	authGroup.Post("/otp/verify", authC.VerifyOTP)
	authGroup.Post("/password/reset/request", authC.PasswordResetRequest)
	authGroup.Post("/password/reset/confirm", authC.PasswordResetConfirm)
	authGroup.Post("/logout", middleware.RequireAuth(tokens), authC.LogOut)

	/*=============================================================================
	| Profile Routes
	===============================================================================*/
	userGroup := api.Group("/user").Use(middleware.RequireAuth(tokens))
	userGroup.Get("/me", userC.Me)
	userGroup.Put("/me", userC.UpdateMe)

	/*=============================================================================
	| Event Routes
	===============================================================================*/
	eventGroup := api.Group("/events")
	eventGroup.Get("/", eventC.Index)
	eventGroup.Get("/organizer", middleware.RequireRoles(tokens,
		userModel.RoleAdmin, userModel.RoleOrganizer,
	), eventC.OrganizerIndex)
	eventGroup.Get("/:id", eventC.Show)

	eventGroup.Post("/", middleware.RequireRoles(tokens,
		userModel.RoleAdmin, userModel.RoleOrganizer,
	), eventC.Store)
	eventGroup.Put("/:id", middleware.RequireRoles(tokens,
		userModel.RoleAdmin, userModel.RoleOrganizer,
	), eventC.Update)
	eventGroup.Delete("/:id", middleware.RequireRoles(tokens,
		userModel.RoleAdmin, userModel.RoleOrganizer,
	), eventC.Destroy)

	/*=============================================================================
	| Participant Routes
	===============================================================================*/
	participantGroup := api.Group("/participants").Use(middleware.RequireRoles(tokens,
		userModel.RoleParticipant,
	))
	participantGroup.Post("/:eventId/join", regC.Join)
	participantGroup.Post("/:eventId/leave", regC.Leave)

	/*=============================================================================
	| Registration Listings
	===============================================================================*/
	registrationGroup := api.Group("/registrations")
	registrationGroup.Get("/organizer", middleware.RequireRoles(tokens,
		userModel.RoleAdmin, userModel.RoleOrganizer,
	), regC.OrganizerIndex)
	registrationGroup.Get("/participant", middleware.RequireRoles(tokens,
		userModel.RoleParticipant,
	), regC.ParticipantIndex)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	adminGroup := api.Group("/admin").Use(middleware.RequireRoles(tokens, userModel.RoleAdmin))
	adminGroup.Get("/users", adminC.Users)
	adminGroup.Get("/events", adminC.Events)
	adminGroup.Get("/registrations", adminC.Registrations)

	/*=============================================================================
	| Uploads
	===============================================================================*/
	api.Post("/uploads", middleware.RequireAuth(tokens), uploadC.Store)
	app.Static("/uploads", cfg.UploadDir)
}
