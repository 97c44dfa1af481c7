package main

import (
	"fmt"
	"time"

	"event-guard/config"
	"event-guard/database"
	"event-guard/httpServices/mailer"
	"event-guard/logger"
	"event-guard/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       50 * 1024 * 1024, // 50MB body limit
	})
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration: " + err.Error())
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to the database: " + err.Error())
	}

	// Redis is optional; the event cache degrades to direct reads without it.
	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		logger.Warning("Redis unavailable, event cache disabled: " + err.Error())
		rdb = nil
	}

	smtpMailer, err := mailer.New(cfg)
	if err != nil {
		logger.Fatal("Invalid mailer configuration: " + err.Error())
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, db, rdb, cfg, smtpMailer)

	logger.Success("Server is running on ip: " + cfg.AppHost + " port: " + cfg.AppPort +
		"\n\t\t\t\t\t\t******************************************************************************************\n")

	if err := app.Listen(cfg.AppHost + ":" + cfg.AppPort); err != nil {
		logger.Fatal(fmt.Sprintf("Server stopped on %s:%s: %v", cfg.AppHost, cfg.AppPort, err))
	}
}
