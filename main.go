package main

import (
	"learnhub/config"
	"learnhub/database"
	authRoutes "learnhub/routers/authRoutes"
	commissionRoutes "learnhub/routers/commissionRoutes"
	courseRoutes "learnhub/routers/courseRoutes"
	sandboxRoutes "learnhub/routers/sandboxRoutes"
	"learnhub/utils"

	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupMentorRoutes(app)
	commissionRoutes.SetupCommissionRoutes(app)
	sandboxRoutes.SetupSandboxRoutes(app)

	utils.InitializeEnrollmentScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
