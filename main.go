package main

import (
	"log"

	"tcepreview/config"
	"tcepreview/database"
	assetRoutes "tcepreview/routers/assetRoutes"
	authRoutes "tcepreview/routers/authRoutes"
	curriculumRoutes "tcepreview/routers/curriculumRoutes"
	filterRoutes "tcepreview/routers/filterRoutes"
	tceRoutes "tcepreview/routers/tceRoutes"
	"tcepreview/utils"

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
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files (player bundle, azvasa spreadsheets, manifest)
	app.Static("/", config.AppConfig.PublicDir)

	authRoutes.SetupAuthRoutes(app)
	curriculumRoutes.SetupCurriculumRoutes(app)
	tceRoutes.SetupTceRoutes(app)
	assetRoutes.SetupAssetRoutes(app)
	filterRoutes.SetupFilterRoutes(app)

	// Background session refresh sweep
	utils.StartRefreshScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
