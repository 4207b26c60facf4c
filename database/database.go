package database

import (
	"log"
	"os"

	"tcepreview/config"
	"tcepreview/models/content"
	"tcepreview/models/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance holds the three logical store connections
type DbInstance struct {
	Master  *gorm.DB // taxonomy: boards/grades/subjects/chapters/subtopics
	Users   *gorm.DB // staff sessions
	Content *gorm.DB // chapter assets + asset mappings
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes the PostgreSQL connections for the three stores.
// The master taxonomy is administered upstream, so only the users and
// content stores are migrated here.
func ConnectDb() {
	cfg := config.AppConfig

	master := open(cfg.DSN(cfg.MasterDB), "master")
	contentDb := open(cfg.DSN(cfg.ContentDB), "content")

	var usersDb *gorm.DB
	if dsn := cfg.DSN(cfg.UsersDB); dsn != "" {
		usersDb = open(dsn, "users")
	} else {
		// Sessions ride on the content store when no dedicated users DB is
		// configured.
		log.Println("USERS_DB not configured, storing sessions in the content database")
		usersDb = contentDb
	}

	runMigrations(usersDb, contentDb)

	Database = DbInstance{Master: master, Users: usersDb, Content: contentDb}
}

func open(dsn, name string) *gorm.DB {
	if dsn == "" {
		log.Fatalf("Missing connection settings for %s database", name)
		os.Exit(2)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to %s database: %v", name, err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get %s database instance: %v", name, err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return db
}

// runMigrations performs database migrations on the stores this service owns
func runMigrations(usersDb, contentDb *gorm.DB) {
	log.Println("Running Migrations...")

	if err := usersDb.AutoMigrate(&users.Session{}); err != nil {
		log.Fatalf("Users migration failed: %v", err)
	}

	if err := contentDb.AutoMigrate(
		&content.ChapterAsset{},
		&content.TceAssetMapping{},
	); err != nil {
		log.Fatalf("Content migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
