package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"church-attendance/app/apperr"
	"church-attendance/app/config"
	"church-attendance/app/database"
	"church-attendance/app/routes/attendance"
	"church-attendance/app/routes/auth"
	"church-attendance/app/routes/students"
	"church-attendance/app/routes/teachers"
	"church-attendance/app/routes/users"
	"church-attendance/app/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	sessions := session.NewMemoryStore()

	app := fiber.New(fiber.Config{
		AppName:      "Church Attendance",
		ErrorHandler: apperr.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Output: io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, "access.log"),
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}),
	}))

	auth.SetupAuthRoutes(app, &auth.Handler{DB: db, Sessions: sessions})
	students.SetupStudentsRoutes(app, &students.Handler{DB: db, Sessions: sessions})
	teachers.SetupTeachersRoutes(app, &teachers.Handler{DB: db, Sessions: sessions})
	attendance.SetupAttendanceRoutes(app, &attendance.Handler{DB: db, Sessions: sessions})
	users.SetupUsersRoutes(app, &users.Handler{DB: db, Sessions: sessions})

	// Frontend SPA bundle.
	app.Static("/", cfg.StaticDir)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Server starting on http://localhost%s", addr)
	log.Fatal(app.Listen(addr))
}
