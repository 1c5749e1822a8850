package FiberConfig

import (
	"log"
	"os"

	"StockTake/Controllers"
	"StockTake/CronJobs"
	"StockTake/Models"
	"StockTake/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, scheduler *CronJobs.CountScheduler) {
	// Initialize handlers
	authController := Controllers.NewAuthController(db)
	directoryController := Controllers.NewDirectoryController(db)
	scheduleRuleController := Controllers.NewScheduleRuleController(db)
	countTaskController := Controllers.NewCountTaskController(db)
	lifecycleController := Controllers.NewCountLifecycleController(db)
	dashboardController := Controllers.NewDashboardController(db, scheduler)
	reportController := Controllers.NewReportController(db)

	// API group
	api := app.Group("/api")

	// Auth routes
	api.Post("/register", authController.Register)
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)
	api.Get("/user", middleware.Verify(1), authController.CurrentUser)
	api.Post("/UpdateToken", middleware.Verify(1), Models.UpdateToken)

	// Directory routes (locations, bins, items)
	directory := api.Group("/directory", middleware.Verify(1))
	directory.Get("/locations", directoryController.GetLocations)
	directory.Post("/locations", middleware.Verify(3), directoryController.CreateLocation)
	directory.Post("/locations/:location_id/bins", middleware.Verify(3), directoryController.CreateBin)
	directory.Get("/items", directoryController.GetItems)
	directory.Post("/items", middleware.Verify(3), directoryController.CreateItem)

	// Schedule rule routes
	schedules := api.Group("/schedules", middleware.Verify(3))
	schedules.Get("/", scheduleRuleController.GetScheduleRules)
	schedules.Get("/:location_id", scheduleRuleController.GetScheduleRule)
	schedules.Put("/:location_id", scheduleRuleController.UpsertScheduleRule)
	schedules.Delete("/:location_id", scheduleRuleController.DeleteScheduleRule)

	// Count task routes
	counts := api.Group("/counts", middleware.Verify(1))
	counts.Get("/", countTaskController.GetCountTasks)
	counts.Get("/mine", countTaskController.GetMyTasks)
	counts.Post("/", middleware.Verify(3), countTaskController.CreateCountTask)
	counts.Get("/:id", countTaskController.GetCountTask)
	counts.Put("/:id/notes", countTaskController.UpdateCountTaskNotes)
	counts.Delete("/:id", middleware.Verify(3), countTaskController.DeleteCountTask)

	// Lifecycle routes
	counts.Post("/:id/start", lifecycleController.StartCount)
	counts.Post("/:id/quantities", lifecycleController.RecordQuantities)
	counts.Post("/:id/scan", lifecycleController.RecordScanSession)
	counts.Post("/:id/submit", lifecycleController.SubmitCount)
	counts.Post("/:id/approve", middleware.Verify(3), lifecycleController.ApproveCount)
	counts.Post("/:id/reject", middleware.Verify(3), lifecycleController.RejectCount)

	// Supervisor dashboard routes
	dashboard := api.Group("/dashboard", middleware.Verify(3))
	dashboard.Get("/workload", dashboardController.GetCounterWorkload)
	dashboard.Get("/escalations", dashboardController.GetEscalations)
	dashboard.Post("/generation/run", dashboardController.RunGeneration)
	dashboard.Get("/reports/variance", reportController.ExportVarianceReport)
}

func FiberConfig(scheduler *CronJobs.CountScheduler) {
	log.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB, scheduler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
