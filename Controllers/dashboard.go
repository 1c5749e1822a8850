package Controllers

import (
	"StockTake/CronJobs"
	"StockTake/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardController serves the supervisor read models: workload,
// escalations, and the generation trigger.
type DashboardController struct {
	DB        *gorm.DB
	Scheduler *CronJobs.CountScheduler
}

func NewDashboardController(db *gorm.DB, scheduler *CronJobs.CountScheduler) *DashboardController {
	return &DashboardController{DB: db, Scheduler: scheduler}
}

// GetCounterWorkload returns the per-worker load snapshot
func (c *DashboardController) GetCounterWorkload(ctx *fiber.Ctx) error {
	return ctx.JSON(Models.GetCounterWorkload(c.DB))
}

// GetEscalations returns counts flagged for supervisor attention
func (c *DashboardController) GetEscalations(ctx *fiber.Ctx) error {
	return ctx.JSON(Models.GetEscalations(c.DB))
}

// RunGeneration triggers the daily batch on demand. Safe to call twice: the
// batch skips bins already covered today.
func (c *DashboardController) RunGeneration(ctx *fiber.Ctx) error {
	report := c.Scheduler.RunManualCheck()
	return ctx.JSON(report)
}
