package Controllers

import (
	"strconv"

	"StockTake/Models"
	"StockTake/Notifications"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CountLifecycleController drives a count task through its state machine
type CountLifecycleController struct {
	DB *gorm.DB
}

func NewCountLifecycleController(db *gorm.DB) *CountLifecycleController {
	return &CountLifecycleController{DB: db}
}

func taskIDParam(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// StartCount claims a draft task and moves it to in_progress
func (c *CountLifecycleController) StartCount(ctx *fiber.Ctx) error {
	id, err := taskIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count task ID"})
	}

	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	if err := Models.StartCount(c.DB, id, user.ID, user.Name); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	task, err := Models.GetCountTask(c.DB, id)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	go Notifications.NotifyTaskAssigned(c.DB, task)
	return ctx.JSON(task)
}

type RecordQuantitiesRequest struct {
	Entries []Models.QuantityEntry `json:"entries" validate:"required,min=1"`
}

// RecordQuantities records counted quantities for some or all line items
func (c *CountLifecycleController) RecordQuantities(ctx *fiber.Ctx) error {
	id, err := taskIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count task ID"})
	}

	var req RecordQuantitiesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := Models.RecordQuantities(c.DB, id, req.Entries); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	task, err := Models.GetCountTask(c.DB, id)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(task)
}

type ScanSessionRequest struct {
	// SKU -> tallied quantity from one bin-scan pass. Line items not scanned
	// are counted as zero.
	Tallies map[string]float64 `json:"tallies" validate:"required"`
}

// RecordScanSession seeds the whole count from a single bin-scan session
func (c *CountLifecycleController) RecordScanSession(ctx *fiber.Ctx) error {
	id, err := taskIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count task ID"})
	}

	var req ScanSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := Models.RecordScanSession(c.DB, id, req.Tallies); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	task, err := Models.GetCountTask(c.DB, id)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(task)
}

// SubmitCount moves an in_progress task to submitted
func (c *CountLifecycleController) SubmitCount(ctx *fiber.Ctx) error {
	id, err := taskIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count task ID"})
	}

	if err := Models.SubmitCount(c.DB, id); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	task, err := Models.GetCountTask(c.DB, id)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(task)
}

// ApproveCount approves a submitted count and reconciles stock levels
func (c *CountLifecycleController) ApproveCount(ctx *fiber.Ctx) error {
	id, err := taskIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count task ID"})
	}

	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	if err := Models.ApproveCount(c.DB, id, user.Name); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	task, err := Models.GetCountTask(c.DB, id)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(task)
}

// RejectCount sends a submitted count back for a full recount
func (c *CountLifecycleController) RejectCount(ctx *fiber.Ctx) error {
	id, err := taskIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count task ID"})
	}

	if err := Models.RejectCount(c.DB, id); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	task, err := Models.GetCountTask(c.DB, id)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	go Notifications.NotifyTaskAssigned(c.DB, task)
	return ctx.JSON(task)
}
