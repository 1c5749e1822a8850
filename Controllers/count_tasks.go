package Controllers

import (
	"errors"
	"strconv"

	"StockTake/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CountTaskController handles count task CRUD and listing
type CountTaskController struct {
	DB *gorm.DB
}

func NewCountTaskController(db *gorm.DB) *CountTaskController {
	return &CountTaskController{DB: db}
}

// statusForError maps lifecycle errors onto HTTP statuses: transition and
// state violations are client errors, unknown failures are server errors.
func statusForError(err error) int {
	switch {
	case errors.Is(err, Models.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, Models.ErrInvalidTransition), errors.Is(err, Models.ErrInvalidOperation):
		return fiber.StatusConflict
	case errors.Is(err, Models.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

type CreateCountTaskRequest struct {
	LocationID uint   `json:"location_id" validate:"required"`
	BinID      *uint  `json:"bin_id"`
	ItemIDs    []uint `json:"item_ids"`
	DueDate    string `json:"due_date"`
	AssignedTo *uint  `json:"assigned_to"`
	Notes      string `json:"notes"`
}

// CreateCountTask creates an ad-hoc count task
func (c *CountTaskController) CreateCountTask(ctx *fiber.Ctx) error {
	var req CreateCountTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	creator := ""
	if user, ok := ctx.Locals("user").(Models.User); ok {
		creator = user.Name
	}

	task, err := Models.CreateCountTask(c.DB, Models.CreateCountInput{
		LocationID: req.LocationID,
		BinID:      req.BinID,
		ItemIDs:    req.ItemIDs,
		DueDate:    req.DueDate,
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
		CreatedBy:  creator,
	})
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(task)
}

// GetCountTasks lists count tasks, optionally filtered by status, due date,
// location or the unassigned pool
func (c *CountTaskController) GetCountTasks(ctx *fiber.Ctx) error {
	query := c.DB.Preload("LineItems").Order("created_at DESC")
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if dueDate := ctx.Query("due_date"); dueDate != "" {
		query = query.Where("due_date = ?", dueDate)
	}
	if locationID := ctx.Query("location_id"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}
	if ctx.Query("unassigned") == "true" {
		query = query.Where("assigned_to IS NULL")
	}

	var tasks []Models.CountTask
	if err := query.Find(&tasks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve count tasks"})
	}
	return ctx.JSON(tasks)
}

// GetCountTask retrieves a single count task with its line items
func (c *CountTaskController) GetCountTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count task ID"})
	}

	task, err := Models.GetCountTask(c.DB, uint(id))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(task)
}

// GetMyTasks lists the tasks assigned to the calling worker
func (c *CountTaskController) GetMyTasks(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals("user").(Models.User)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	tasks, err := Models.TasksAssignedTo(c.DB, user.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tasks"})
	}
	return ctx.JSON(tasks)
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateCountTaskNotes updates a task's notes
func (c *CountTaskController) UpdateCountTaskNotes(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count task ID"})
	}

	var req UpdateNotesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := Models.GetCountTask(c.DB, uint(id))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Model(task).Update("notes", req.Notes).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notes"})
	}
	return ctx.JSON(task)
}

// DeleteCountTask deletes a draft count task
func (c *CountTaskController) DeleteCountTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid count task ID"})
	}

	if err := Models.DeleteCountTask(c.DB, uint(id)); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Count task deleted successfully"})
}
