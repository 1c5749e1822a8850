package Controllers

import (
	"errors"
	"strconv"

	"StockTake/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ScheduleRuleController manages the per-location recurrence rules
type ScheduleRuleController struct {
	DB *gorm.DB
}

func NewScheduleRuleController(db *gorm.DB) *ScheduleRuleController {
	return &ScheduleRuleController{DB: db}
}

type UpsertScheduleRuleRequest struct {
	LocationID     uint                  `json:"location_id" validate:"required"`
	RegularDays    []bool                `json:"regular_days" validate:"required,len=7"`
	HighValueDaily bool                  `json:"high_value_daily"`
	Overrides      []Models.DateOverride `json:"overrides"`
	Holidays       []string              `json:"holidays"`
}

// GetScheduleRules lists all schedule rules
func (c *ScheduleRuleController) GetScheduleRules(ctx *fiber.Ctx) error {
	var rules []Models.ScheduleRule
	if err := c.DB.Find(&rules).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve schedule rules"})
	}
	return ctx.JSON(rules)
}

// GetScheduleRule retrieves the rule for one location
func (c *ScheduleRuleController) GetScheduleRule(ctx *fiber.Ctx) error {
	locationID, err := strconv.Atoi(ctx.Params("location_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	var rule Models.ScheduleRule
	if err := c.DB.Where("location_id = ?", locationID).First(&rule).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No schedule rule for this location"})
	}
	return ctx.JSON(rule)
}

// UpsertScheduleRule creates or replaces the rule for a location
func (c *ScheduleRuleController) UpsertScheduleRule(ctx *fiber.Ctx) error {
	var req UpsertScheduleRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var location Models.Location
	if err := c.DB.First(&location, req.LocationID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	rule := Models.ScheduleRule{
		LocationID:     req.LocationID,
		LocationName:   location.Name,
		RegularDays:    req.RegularDays,
		HighValueDaily: req.HighValueDaily,
		Overrides:      req.Overrides,
		Holidays:       req.Holidays,
	}
	if err := Models.UpsertScheduleRule(c.DB, &rule); err != nil {
		if errors.Is(err, Models.ErrValidation) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save schedule rule"})
	}
	return ctx.JSON(rule)
}

// DeleteScheduleRule removes the rule for a location
func (c *ScheduleRuleController) DeleteScheduleRule(ctx *fiber.Ctx) error {
	locationID, err := strconv.Atoi(ctx.Params("location_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	var rule Models.ScheduleRule
	if err := c.DB.Where("location_id = ?", locationID).First(&rule).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No schedule rule for this location"})
	}

	c.DB.Delete(&rule)
	return ctx.JSON(fiber.Map{"message": "Schedule rule deleted successfully"})
}
