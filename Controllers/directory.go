package Controllers

import (
	"strconv"

	"StockTake/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DirectoryController manages the location/bin/item directories the count
// engine draws from.
type DirectoryController struct {
	DB *gorm.DB
}

func NewDirectoryController(db *gorm.DB) *DirectoryController {
	return &DirectoryController{DB: db}
}

// GetLocations lists locations with their bins
func (c *DirectoryController) GetLocations(ctx *fiber.Ctx) error {
	var locations []Models.Location
	if err := c.DB.Preload("Bins").Find(&locations).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve locations"})
	}
	return ctx.JSON(locations)
}

type CreateLocationRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateLocation adds a storage location
func (c *DirectoryController) CreateLocation(ctx *fiber.Ctx) error {
	var req CreateLocationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	location := Models.Location{Name: req.Name, Active: true}
	if err := c.DB.Create(&location).Error; err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A location with this name already exists"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(location)
}

type CreateBinRequest struct {
	Code string `json:"code" validate:"required"`
}

// CreateBin adds a bin to a location
func (c *DirectoryController) CreateBin(ctx *fiber.Ctx) error {
	locationID, err := strconv.Atoi(ctx.Params("location_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	var req CreateBinRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var location Models.Location
	if err := c.DB.First(&location, locationID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	bin := Models.Bin{LocationID: location.ID, Code: req.Code, Active: true}
	if err := c.DB.Create(&bin).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create bin"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(bin)
}

// GetItems lists items, optionally filtered by bin
func (c *DirectoryController) GetItems(ctx *fiber.Ctx) error {
	query := c.DB.Order("sku ASC")
	if binID := ctx.Query("bin_id"); binID != "" {
		query = query.Where("bin_id = ?", binID)
	}

	var items []Models.Item
	if err := query.Find(&items).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve items"})
	}
	return ctx.JSON(items)
}

type CreateItemRequest struct {
	Name         string  `json:"name" validate:"required"`
	SKU          string  `json:"sku" validate:"required"`
	BinID        *uint   `json:"bin_id"`
	CurrentStock float64 `json:"current_stock"`
}

// CreateItem adds an item to the directory
func (c *DirectoryController) CreateItem(ctx *fiber.Ctx) error {
	var req CreateItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item := Models.Item{
		Name:         req.Name,
		SKU:          req.SKU,
		BinID:        req.BinID,
		CurrentStock: req.CurrentStock,
	}
	if err := c.DB.Create(&item).Error; err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "An item with this SKU already exists"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(item)
}
