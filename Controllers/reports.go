package Controllers

import (
	"fmt"

	"StockTake/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportController exports count results for supervisors
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// ExportVarianceReport writes an xlsx with one row per counted line item,
// optionally filtered by due date and status.
func (c *ReportController) ExportVarianceReport(ctx *fiber.Ctx) error {
	query := c.DB.Preload("LineItems").Order("due_date DESC, number DESC")
	if dueDate := ctx.Query("due_date"); dueDate != "" {
		query = query.Where("due_date = ?", dueDate)
	}
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []Models.CountTask
	if err := query.Find(&tasks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve count tasks"})
	}

	file := excelize.NewFile()
	sheet := "Variance Report"
	file.SetSheetName("Sheet1", sheet)

	headers := []string{"Count", "Due Date", "Status", "Location", "Bin", "Counter",
		"Item", "SKU", "Expected", "Counted", "Variance", "Variance %"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	row := 2
	for _, task := range tasks {
		for _, line := range task.LineItems {
			if line.CountedQuantity == nil {
				continue
			}
			values := []interface{}{
				task.Number, task.DueDate, task.Status, task.LocationName, task.BinCode,
				task.AssignedName, line.ItemName, line.SKU, line.ExpectedQuantity,
				*line.CountedQuantity, *line.CountedQuantity - line.ExpectedQuantity,
				Models.VariancePercent(line.ExpectedQuantity, *line.CountedQuantity),
			}
			for i, value := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				file.SetCellValue(sheet, cell, value)
			}
			row++
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}

	today, _ := Models.CountDate()
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="variance_report_%s.xlsx"`, today))
	return ctx.Send(buffer.Bytes())
}
