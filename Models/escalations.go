package Models

import (
	"log"
	"math"

	"gorm.io/gorm"
)

// Escalation types.
const (
	EscalationCriticalVariance = "critical_variance"
	EscalationMaxRecount       = "max_recount"
)

const criticalVariancePercent = 20

// Escalation flags one counted line item for supervisor attention: either
// its variance is beyond the critical threshold, or its task is in a recount
// cycle after rejection.
type Escalation struct {
	TaskID          uint    `json:"task_id"`
	TaskNumber      string  `json:"task_number"`
	TaskStatus      string  `json:"task_status"`
	LocationName    string  `json:"location_name"`
	BinCode         string  `json:"bin_code"`
	AssignedName    string  `json:"assigned_name"`
	ItemID          uint    `json:"item_id"`
	ItemName        string  `json:"item_name"`
	SKU             string  `json:"sku"`
	Expected        float64 `json:"expected_quantity"`
	Counted         float64 `json:"counted_quantity"`
	VariancePercent int     `json:"variance_percent"`
	Type            string  `json:"type"`
}

// VariancePercent is the rounded absolute variance of counted against
// expected, as a percentage. A zero expectation counts as 100% off unless
// the counted figure is also zero.
func VariancePercent(expected, counted float64) int {
	if expected > 0 {
		return int(math.Round(math.Abs(expected-counted) / expected * 100))
	}
	if counted != 0 {
		return 100
	}
	return 0
}

// GetEscalations scans in-flight and recently rejected counts for items
// needing supervisor attention. Advisory dashboard data: items missing
// either quantity are skipped and failures degrade to an empty list.
func GetEscalations(db *gorm.DB) []Escalation {
	var tasks []CountTask
	if err := db.Preload("LineItems").
		Where("status IN ?", []string{StatusInProgress, StatusSubmitted, StatusRejected}).
		Find(&tasks).Error; err != nil {
		log.Printf("escalations: loading tasks: %v", err)
		return []Escalation{}
	}

	escalations := []Escalation{}
	for _, task := range tasks {
		recount := task.RejectionCount > 0 || task.Status == StatusRejected
		for _, line := range task.LineItems {
			if line.CountedQuantity == nil {
				continue
			}
			percent := VariancePercent(line.ExpectedQuantity, *line.CountedQuantity)
			if percent <= criticalVariancePercent && !recount {
				continue
			}
			escalationType := EscalationCriticalVariance
			if recount {
				// A recount cycle takes labeling precedence over variance.
				escalationType = EscalationMaxRecount
			}
			escalations = append(escalations, Escalation{
				TaskID:          task.ID,
				TaskNumber:      task.Number,
				TaskStatus:      task.Status,
				LocationName:    task.LocationName,
				BinCode:         task.BinCode,
				AssignedName:    task.AssignedName,
				ItemID:          line.ItemID,
				ItemName:        line.ItemName,
				SKU:             line.SKU,
				Expected:        line.ExpectedQuantity,
				Counted:         *line.CountedQuantity,
				VariancePercent: percent,
				Type:            escalationType,
			})
		}
	}
	return escalations
}
