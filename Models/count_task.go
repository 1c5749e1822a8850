package Models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Count task statuses.
const (
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

// CountTask is one physical stock count: either a whole bin (BinID set) or
// an ad-hoc item set. Auto-generated tasks are created unassigned by the
// daily batch; workers claim them from the pool.
type CountTask struct {
	gorm.Model
	Number        string     `json:"number" gorm:"uniqueIndex"`
	LocationID    uint       `json:"location_id" gorm:"index"`
	LocationName  string     `json:"location_name"`
	BinID         *uint      `json:"bin_id" gorm:"index:idx_bin_due"`
	BinCode       string     `json:"bin_code"`
	AssignedTo    *uint      `json:"assigned_to" gorm:"index"`
	AssignedName  string     `json:"assigned_name"`
	Status        string     `json:"status" gorm:"default:draft;index"`
	DueDate       string     `json:"due_date" gorm:"index:idx_bin_due"`
	AutoGenerated bool       `json:"auto_generated"`
	Notes         string     `json:"notes"`
	CreatedBy     string     `json:"created_by"`
	ApprovedBy    string     `json:"approved_by"`
	ApprovedAt    *time.Time `json:"approved_at"`
	// How many times this task has been rejected. Non-zero while the task is
	// back in progress means a recount cycle.
	RejectionCount int `json:"rejection_count"`
	// Accuracy score stored when the count is submitted, fed into the
	// per-worker workload projection.
	Accuracy *float64 `json:"accuracy"`

	LineItems []CountLineItem `json:"line_items,omitempty" gorm:"foreignKey:CountTaskID"`
}

// CountLineItem is one item inside a count task. ExpectedQuantity is
// snapshotted from the authoritative stock when the task is created and never
// recomputed; Variance is always derived from CountedQuantity - Expected.
type CountLineItem struct {
	gorm.Model
	CountTaskID      uint     `json:"count_task_id" gorm:"not null;index"`
	ItemID           uint     `json:"item_id" gorm:"not null;index"`
	ItemName         string   `json:"item_name"`
	SKU              string   `json:"sku"`
	BinCode          string   `json:"bin_code"`
	ExpectedQuantity float64  `json:"expected_quantity"`
	CountedQuantity  *float64 `json:"counted_quantity"`
	Variance         *float64 `json:"variance"`
}

// CountSequence backs the human-readable task numbering. A single row holds
// the last issued value; the atomic UPDATE below serializes concurrent
// creations so numbers never duplicate.
type CountSequence struct {
	ID    uint `gorm:"primaryKey"`
	Value int64
}

// NextCountNumber issues the next task number (CNT-00042). Must be called
// inside the same transaction that creates the task.
func NextCountNumber(tx *gorm.DB) (string, error) {
	result := tx.Model(&CountSequence{}).Where("id = ?", 1).
		Update("value", gorm.Expr("value + 1"))
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		if err := tx.Create(&CountSequence{ID: 1, Value: 1}).Error; err != nil {
			return "", err
		}
		return fmt.Sprintf("CNT-%05d", 1), nil
	}
	var seq CountSequence
	if err := tx.First(&seq, 1).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("CNT-%05d", seq.Value), nil
}
