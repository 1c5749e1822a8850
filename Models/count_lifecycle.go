package Models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

// The transition table. Anything not listed here fails with
// ErrInvalidTransition naming the attempted source and target.
var allowedTransitions = map[string][]string{
	StatusDraft:      {StatusInProgress},
	StatusInProgress: {StatusSubmitted},
	StatusSubmitted:  {StatusApproved, StatusRejected},
	StatusRejected:   {StatusInProgress},
}

func transitionAllowed(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// setStatus performs the guarded status write. The WHERE clause re-checks the
// persisted status, so two racing transition attempts cannot both win.
func setStatus(tx *gorm.DB, taskID uint, from, to string, extra map[string]interface{}) error {
	if !transitionAllowed(from, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	result := tx.Model(&CountTask{}).Where("id = ? AND status = ?", taskID, from).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var current CountTask
		if err := tx.First(&current, taskID).Error; err != nil {
			return ErrNotFound
		}
		return fmt.Errorf("%w: cannot move count %s from %s to %s",
			ErrInvalidTransition, current.Number, current.Status, to)
	}
	return nil
}

// CreateCountInput describes a count task to create: either a whole bin
// (BinID set, ItemIDs empty) or an explicit ad-hoc item set.
type CreateCountInput struct {
	LocationID    uint
	BinID         *uint
	ItemIDs       []uint
	DueDate       string
	AssignedTo    *uint
	Notes         string
	CreatedBy     string
	AutoGenerated bool
}

// CreateCountTask creates a draft count task, snapshotting each item's
// current stock as the expected quantity. The snapshot is taken exactly once
// here and never re-read.
func CreateCountTask(db *gorm.DB, input CreateCountInput) (*CountTask, error) {
	if input.LocationID == 0 {
		return nil, fmt.Errorf("%w: location_id is required", ErrValidation)
	}
	if input.BinID == nil && len(input.ItemIDs) == 0 {
		return nil, fmt.Errorf("%w: either a bin or an explicit item set is required", ErrValidation)
	}
	if input.DueDate == "" {
		input.DueDate, _ = CountDate()
	}

	var task *CountTask
	err := db.Transaction(func(tx *gorm.DB) error {
		var location Location
		if err := tx.First(&location, input.LocationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: location %d", ErrNotFound, input.LocationID)
			}
			return err
		}

		binCode := ""
		var items []Item
		if input.BinID != nil {
			var bin Bin
			if err := tx.First(&bin, *input.BinID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fmt.Errorf("%w: bin %d", ErrNotFound, *input.BinID)
				}
				return err
			}
			binCode = bin.Code
			if len(input.ItemIDs) == 0 {
				found, err := ItemsInBin(tx, bin.ID)
				if err != nil {
					return err
				}
				items = found
			}
		}
		if len(input.ItemIDs) > 0 {
			if err := tx.Where("id IN ?", input.ItemIDs).Find(&items).Error; err != nil {
				return err
			}
			if len(items) != len(input.ItemIDs) {
				return fmt.Errorf("%w: one or more items do not exist", ErrNotFound)
			}
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: count would have no line items", ErrValidation)
		}

		number, err := NextCountNumber(tx)
		if err != nil {
			return err
		}

		assignedName := ""
		if input.AssignedTo != nil {
			var assignee User
			if err := tx.First(&assignee, *input.AssignedTo).Error; err != nil {
				return fmt.Errorf("%w: assignee %d", ErrNotFound, *input.AssignedTo)
			}
			assignedName = assignee.Name
		}

		created := CountTask{
			Number:        number,
			LocationID:    location.ID,
			LocationName:  location.Name,
			BinID:         input.BinID,
			BinCode:       binCode,
			AssignedTo:    input.AssignedTo,
			AssignedName:  assignedName,
			Status:        StatusDraft,
			DueDate:       input.DueDate,
			AutoGenerated: input.AutoGenerated,
			Notes:         input.Notes,
			CreatedBy:     input.CreatedBy,
		}
		for _, item := range items {
			created.LineItems = append(created.LineItems, CountLineItem{
				ItemID:           item.ID,
				ItemName:         item.Name,
				SKU:              item.SKU,
				BinCode:          binCode,
				ExpectedQuantity: item.CurrentStock,
			})
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		task = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// StartCount claims a draft task and moves it to in_progress. Unassigned
// tasks are claimed by the starting worker. Tasks sent back for recount skip
// this path entirely, RejectCount returns them to in_progress itself.
func StartCount(db *gorm.DB, taskID uint, userID uint, userName string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task CountTask
		if err := tx.First(&task, taskID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: count task %d", ErrNotFound, taskID)
			}
			return err
		}
		extra := map[string]interface{}{}
		if task.AssignedTo == nil {
			if userID == 0 {
				return fmt.Errorf("%w: starting a count requires an assignee", ErrValidation)
			}
			extra["assigned_to"] = userID
			extra["assigned_name"] = userName
		}
		return setStatus(tx, taskID, StatusDraft, StatusInProgress, extra)
	})
}

// QuantityEntry is one recorded line in a counting session.
type QuantityEntry struct {
	ItemID  uint    `json:"item_id"`
	Counted float64 `json:"counted_quantity"`
}

// RecordQuantities records counted quantities for the supplied items and
// recomputes each variance. Items not mentioned are left untouched, so a
// count can be entered across several sessions. Allowed only in_progress.
func RecordQuantities(db *gorm.DB, taskID uint, entries []QuantityEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no quantities supplied", ErrValidation)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		task, err := lockTaskForRecording(tx, taskID)
		if err != nil {
			return err
		}
		byItem := make(map[uint]*CountLineItem, len(task.LineItems))
		for i := range task.LineItems {
			byItem[task.LineItems[i].ItemID] = &task.LineItems[i]
		}
		for _, entry := range entries {
			line, ok := byItem[entry.ItemID]
			if !ok {
				return fmt.Errorf("%w: item %d is not part of count %s", ErrValidation, entry.ItemID, task.Number)
			}
			counted := entry.Counted
			variance := counted - line.ExpectedQuantity
			if err := tx.Model(line).Updates(map[string]interface{}{
				"counted_quantity": counted,
				"variance":         variance,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RecordScanSession seeds every line item of the task from one bin-scan
// session: scanned SKUs get their tallies, everything else in the bin is
// counted as zero. Allowed only in_progress.
func RecordScanSession(db *gorm.DB, taskID uint, tallies map[string]float64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		task, err := lockTaskForRecording(tx, taskID)
		if err != nil {
			return err
		}
		for sku := range tallies {
			found := false
			for i := range task.LineItems {
				if task.LineItems[i].SKU == sku {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: scanned SKU %s is not part of count %s", ErrValidation, sku, task.Number)
			}
		}
		for i := range task.LineItems {
			line := &task.LineItems[i]
			counted := tallies[line.SKU]
			variance := counted - line.ExpectedQuantity
			if err := tx.Model(line).Updates(map[string]interface{}{
				"counted_quantity": counted,
				"variance":         variance,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func lockTaskForRecording(tx *gorm.DB, taskID uint) (*CountTask, error) {
	var task CountTask
	if err := tx.Preload("LineItems").First(&task, taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: count task %d", ErrNotFound, taskID)
		}
		return nil, err
	}
	if task.Status != StatusInProgress {
		return nil, fmt.Errorf("%w: quantities can only be recorded while in_progress, count %s is %s",
			ErrInvalidOperation, task.Number, task.Status)
	}
	return &task, nil
}

// SubmitCount moves an in_progress task to submitted and stores its accuracy
// score for the workload projection.
func SubmitCount(db *gorm.DB, taskID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task CountTask
		if err := tx.Preload("LineItems").First(&task, taskID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: count task %d", ErrNotFound, taskID)
			}
			return err
		}
		extra := map[string]interface{}{}
		if accuracy, ok := taskAccuracy(task.LineItems); ok {
			extra["accuracy"] = accuracy
		}
		return setStatus(tx, taskID, StatusInProgress, StatusSubmitted, extra)
	})
}

// taskAccuracy scores a count 0-100 from its line items' variances. Items
// without a counted quantity are excluded; ok is false when nothing counted.
func taskAccuracy(lines []CountLineItem) (float64, bool) {
	var sum float64
	var n int
	for _, line := range lines {
		if line.CountedQuantity == nil {
			continue
		}
		var score float64
		if line.ExpectedQuantity > 0 {
			deviation := math.Abs(*line.CountedQuantity-line.ExpectedQuantity) / line.ExpectedQuantity * 100
			score = math.Max(0, 100-deviation)
		} else if *line.CountedQuantity == 0 {
			score = 100
		}
		sum += score
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// ApproveCount moves a submitted task to approved and writes every counted
// quantity back as the item's authoritative stock level. The write is a
// blind overwrite (last approval wins per item).
func ApproveCount(db *gorm.DB, taskID uint, approver string) error {
	if strings.TrimSpace(approver) == "" {
		return fmt.Errorf("%w: approver is required", ErrValidation)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := setStatus(tx, taskID, StatusSubmitted, StatusApproved, map[string]interface{}{
			"approved_by": approver,
			"approved_at": now,
		}); err != nil {
			return err
		}
		var lines []CountLineItem
		if err := tx.Where("count_task_id = ?", taskID).Find(&lines).Error; err != nil {
			return err
		}
		for _, line := range lines {
			if line.CountedQuantity == nil {
				continue
			}
			if err := SetItemStock(tx, line.ItemID, *line.CountedQuantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// RejectCount sends a submitted task back for a full recount: all counted
// quantities and variances are cleared (a partial recount is deliberately not
// allowed) and the task lands back in in_progress.
func RejectCount(db *gorm.DB, taskID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := setStatus(tx, taskID, StatusSubmitted, StatusRejected, nil); err != nil {
			return err
		}
		if err := tx.Model(&CountLineItem{}).Where("count_task_id = ?", taskID).
			Updates(map[string]interface{}{"counted_quantity": nil, "variance": nil}).Error; err != nil {
			return err
		}
		return setStatus(tx, taskID, StatusRejected, StatusInProgress, map[string]interface{}{
			"rejection_count": gorm.Expr("rejection_count + 1"),
			"accuracy":        nil,
		})
	})
}

// DeleteCountTask removes a task and its line items. Only drafts may be
// deleted; anything further along is part of the audit trail.
func DeleteCountTask(db *gorm.DB, taskID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task CountTask
		if err := tx.First(&task, taskID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: count task %d", ErrNotFound, taskID)
			}
			return err
		}
		if task.Status != StatusDraft {
			return fmt.Errorf("%w: only draft counts can be deleted, count %s is %s",
				ErrInvalidOperation, task.Number, task.Status)
		}
		if err := tx.Where("count_task_id = ?", task.ID).Delete(&CountLineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

// GetCountTask loads a task with its line items.
func GetCountTask(db *gorm.DB, taskID uint) (*CountTask, error) {
	var task CountTask
	if err := db.Preload("LineItems").First(&task, taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: count task %d", ErrNotFound, taskID)
		}
		return nil, err
	}
	return &task, nil
}

// TasksAssignedTo lists the tasks currently assigned to a worker, newest
// first.
func TasksAssignedTo(db *gorm.DB, userID uint) ([]CountTask, error) {
	var tasks []CountTask
	err := db.Preload("LineItems").Where("assigned_to = ?", userID).
		Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}
