package Models

import (
	"log"
	"time"

	"gorm.io/gorm"
)

// Worker availability statuses reported by the workload projection.
const (
	WorkerAvailable  = "available"
	WorkerOverloaded = "overloaded"
)

const overloadThreshold = 5

// WorkerLoadSnapshot is the per-worker dashboard row: active task load,
// progress through those tasks, and recent counting accuracy.
type WorkerLoadSnapshot struct {
	UserID          uint    `json:"user_id"`
	Name            string  `json:"name"`
	ActiveCount     int     `json:"active_count"`
	Status          string  `json:"status"`
	TotalItems      int     `json:"total_items"`
	CountedItems    int     `json:"counted_items"`
	CurrentProgress float64 `json:"current_progress"`
	Accuracy        float64 `json:"accuracy"`
}

// GetCounterWorkload builds a load snapshot for every counter. Advisory
// dashboard data: it degrades to an empty list rather than failing.
func GetCounterWorkload(db *gorm.DB) []WorkerLoadSnapshot {
	var workers []User
	if err := db.Where("permission >= ?", PermissionCounter).Find(&workers).Error; err != nil {
		log.Printf("workload: loading workers: %v", err)
		return []WorkerLoadSnapshot{}
	}

	lookback := time.Now().AddDate(0, 0, -30)
	snapshots := make([]WorkerLoadSnapshot, 0, len(workers))
	for _, worker := range workers {
		snapshot := WorkerLoadSnapshot{UserID: worker.ID, Name: worker.Name, Status: WorkerAvailable}

		var active []CountTask
		if err := db.Preload("LineItems").
			Where("assigned_to = ? AND status IN ?", worker.ID, []string{StatusDraft, StatusInProgress}).
			Find(&active).Error; err != nil {
			log.Printf("workload: active tasks for %s: %v", worker.Name, err)
			continue
		}
		snapshot.ActiveCount = len(active)
		if snapshot.ActiveCount >= overloadThreshold {
			snapshot.Status = WorkerOverloaded
		}
		for _, task := range active {
			for _, line := range task.LineItems {
				snapshot.TotalItems++
				if line.CountedQuantity != nil {
					snapshot.CountedItems++
				}
			}
		}
		if snapshot.TotalItems > 0 {
			snapshot.CurrentProgress = float64(snapshot.CountedItems) / float64(snapshot.TotalItems)
		}

		// Mean stored accuracy of recently resolved counts. Tasks without a
		// stored figure are excluded from the mean.
		var resolved []CountTask
		if err := db.Where("assigned_to = ? AND status IN ? AND updated_at >= ?",
			worker.ID, []string{StatusSubmitted, StatusApproved}, lookback).
			Find(&resolved).Error; err != nil {
			log.Printf("workload: resolved tasks for %s: %v", worker.Name, err)
		}
		var sum float64
		var n int
		for _, task := range resolved {
			if task.Accuracy == nil {
				continue
			}
			sum += *task.Accuracy
			n++
		}
		if n > 0 {
			snapshot.Accuracy = sum / float64(n)
		}

		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}
