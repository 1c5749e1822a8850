package Models

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

// GenerationReport summarizes one scheduled generation run.
type GenerationReport struct {
	Date      string   `json:"date"`
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// RunScheduledGeneration materializes today's unassigned count tasks: one
// per eligible bin of every location whose schedule rule says it is due.
// Re-running on the same day is a no-op for bins already covered. A failure
// on one bin or location never aborts the rest of the run.
func RunScheduledGeneration(db *gorm.DB) GenerationReport {
	today, weekday := CountDate()
	report := GenerationReport{Date: today}

	var rules []ScheduleRule
	if err := db.Find(&rules).Error; err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("loading schedule rules: %v", err))
		return report
	}

	for _, rule := range rules {
		if !rule.IsDueOn(today, weekday) {
			continue
		}
		generated, skipped, errs := generateForLocation(db, rule, today)
		report.Generated += generated
		report.Skipped += skipped
		report.Errors = append(report.Errors, errs...)
	}

	log.Printf("scheduled generation for %s: %d generated, %d skipped, %d errors",
		today, report.Generated, report.Skipped, len(report.Errors))
	return report
}

func generateForLocation(db *gorm.DB, rule ScheduleRule, today string) (generated, skipped int, errs []string) {
	var location Location
	if err := db.First(&location, rule.LocationID).Error; err != nil {
		return 0, 0, []string{fmt.Sprintf("location %s: %v", rule.LocationName, err)}
	}
	if !location.Active {
		// Stale rule on a deactivated location.
		return 0, 0, nil
	}

	bins, err := ActiveBins(db, rule.LocationID)
	if err != nil {
		return 0, 0, []string{fmt.Sprintf("location %s: fetching bins: %v", rule.LocationName, err)}
	}
	if len(bins) == 0 {
		return 0, 0, nil
	}

	binIDs := make([]uint, 0, len(bins))
	for _, bin := range bins {
		binIDs = append(binIDs, bin.ID)
	}

	// Bins already covered by a task due today. The partial unique index on
	// (bin_id, due_date) backs this check up against concurrent triggers.
	var existing []CountTask
	if err := db.Where("due_date = ? AND bin_id IN ?", today, binIDs).Find(&existing).Error; err != nil {
		return 0, 0, []string{fmt.Sprintf("location %s: fetching existing counts: %v", rule.LocationName, err)}
	}
	covered := make(map[uint]bool, len(existing))
	for _, task := range existing {
		if task.BinID != nil {
			covered[*task.BinID] = true
		}
	}

	for _, bin := range bins {
		if covered[bin.ID] {
			skipped++
			continue
		}
		binID := bin.ID
		_, err := CreateCountTask(db, CreateCountInput{
			LocationID:    rule.LocationID,
			BinID:         &binID,
			DueDate:       today,
			CreatedBy:     "scheduler",
			AutoGenerated: true,
		})
		if err != nil {
			if isUniqueConflict(err) {
				// Lost a race with a concurrent run; the bin is covered.
				skipped++
				continue
			}
			if errors.Is(err, ErrValidation) {
				// Empty bin; nothing to count.
				skipped++
				continue
			}
			errs = append(errs, fmt.Sprintf("location %s bin %s: %v", rule.LocationName, bin.Code, err))
			continue
		}
		generated++
	}
	return generated, skipped, errs
}

func isUniqueConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "Duplicate entry")
}
