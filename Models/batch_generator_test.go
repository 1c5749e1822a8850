package Models_test

import (
	"testing"

	"StockTake/Models"
)

func everyDay() []bool {
	return []bool{true, true, true, true, true, true, true}
}

func TestRunScheduledGenerationCreatesOneTaskPerBin(t *testing.T) {
	db := newTestDB(t)
	location := seedLocation(t, db, "Main Warehouse")
	binA := seedBin(t, db, location.ID, "A-01")
	binB := seedBin(t, db, location.ID, "A-02")
	seedItem(t, db, binA.ID, "SKU-001", 100)
	seedItem(t, db, binA.ID, "SKU-002", 50)
	seedItem(t, db, binB.ID, "SKU-003", 25)

	rule := Models.ScheduleRule{LocationID: location.ID, LocationName: location.Name, RegularDays: everyDay()}
	if err := Models.UpsertScheduleRule(db, &rule); err != nil {
		t.Fatalf("upserting rule: %v", err)
	}

	report := Models.RunScheduledGeneration(db)
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if report.Generated != 2 || report.Skipped != 0 {
		t.Fatalf("expected 2 generated / 0 skipped, got %d / %d", report.Generated, report.Skipped)
	}

	var tasks []Models.CountTask
	if err := db.Preload("LineItems").Find(&tasks).Error; err != nil {
		t.Fatalf("loading tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if !task.AutoGenerated || task.Status != Models.StatusDraft || task.AssignedTo != nil {
			t.Fatalf("generated task should be an unassigned auto draft: %+v", task)
		}
		if task.BinID == nil {
			t.Fatal("generated task should reference its bin")
		}
		if *task.BinID == binA.ID && len(task.LineItems) != 2 {
			t.Fatalf("bin A task should have 2 line items, got %d", len(task.LineItems))
		}
	}
}

func TestRunScheduledGenerationIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	location := seedLocation(t, db, "Main Warehouse")
	binA := seedBin(t, db, location.ID, "A-01")
	binB := seedBin(t, db, location.ID, "A-02")
	seedItem(t, db, binA.ID, "SKU-001", 100)
	seedItem(t, db, binB.ID, "SKU-002", 50)

	rule := Models.ScheduleRule{LocationID: location.ID, LocationName: location.Name, RegularDays: everyDay()}
	if err := Models.UpsertScheduleRule(db, &rule); err != nil {
		t.Fatalf("upserting rule: %v", err)
	}

	first := Models.RunScheduledGeneration(db)
	if first.Generated != 2 {
		t.Fatalf("first run should generate 2 tasks, got %d", first.Generated)
	}

	second := Models.RunScheduledGeneration(db)
	if second.Generated != 0 {
		t.Fatalf("second run should generate nothing, got %d", second.Generated)
	}
	if second.Generated+second.Skipped != 2 {
		t.Fatalf("second run should account for both bins, got %d generated + %d skipped",
			second.Generated, second.Skipped)
	}

	var count int64
	db.Model(&Models.CountTask{}).Count(&count)
	if count != 2 {
		t.Fatalf("re-running must not duplicate tasks, found %d", count)
	}
}

func TestRunScheduledGenerationSkipsNotDueAndEmptyLocations(t *testing.T) {
	db := newTestDB(t)

	// Location with a never-due rule.
	idle := seedLocation(t, db, "Idle")
	idleBin := seedBin(t, db, idle.ID, "I-01")
	seedItem(t, db, idleBin.ID, "SKU-IDLE", 10)
	neverRule := Models.ScheduleRule{LocationID: idle.ID, RegularDays: []bool{false, false, false, false, false, false, false}}
	if err := Models.UpsertScheduleRule(db, &neverRule); err != nil {
		t.Fatalf("upserting never-due rule: %v", err)
	}

	// Due location without any bins.
	empty := seedLocation(t, db, "Empty")
	emptyRule := Models.ScheduleRule{LocationID: empty.ID, RegularDays: everyDay()}
	if err := Models.UpsertScheduleRule(db, &emptyRule); err != nil {
		t.Fatalf("upserting empty-location rule: %v", err)
	}

	report := Models.RunScheduledGeneration(db)
	if report.Generated != 0 || report.Skipped != 0 || len(report.Errors) != 0 {
		t.Fatalf("expected a quiet no-op run, got %+v", report)
	}
}

func TestRunScheduledGenerationSkipsEmptyBins(t *testing.T) {
	db := newTestDB(t)
	location := seedLocation(t, db, "Main Warehouse")
	stocked := seedBin(t, db, location.ID, "A-01")
	seedBin(t, db, location.ID, "A-02") // no items
	seedItem(t, db, stocked.ID, "SKU-001", 100)

	rule := Models.ScheduleRule{LocationID: location.ID, RegularDays: everyDay()}
	if err := Models.UpsertScheduleRule(db, &rule); err != nil {
		t.Fatalf("upserting rule: %v", err)
	}

	report := Models.RunScheduledGeneration(db)
	if len(report.Errors) != 0 {
		t.Fatalf("an empty bin is not an error: %v", report.Errors)
	}
	if report.Generated != 1 || report.Skipped != 1 {
		t.Fatalf("expected 1 generated / 1 skipped, got %d / %d", report.Generated, report.Skipped)
	}
}

func TestScheduledTasksSnapshotExpectedQuantities(t *testing.T) {
	db := newTestDB(t)
	location := seedLocation(t, db, "Main Warehouse")
	bin := seedBin(t, db, location.ID, "A-01")
	item := seedItem(t, db, bin.ID, "SKU-001", 100)

	rule := Models.ScheduleRule{LocationID: location.ID, RegularDays: everyDay()}
	if err := Models.UpsertScheduleRule(db, &rule); err != nil {
		t.Fatalf("upserting rule: %v", err)
	}
	if report := Models.RunScheduledGeneration(db); report.Generated != 1 {
		t.Fatalf("expected one generated task, got %+v", report)
	}

	// Stock moves after generation; the snapshot must not.
	if err := Models.SetItemStock(db, item.ID, 40); err != nil {
		t.Fatalf("moving stock: %v", err)
	}

	var line Models.CountLineItem
	if err := db.Where("item_id = ?", item.ID).First(&line).Error; err != nil {
		t.Fatalf("loading line item: %v", err)
	}
	if line.ExpectedQuantity != 100 {
		t.Fatalf("expected quantity must stay at the creation-time snapshot, got %v", line.ExpectedQuantity)
	}
}

func TestRunScheduledGenerationSkipsInactiveLocations(t *testing.T) {
	db := newTestDB(t)
	location := seedLocation(t, db, "Mothballed")
	bin := seedBin(t, db, location.ID, "M-01")
	seedItem(t, db, bin.ID, "SKU-001", 100)

	rule := Models.ScheduleRule{LocationID: location.ID, LocationName: location.Name, RegularDays: everyDay()}
	if err := Models.UpsertScheduleRule(db, &rule); err != nil {
		t.Fatalf("upserting rule: %v", err)
	}

	// Deactivating the location leaves the rule behind; it must go quiet.
	if err := db.Model(&location).Update("active", false).Error; err != nil {
		t.Fatalf("deactivating location: %v", err)
	}

	report := Models.RunScheduledGeneration(db)
	if report.Generated != 0 || report.Skipped != 0 || len(report.Errors) != 0 {
		t.Fatalf("a deactivated location must not generate counts, got %+v", report)
	}

	var count int64
	db.Model(&Models.CountTask{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no tasks, found %d", count)
	}
}

func TestRunScheduledGenerationIsolatesLocationFailures(t *testing.T) {
	db := newTestDB(t)

	// A rule whose location row is gone fails its run.
	ghost := Models.ScheduleRule{LocationID: 999, LocationName: "Ghost", RegularDays: everyDay()}
	if err := Models.UpsertScheduleRule(db, &ghost); err != nil {
		t.Fatalf("upserting ghost rule: %v", err)
	}

	healthy := seedLocation(t, db, "Main Warehouse")
	bin := seedBin(t, db, healthy.ID, "A-01")
	seedItem(t, db, bin.ID, "SKU-001", 100)
	rule := Models.ScheduleRule{LocationID: healthy.ID, LocationName: healthy.Name, RegularDays: everyDay()}
	if err := Models.UpsertScheduleRule(db, &rule); err != nil {
		t.Fatalf("upserting rule: %v", err)
	}

	report := Models.RunScheduledGeneration(db)
	if report.Generated != 1 {
		t.Fatalf("a failing location must not abort the rest of the run, got %+v", report)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected the ghost location's failure in the report, got %v", report.Errors)
	}
}
