package Models_test

import (
	"testing"
	"time"

	"StockTake/Models"
)

func monThroughSat() []bool {
	// index 0 = Sunday
	return []bool{false, true, true, true, true, true, true}
}

func TestIsDueOnRegularDays(t *testing.T) {
	rule := Models.ScheduleRule{RegularDays: monThroughSat()}

	// 2026-01-04 is a Sunday, 2026-01-07 a Wednesday.
	if rule.IsDueOn("2026-01-04", time.Sunday) {
		t.Fatal("Sunday should not be due for a Mon-Sat rule")
	}
	if !rule.IsDueOn("2026-01-07", time.Wednesday) {
		t.Fatal("Wednesday should be due for a Mon-Sat rule")
	}
}

func TestIsDueOnOverrideBeatsRegularDays(t *testing.T) {
	rule := Models.ScheduleRule{
		RegularDays: monThroughSat(),
		Overrides:   []Models.DateOverride{{Date: "2026-01-07", Skip: true}},
	}
	if rule.IsDueOn("2026-01-07", time.Wednesday) {
		t.Fatal("skip override should win over the weekday vector")
	}
}

func TestIsDueOnOverrideBeatsHoliday(t *testing.T) {
	rule := Models.ScheduleRule{
		RegularDays: []bool{false, false, false, false, false, false, false},
		Overrides:   []Models.DateOverride{{Date: "2026-01-07", Skip: false}},
		Holidays:    []string{"2026-01-07"},
	}
	if !rule.IsDueOn("2026-01-07", time.Wednesday) {
		t.Fatal("an include override must win even on a holiday with no regular days")
	}
}

func TestIsDueOnHolidaySuppressesRegularDay(t *testing.T) {
	rule := Models.ScheduleRule{
		RegularDays: monThroughSat(),
		Holidays:    []string{"2026-01-07"},
	}
	if rule.IsDueOn("2026-01-07", time.Wednesday) {
		t.Fatal("holiday should suppress the weekday vector")
	}
}

func TestIsDueOnHighValueDaily(t *testing.T) {
	rule := Models.ScheduleRule{
		RegularDays:    []bool{false, false, false, false, false, false, false},
		HighValueDaily: true,
	}
	if !rule.IsDueOn("2026-01-04", time.Sunday) {
		t.Fatal("high-value locations are due daily")
	}

	rule.Holidays = []string{"2026-01-04"}
	if rule.IsDueOn("2026-01-04", time.Sunday) {
		t.Fatal("holidays still suppress high-value daily counts")
	}
}

func TestIsDueOnDefaultsFalse(t *testing.T) {
	rule := Models.ScheduleRule{}
	if rule.IsDueOn("2026-01-07", time.Wednesday) {
		t.Fatal("a rule without a weekday vector is never due")
	}
}

func TestScheduleRuleRoundTrip(t *testing.T) {
	db := newTestDB(t)
	location := seedLocation(t, db, "Main Warehouse")

	rule := Models.ScheduleRule{
		LocationID:   location.ID,
		LocationName: location.Name,
		RegularDays:  monThroughSat(),
		Overrides:    []Models.DateOverride{{Date: "2026-03-02", Skip: true}},
		Holidays:     []string{"2026-01-01"},
	}
	if err := Models.UpsertScheduleRule(db, &rule); err != nil {
		t.Fatalf("upserting rule: %v", err)
	}

	var loaded Models.ScheduleRule
	if err := db.Where("location_id = ?", location.ID).First(&loaded).Error; err != nil {
		t.Fatalf("loading rule: %v", err)
	}
	if len(loaded.RegularDays) != 7 || !loaded.RegularDays[time.Wednesday] {
		t.Fatalf("regular days did not survive the round trip: %v", loaded.RegularDays)
	}
	if len(loaded.Overrides) != 1 || loaded.Overrides[0].Date != "2026-03-02" || !loaded.Overrides[0].Skip {
		t.Fatalf("overrides did not survive the round trip: %v", loaded.Overrides)
	}
	if len(loaded.Holidays) != 1 || loaded.Holidays[0] != "2026-01-01" {
		t.Fatalf("holidays did not survive the round trip: %v", loaded.Holidays)
	}

	// Upsert replaces in place, keeping one rule per location.
	replacement := Models.ScheduleRule{
		LocationID:  location.ID,
		RegularDays: []bool{true, false, false, false, false, false, false},
	}
	if err := Models.UpsertScheduleRule(db, &replacement); err != nil {
		t.Fatalf("replacing rule: %v", err)
	}
	var count int64
	db.Model(&Models.ScheduleRule{}).Where("location_id = ?", location.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected one rule per location, got %d", count)
	}
}

func TestUpsertScheduleRuleRequiresLocation(t *testing.T) {
	db := newTestDB(t)
	err := Models.UpsertScheduleRule(db, &Models.ScheduleRule{})
	if err == nil {
		t.Fatal("expected a validation error for a rule without a location")
	}
}
