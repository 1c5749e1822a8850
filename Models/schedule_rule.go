package Models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DateOverride is an explicit per-date decision on a schedule rule. It beats
// both the weekday vector and the holiday list.
type DateOverride struct {
	Date string `json:"date"` // YYYY-MM-DD
	Skip bool   `json:"skip"`
}

// ScheduleRule is the recurrence rule for one storage location: which
// weekdays it is normally counted on, plus per-date overrides and holidays.
// One rule per location, upserted by location.
type ScheduleRule struct {
	gorm.Model
	LocationID     uint   `json:"location_id" gorm:"not null;uniqueIndex"`
	LocationName   string `json:"location_name"`
	HighValueDaily bool   `json:"high_value_daily"`

	// Decoded views of the JSON columns below.
	RegularDays []bool         `json:"regular_days" gorm:"-"` // index 0 = Sunday
	Overrides   []DateOverride `json:"overrides" gorm:"-"`
	Holidays    []string       `json:"holidays" gorm:"-"`

	JSONRegularDays datatypes.JSON `json:"-"`
	JSONOverrides   datatypes.JSON `json:"-"`
	JSONHolidays    datatypes.JSON `json:"-"`
}

func (r *ScheduleRule) BeforeSave(tx *gorm.DB) error {
	days, err := json.Marshal(r.RegularDays)
	if err != nil {
		return err
	}
	overrides, err := json.Marshal(r.Overrides)
	if err != nil {
		return err
	}
	holidays, err := json.Marshal(r.Holidays)
	if err != nil {
		return err
	}
	r.JSONRegularDays = days
	r.JSONOverrides = overrides
	r.JSONHolidays = holidays
	return nil
}

func (r *ScheduleRule) AfterFind(tx *gorm.DB) error {
	if len(r.JSONRegularDays) > 0 {
		if err := json.Unmarshal(r.JSONRegularDays, &r.RegularDays); err != nil {
			return err
		}
	}
	if len(r.JSONOverrides) > 0 {
		if err := json.Unmarshal(r.JSONOverrides, &r.Overrides); err != nil {
			return err
		}
	}
	if len(r.JSONHolidays) > 0 {
		if err := json.Unmarshal(r.JSONHolidays, &r.Holidays); err != nil {
			return err
		}
	}
	return nil
}

// IsDueOn reports whether the location is due for a count on the given
// calendar date. Precedence: explicit override, then holiday, then the
// high-value daily flag, then the weekday vector. Pure; date must already be
// normalized by CountDate so all comparisons happen on the same day string.
func (r *ScheduleRule) IsDueOn(date string, weekday time.Weekday) bool {
	for _, o := range r.Overrides {
		if o.Date == date {
			return !o.Skip
		}
	}
	for _, h := range r.Holidays {
		if h == date {
			return false
		}
	}
	if r.HighValueDaily {
		return true
	}
	if int(weekday) < len(r.RegularDays) {
		return r.RegularDays[weekday]
	}
	return false
}

// UpsertScheduleRule creates or replaces the rule for a location.
func UpsertScheduleRule(db *gorm.DB, rule *ScheduleRule) error {
	if rule.LocationID == 0 {
		return ErrValidation
	}
	var existing ScheduleRule
	err := db.Where("location_id = ?", rule.LocationID).First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return db.Create(rule).Error
		}
		return err
	}
	rule.ID = existing.ID
	rule.CreatedAt = existing.CreatedAt
	return db.Save(rule).Error
}
