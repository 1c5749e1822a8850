package Models

import (
	"gorm.io/gorm"
)

// Location is a storage location (a warehouse zone, a store room). Bins are
// the physical subdivisions a count task is normally scoped to.
type Location struct {
	gorm.Model
	Name   string `json:"name" gorm:"not null;uniqueIndex"`
	Active bool   `json:"active" gorm:"default:true"`
	Bins   []Bin  `json:"bins,omitempty" gorm:"foreignKey:LocationID"`
}

type Bin struct {
	gorm.Model
	LocationID uint   `json:"location_id" gorm:"not null;index"`
	Code       string `json:"code" gorm:"not null;index"`
	Active     bool   `json:"active" gorm:"default:true"`
}

// ActiveBins returns the active bins of a location.
func ActiveBins(db *gorm.DB, locationID uint) ([]Bin, error) {
	var bins []Bin
	if err := db.Where("location_id = ? AND active = ?", locationID, true).Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}
