package Models

import (
	"gorm.io/gorm"
)

// Item carries the single authoritative stock figure per SKU. That figure is
// shared with other inventory-mutating flows (receipts, write-offs, sales),
// so every write goes through SetItemStock rather than raw column updates.
type Item struct {
	gorm.Model
	Name         string  `json:"name" gorm:"not null"`
	SKU          string  `json:"sku" gorm:"not null;uniqueIndex"`
	BinID        *uint   `json:"bin_id" gorm:"index"`
	CurrentStock float64 `json:"current_stock" gorm:"default:0"`
}

// ItemsInBin returns the items stored in a bin.
func ItemsInBin(db *gorm.DB, binID uint) ([]Item, error) {
	var items []Item
	if err := db.Where("bin_id = ?", binID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SetItemStock overwrites an item's authoritative stock level. Last writer
// wins across subsystems; the approval flow relies on that.
func SetItemStock(db *gorm.DB, itemID uint, quantity float64) error {
	result := db.Model(&Item{}).Where("id = ?", itemID).Update("current_stock", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
