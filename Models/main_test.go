package Models_test

import (
	"fmt"
	"testing"

	"StockTake/Models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
// Each test gets its own named shared-cache DSN so pooled connections see
// the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Models.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func seedWorker(t *testing.T, db *gorm.DB, name string) Models.User {
	t.Helper()
	user := Models.User{Name: name, Email: name + "@stocktake.local", Permission: Models.PermissionCounter}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seeding worker %s: %v", name, err)
	}
	return user
}

func seedLocation(t *testing.T, db *gorm.DB, name string) Models.Location {
	t.Helper()
	location := Models.Location{Name: name, Active: true}
	if err := db.Create(&location).Error; err != nil {
		t.Fatalf("seeding location %s: %v", name, err)
	}
	return location
}

func seedBin(t *testing.T, db *gorm.DB, locationID uint, code string) Models.Bin {
	t.Helper()
	bin := Models.Bin{LocationID: locationID, Code: code, Active: true}
	if err := db.Create(&bin).Error; err != nil {
		t.Fatalf("seeding bin %s: %v", code, err)
	}
	return bin
}

func seedItem(t *testing.T, db *gorm.DB, binID uint, sku string, stock float64) Models.Item {
	t.Helper()
	item := Models.Item{Name: "Item " + sku, SKU: sku, BinID: &binID, CurrentStock: stock}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seeding item %s: %v", sku, err)
	}
	return item
}

// seedBinCount creates a draft count over one bin's items.
func seedBinCount(t *testing.T, db *gorm.DB, locationID, binID uint) *Models.CountTask {
	t.Helper()
	task, err := Models.CreateCountTask(db, Models.CreateCountInput{
		LocationID: locationID,
		BinID:      &binID,
		CreatedBy:  "test",
	})
	if err != nil {
		t.Fatalf("creating count task: %v", err)
	}
	return task
}
