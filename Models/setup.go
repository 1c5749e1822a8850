package Models

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the database (mysql when DB_DSN is set, sqlite file
// otherwise), runs migrations and prepares the indexes the count engine
// relies on.
func Connect() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file, using environment as-is")
	}

	var connection *gorm.DB
	var err error
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		connection, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	} else {
		connection, err = gorm.Open(sqlite.Open("database.db"), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = connection

	if err := Migrate(DB); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}

// Migrate creates the schema. Split out from Connect so tests can run it
// against their own in-memory database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Location{},
		&Bin{},
		&Item{},
		&FCMToken{},
	); err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&ScheduleRule{},
		&CountSequence{},
		&CountTask{},
		&CountLineItem{},
	); err != nil {
		return err
	}

	// Seed the numbering sequence so concurrent first creations never race
	// on inserting the row.
	var seq CountSequence
	if err := db.Where("id = ?", 1).FirstOrCreate(&seq, CountSequence{ID: 1}).Error; err != nil {
		return err
	}

	// One scheduled count per bin per day. Partial index so manual counts on
	// the same bin stay possible; on mysql (no partial indexes) the batch
	// generator's covered-bin check carries the invariant instead.
	if db.Dialector.Name() == "sqlite" {
		if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_auto_bin_due
			ON count_tasks(bin_id, due_date)
			WHERE auto_generated = 1 AND deleted_at IS NULL`).Error; err != nil {
			return err
		}
	}

	return nil
}
