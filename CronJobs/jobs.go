package CronJobs

import (
	"fmt"
	"log"

	"StockTake/Models"
	"StockTake/Slack"
	"StockTake/email"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CountScheduler runs the daily count-generation batch. The batch itself is
// idempotent, so an accidental double trigger only produces skips.
type CountScheduler struct {
	cronScheduler  *cron.Cron
	db             *gorm.DB
	runImmediately bool
	jobID          cron.EntryID
}

// NewCountScheduler creates a scheduler over the given database.
func NewCountScheduler(db *gorm.DB, runImmediately bool) *CountScheduler {
	return &CountScheduler{
		cronScheduler:  cron.New(cron.WithSeconds()),
		db:             db,
		runImmediately: runImmediately,
	}
}

// Start schedules the daily generation run at 01:00.
func (s *CountScheduler) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 0 1 * * *", func() {
		log.Println("Running scheduled daily count generation")
		s.runGeneration()
	})

	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	log.Println("Count generation scheduler started - will run daily at 1:00 AM")

	if s.runImmediately {
		log.Println("Running initial count generation")
		s.runGeneration()
	}

	return nil
}

// Stop terminates the scheduler
func (s *CountScheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Count generation scheduler stopped")
	}
}

// UpdateSchedule changes the cron schedule.
// Format: "0 0 1 * * *" = At 01:00:00 AM every day
func (s *CountScheduler) UpdateSchedule(schedule string) error {
	s.cronScheduler.Remove(s.jobID)

	var err error
	s.jobID, err = s.cronScheduler.AddFunc(schedule, func() {
		log.Println("Running scheduled count generation")
		s.runGeneration()
	})

	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}

	log.Printf("Count generation schedule updated to: %s\n", schedule)
	return nil
}

// RunManualCheck executes a manual generation run.
func (s *CountScheduler) RunManualCheck() Models.GenerationReport {
	log.Println("Running manual count generation")
	return s.runGeneration()
}

func (s *CountScheduler) runGeneration() Models.GenerationReport {
	report := Models.RunScheduledGeneration(s.db)

	if err := email.SendGenerationSummary(report); err != nil {
		log.Printf("Error sending generation summary: %v\n", err)
	}

	Slack.PostEscalationDigest(Models.GetEscalations(s.db))

	return report
}
