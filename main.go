package main

import (
	"log"

	"StockTake/CronJobs"
	"StockTake/FiberConfig"
	"StockTake/Models"
	"StockTake/Notifications"
)

func main() {
	Models.Connect()

	if err := Notifications.InitFirebase(); err != nil {
		log.Printf("Failed to initialize Firebase: %v", err)
	}

	scheduler := CronJobs.NewCountScheduler(Models.DB, false)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start count generation scheduler: %v", err)
	}
	defer scheduler.Stop()

	FiberConfig.FiberConfig(scheduler)
}
