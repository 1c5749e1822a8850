package Notifications

import (
	"StockTake/Models"
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// Global Firebase client
var firebaseClient *messaging.Client
var ctx = context.Background()

// InitFirebase sets up the FCM client from the service account key file in
// FIREBASE_CREDENTIALS. Push delivery is optional: when the file is not
// configured the notifier stays disabled.
func InitFirebase() error {
	credentials := os.Getenv("FIREBASE_CREDENTIALS")
	if credentials == "" {
		log.Println("FIREBASE_CREDENTIALS not set, push notifications disabled")
		return nil
	}

	opt := option.WithCredentialsFile(credentials)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting Messaging client: %v", err)
	}

	firebaseClient = client
	log.Println("Firebase initialized successfully")
	return nil
}

// NotifyTaskAssigned pushes a notification to the worker who claimed (or was
// assigned) a count task. Failures are logged, never propagated; delivery is
// best-effort.
func NotifyTaskAssigned(db *gorm.DB, task *Models.CountTask) {
	if firebaseClient == nil || task.AssignedTo == nil {
		return
	}
	token := Models.TokenForUser(db, *task.AssignedTo)
	if token == "" {
		return
	}

	message := &messaging.Message{
		Token: token,
		Data: map[string]string{
			"count_number": task.Number,
			"location":     task.LocationName,
			"bin_code":     task.BinCode,
			"due_date":     task.DueDate,
		},
		Notification: &messaging.Notification{
			Title: "Stock count assigned",
			Body: fmt.Sprintf("Count %s at %s (%s) is due %s",
				task.Number, task.LocationName, task.BinCode, task.DueDate),
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
			Priority: "high",
		},
	}

	if _, err := firebaseClient.Send(ctx, message); err != nil {
		log.Printf("Error sending assignment notification for count %s: %v", task.Number, err)
		return
	}
	log.Printf("Assignment notification sent for count %s", task.Number)
}
