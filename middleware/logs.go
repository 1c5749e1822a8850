package middleware

import (
	"StockTake/Models"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LogData contains the information logged per request
type LogData struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	UserID    interface{}   `json:"user_id,omitempty"`
	Username  string        `json:"username,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// RequestLogger logs every request as a JSON line to the console and
// logs/requests.log.
func RequestLogger() fiber.Handler {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		data := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
		}
		if user, ok := c.Locals("user").(Models.User); ok {
			data.UserID = user.ID
			data.Username = user.Name
		}
		if err != nil {
			data.Error = err.Error()
		}

		line, _ := json.Marshal(data)
		log.Println(string(line))
		logToFile("logs/requests.log", string(line))

		return err
	}
}

func logToFile(path, message string) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening request log file: %v\n", err)
		return
	}
	defer file.Close()

	if _, err := file.WriteString(message + "\n"); err != nil {
		log.Printf("Error writing request log: %v\n", err)
	}
}
