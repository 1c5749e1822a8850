package Models

import (
	"os"
	"strconv"
	"strings"
)

type EmailConfig struct {
	SMTPServer   string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TLSEnabled   bool
	SkipTLSCheck bool
}

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
	IsHTML  bool
}

// EmailConfigFromEnv builds the SMTP configuration used for the daily
// generation summary. Returns false when SMTP_SERVER is unset.
func EmailConfigFromEnv() (EmailConfig, bool) {
	server := os.Getenv("SMTP_SERVER")
	if server == "" {
		return EmailConfig{}, false
	}
	port := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			port = parsed
		}
	}
	return EmailConfig{
		SMTPServer: server,
		SMTPPort:   port,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		FromEmail:  os.Getenv("SMTP_FROM"),
		FromName:   "StockTake",
		TLSEnabled: os.Getenv("SMTP_TLS") != "false",
	}, true
}

// SupervisorEmails is the recipient list for generation summaries,
// comma-separated in SUPERVISOR_EMAILS.
func SupervisorEmails() []string {
	raw := os.Getenv("SUPERVISOR_EMAILS")
	if raw == "" {
		return nil
	}
	var emails []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return emails
}
