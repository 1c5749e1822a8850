package Slack

import (
	"StockTake/Models"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// SlackClient holds the Slack bot token and base URL
type SlackClient struct {
	Token   string
	Channel string
	BaseURL string
}

// SlackMessage represents a message payload
type SlackMessage struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	Parse   string `json:"parse,omitempty"`
}

// SlackResponse represents the API response
type SlackResponse struct {
	OK      bool   `json:"ok"`
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// NewSlackClient builds a client from SLACK_BOT_TOKEN / SLACK_CHANNEL.
// Returns nil when the token is not configured.
func NewSlackClient() *SlackClient {
	token := os.Getenv("SLACK_BOT_TOKEN")
	if token == "" {
		return nil
	}
	channel := os.Getenv("SLACK_CHANNEL")
	if channel == "" {
		channel = "#stock-counts"
	}
	return &SlackClient{
		Token:   token,
		Channel: channel,
		BaseURL: "https://slack.com/api",
	}
}

// SendMessage posts a message to the configured channel.
func (s *SlackClient) SendMessage(text string) error {
	payload := SlackMessage{
		Channel: s.Channel,
		Text:    text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.BaseURL+"/chat.postMessage", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var slackResp SlackResponse
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return err
	}
	if !slackResp.OK {
		return fmt.Errorf("slack API error: %s", slackResp.Error)
	}
	return nil
}

// PostEscalationDigest posts a summary of outstanding escalations. No-op
// when Slack is not configured or there is nothing to report.
func PostEscalationDigest(escalations []Models.Escalation) {
	if len(escalations) == 0 {
		return
	}
	client := NewSlackClient()
	if client == nil {
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("*%d count escalation(s) need attention*\n", len(escalations)))
	for i, e := range escalations {
		if i >= 15 {
			text.WriteString(fmt.Sprintf("...and %d more\n", len(escalations)-i))
			break
		}
		label := "high variance"
		if e.Type == Models.EscalationMaxRecount {
			label = "recount cycle"
		}
		text.WriteString(fmt.Sprintf("• %s %s (%s): %s expected %.0f counted %.0f (%d%%) [%s]\n",
			e.TaskNumber, e.LocationName, e.BinCode, e.ItemName,
			e.Expected, e.Counted, e.VariancePercent, label))
	}

	if err := client.SendMessage(text.String()); err != nil {
		log.Printf("failed to post escalation digest: %v", err)
	}
}
