// Package sitegen notifies the external site-generation service of
// newly created institutions so it can produce their descriptions.
// Notification is fire and forget: the pipeline never waits on it and
// failures are logged and dropped.
package sitegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/vantage/internal/domain/model"
	"github.com/okian/vantage/pkg/logger"
)

// Notice is the payload sent per created institution.
type Notice struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Country     string   `json:"country,omitempty"`
	WebsiteURL  string   `json:"website_url,omitempty"`
	Members     []string `json:"members"`
}

// Trigger posts institution notices. A zero URL disables it.
type Trigger struct {
	url    string
	client *http.Client
	log    logger.Logger
}

// New builds a trigger with its own timeout-bounded client.
func New(url string, timeout time.Duration, log logger.Logger) *Trigger {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Trigger{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.Named("sitegen"),
	}
}

// Enabled reports whether a target URL is configured.
func (t *Trigger) Enabled() bool { return t.url != "" }

// NotifyCreated dispatches one notice per institution in the
// background and returns immediately.
func (t *Trigger) NotifyCreated(inst model.Institution, memberLogins []string) {
	if !t.Enabled() {
		return
	}

	notice := Notice{
		Name:        inst.Name,
		DisplayName: inst.DisplayName,
		Country:     inst.Country,
		WebsiteURL:  inst.WebsiteURL,
		Members:     memberLogins,
	}

	go func() {
		if err := t.send(notice); err != nil {
			t.log.Warn(context.Background(), "institution notice dropped",
				logger.String("institution", notice.Name),
				logger.Error(err))
		}
	}()
}

func (t *Trigger) send(notice Notice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sitegen responded %d", resp.StatusCode)
	}
	return nil
}
