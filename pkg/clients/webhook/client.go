package webhook

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"onboarding-intake/pkg/models"
)

// Result reports the outcome of one webhook delivery. Status is zero when
// the request never completed.
type Result struct {
	OK     bool `json:"ok"`
	Status int  `json:"status,omitempty"`
}

// Notifier defines the interface for delivering records to an automation
// endpoint. Delivery is best-effort: failures are reported, never returned
// as errors.
type Notifier interface {
	Notify(records []models.Record) Result
}

type notifierImpl struct {
	url        string
	httpClient *http.Client
}

// NewNotifier creates a notifier for one webhook destination
func NewNotifier(url string) Notifier {
	return &notifierImpl{
		url:        url,
		httpClient: &http.Client{},
	}
}

func (n *notifierImpl) Notify(records []models.Record) Result {
	jsonPayload, err := json.Marshal(records)
	if err != nil {
		log.Printf("Error encoding webhook payload: %v", err)
		return Result{OK: false}
	}

	req, err := http.NewRequest("POST", n.url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		log.Printf("Error creating webhook request: %v", err)
		return Result{OK: false}
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		log.Printf("Webhook error for %s: %v", n.url, err)
		return Result{OK: false}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		log.Printf("Webhook %s returned status %d", n.url, resp.StatusCode)
	}
	return Result{OK: ok, Status: resp.StatusCode}
}
