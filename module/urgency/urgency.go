// Package urgency labels grievance text High/Medium/Low. The primary path
// is an external text-classification service; keyword matching covers every
// failure so a label always comes back.
package urgency

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"NagarSeva/logger"
	issuemodel "NagarSeva/module/issue/model"
)

type Classifier struct {
	Endpoint string
	HTTP     *http.Client
}

func New(endpoint string, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Classifier{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Urgency string `json:"urgency"`
}

// Classify never fails: any service error, timeout, non-2xx status or label
// outside {High, Medium, Low} resolves through the keyword fallback.
func (c *Classifier) Classify(ctx context.Context, text string) string {
	if label, ok := c.classifyRemote(ctx, text); ok {
		return label
	}
	return Fallback(text)
}

func (c *Classifier) classifyRemote(ctx context.Context, text string) (string, bool) {
	if c.Endpoint == "" {
		return "", false
	}
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return "", false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/classify", bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		logger.Warnf("urgency service unreachable, using keyword fallback: %v", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warnf("urgency service status %d, using keyword fallback", resp.StatusCode)
		return "", false
	}
	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		logger.Warnf("urgency service bad payload, using keyword fallback: %v", err)
		return "", false
	}
	switch out.Urgency {
	case issuemodel.UrgencyHigh, issuemodel.UrgencyMedium, issuemodel.UrgencyLow:
		return out.Urgency, true
	}
	logger.Warnf("urgency service returned unknown label %q, using keyword fallback", out.Urgency)
	return "", false
}

var highKeywords = []string{
	"explosion", "fire", "blast", "flood", "short circuit", "electric shock", "gas leak",
	"fatal", "injury", "emergency", "accident", "collapsed", "died", "death", "bleeding",
	"serious", "severe", "critical", "danger", "unsafe", "life-threatening",
}

var mediumKeywords = []string{
	"water leakage", "leaking", "internet down", "no internet", "power cut", "no electricity",
	"power outage", "power failure", "blocked road", "clogged", "damaged pipe", "crack in wall",
	"no water", "fan not working", "ac not working", "lift stuck", "broken light", "malfunction",
	"low voltage", "overheating", "network issue", "plumbing issue",
}

var lowKeywords = []string{
	"slow wifi", "dust", "noise", "dirty", "garbage", "smell", "mosquito", "rats", "light flicker",
	"dirty floor", "cleaning needed", "unhygienic", "maintenance required", "bugs", "small leak",
	"water drip", "minor issue", "rust", "peeling paint", "old wiring", "slow drainage",
}

// Fallback does case-insensitive substring matching against the fixed tiers,
// first matching tier wins in High, Medium, Low order. Default Low.
func Fallback(text string) string {
	t := strings.ToLower(text)
	for _, kw := range highKeywords {
		if strings.Contains(t, kw) {
			return issuemodel.UrgencyHigh
		}
	}
	for _, kw := range mediumKeywords {
		if strings.Contains(t, kw) {
			return issuemodel.UrgencyMedium
		}
	}
	for _, kw := range lowKeywords {
		if strings.Contains(t, kw) {
			return issuemodel.UrgencyLow
		}
	}
	return issuemodel.UrgencyLow
}
