package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SessionSuggestion is a single therapy session proposed for a weekday.
type SessionSuggestion struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes,omitempty"`
}

// WeekdayPlan groups suggested sessions under a weekday name ("Monday".."Sunday").
type WeekdayPlan struct {
	Weekday  string              `json:"weekday"`
	Sessions []SessionSuggestion `json:"sessions"`
}

// Request describes the patient context sent to the suggestion service.
type Request struct {
	Condition string   `json:"condition"`
	Weeks     int      `json:"weeks"`
	Weekdays  []string `json:"weekdays,omitempty"`
}

// Client talks to an external treatment-suggestion service. A zero base URL
// disables the client: Suggest returns an empty plan set.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With().Str("component", "suggest").Logger(),
	}
}

// Suggest requests per-weekday session plans for the given condition. Failures
// and empty responses degrade to an empty plan set rather than an error so
// callers can treat suggestions as best-effort.
func (c *Client) Suggest(ctx context.Context, req Request) ([]WeekdayPlan, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding suggestion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/suggestions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building suggestion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Msg("suggestion service unreachable")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("suggestion service returned non-OK status")
		return nil, nil
	}

	var plans []WeekdayPlan
	if err := json.NewDecoder(resp.Body).Decode(&plans); err != nil {
		c.logger.Warn().Err(err).Msg("malformed suggestion response")
		return nil, nil
	}

	return normalizePlans(plans), nil
}

// normalizePlans canonicalizes weekday names and drops entries that do not
// name a real weekday or carry no sessions.
func normalizePlans(plans []WeekdayPlan) []WeekdayPlan {
	out := make([]WeekdayPlan, 0, len(plans))
	for _, p := range plans {
		day, ok := CanonicalWeekday(p.Weekday)
		if !ok || len(p.Sessions) == 0 {
			continue
		}
		sessions := make([]SessionSuggestion, 0, len(p.Sessions))
		for _, s := range p.Sessions {
			if strings.TrimSpace(s.Name) == "" {
				continue
			}
			s.Name = strings.TrimSpace(s.Name)
			sessions = append(sessions, s)
		}
		if len(sessions) == 0 {
			continue
		}
		out = append(out, WeekdayPlan{Weekday: day, Sessions: sessions})
	}
	return out
}

var weekdayNames = map[string]string{
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
	"sunday":    "Sunday",
}

// CanonicalWeekday maps a case-insensitive weekday name to its canonical
// capitalized form. The second return is false for unknown names.
func CanonicalWeekday(name string) (string, bool) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return day, ok
}
