package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"willena/internal/model"
)

// Section discriminates the event-store query endpoints. This service only
// consumes sessions and attempts; the other sections exist upstream.
type Section string

const (
	SectionSessions    Section = "sessions"
	SectionAttempts    Section = "attempts"
	SectionKPI         Section = "kpi"
	SectionModes       Section = "modes"
	SectionOverview    Section = "overview"
	SectionChallenging Section = "challenging"
	SectionBadges      Section = "badges"
)

// Source is where raw attempt/session rows come from: the remote
// event-store API in production, the local store in dev and tests.
type Source interface {
	Sessions(ctx context.Context, userID string) ([]model.Session, error)
	Attempts(ctx context.Context, userID string) ([]model.Attempt, error)
}

// Client queries the event-store HTTP API. The store's schema is not ours;
// we only consume the row shapes it returns.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Sessions(ctx context.Context, userID string) ([]model.Session, error) {
	var rows []model.Session
	if err := c.query(ctx, SectionSessions, userID, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Attempts(ctx context.Context, userID string) ([]model.Attempt, error) {
	var rows []model.Attempt
	if err := c.query(ctx, SectionAttempts, userID, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) query(ctx context.Context, section Section, userID string, out any) error {
	q := url.Values{}
	q.Set("section", string(section))
	q.Set("user_id", userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("events: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("events: %s fetch: %w", section, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("events: %s fetch: status %d: %s", section, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("events: %s decode: %w", section, err)
	}
	return nil
}
