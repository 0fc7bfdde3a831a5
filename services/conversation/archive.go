package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"voicedesk/models"

	"github.com/go-redis/redis/v8"
)

const summaryPrefix = "session:summary:"

// SummaryArchive persists session summaries for later analytics once a
// conversation ends and its context is discarded.
type SummaryArchive struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryArchive returns a Redis-backed archive with the given TTL.
func NewSummaryArchive(client *redis.Client, ttl time.Duration) *SummaryArchive {
	return &SummaryArchive{client: client, ttl: ttl}
}

// Save stores the summary under its session id.
func (a *SummaryArchive) Save(ctx context.Context, summary *models.SessionSummary) error {
	b, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal session summary: %w", err)
	}
	key := summaryPrefix + summary.SessionID
	if err := a.client.Set(ctx, key, b, a.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session summary: %w", err)
	}
	return nil
}

// Get retrieves an archived summary, or nil if none exists.
func (a *SummaryArchive) Get(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	data, err := a.client.Get(ctx, summaryPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary models.SessionSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session summary: %w", err)
	}
	return &summary, nil
}
