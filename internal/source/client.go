package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-board/internal/api/dto"
	"github.com/spec-kit/ticket-board/internal/config"
	"github.com/spec-kit/ticket-board/internal/domain"
)

const maxPayloadBytes = 16 << 20

// Snapshot is the fetched ticket and user set.
type Snapshot struct {
	Tickets   []domain.Ticket
	Users     []domain.User
	FetchedAt time.Time
}

// Client fetches the board data with a single unauthenticated GET.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client for cfg.Endpoint.
func NewClient(cfg config.SourceConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout()},
		logger:     logger,
	}
}

// Fetch downloads and decodes the payload. Priority and id coercion happen here;
// a payload that cannot be decoded is an error as a whole.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Snapshot{}, fmt.Errorf("fetch %s: unexpected status %d", c.endpoint, resp.StatusCode)
	}

	var payload dto.BoardPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&payload); err != nil {
		return Snapshot{}, fmt.Errorf("decode board payload: %w", err)
	}

	tickets, users := payload.ToDomain()
	c.logger.Debug("board payload fetched",
		zap.String("endpoint", c.endpoint),
		zap.Int("tickets", len(tickets)),
		zap.Int("users", len(users)),
		zap.Duration("duration", time.Since(start)))

	return Snapshot{Tickets: tickets, Users: users, FetchedAt: time.Now()}, nil
}
