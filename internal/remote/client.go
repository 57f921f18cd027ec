// Package remote implements the Supabase PostgREST client for the hosted
// leaderboard table.
package remote

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sheikhAI44/flapppybirdd/internal/domain"
	"github.com/sheikhAI44/flapppybirdd/internal/errors"
	"github.com/sheikhAI44/flapppybirdd/internal/ratelimit"
)

const (
	// HTTP client settings
	defaultTimeout = 30 * time.Second

	// topScoresRPC is the optional server-side ranking function. Query
	// falls back to an equivalent order-by query when it is absent.
	topScoresRPC = "get_top_scores"

	// limiterKey: all requests go to one project, so a single bucket.
	limiterKey = "supabase"
)

// emailPattern is the identifier format accepted for remote submission.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Config holds the remote endpoint settings.
type Config struct {
	URL               string
	AnonKey           string
	Table             string
	RequestsPerSecond float64
	Burst             int
}

// Client is a rate-limited Supabase PostgREST client.
type Client struct {
	baseURL string
	anonKey string
	table   string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a client after validating the endpoint configuration.
// Placeholder or malformed credentials fail fast with a configuration
// error; that condition is reported once and never retried.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Table == "" {
		cfg.Table = "scores"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2.0
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		table:   cfg.Table,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(cfg.RequestsPerSecond, cfg.Burst),
		logger:  logger,
	}, nil
}

// validateConfig rejects empty or placeholder credentials.
func validateConfig(cfg Config) error {
	switch {
	case cfg.URL == "":
		return errors.Configuration("Supabase URL not configured; set SUPABASE_URL to your project URL")
	case !strings.HasPrefix(cfg.URL, "https://") || strings.Contains(cfg.URL, "YOUR_SUPABASE"):
		return errors.Configurationf("Supabase URL %q is not a valid project URL", cfg.URL)
	case cfg.AnonKey == "":
		return errors.Configuration("Supabase API key not configured; set SUPABASE_ANON_KEY to your anon key")
	case !strings.HasPrefix(cfg.AnonKey, "eyJ") || strings.Contains(cfg.AnonKey, "YOUR_SUPABASE"):
		return errors.Configuration("Supabase API key does not look like an anon key")
	}
	return nil
}

// Table returns the configured scores table name.
func (c *Client) Table() string {
	return c.table
}

// Insert submits a score. Identifier format and score bounds are checked
// before any network call. The returned record carries the server-assigned
// ID and timestamp.
func (c *Client) Insert(ctx context.Context, email string, score int) (*domain.ScoreRecord, error) {
	if !emailPattern.MatchString(email) {
		return nil, errors.Validation("invalid email format")
	}
	if score < 0 || score > domain.MaxScore {
		return nil, errors.Validationf("score must be between 0 and %d", domain.MaxScore)
	}

	payload, err := json.Marshal([]map[string]any{{"email": email, "score": score}})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "encode insert payload")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/rest/v1/"+c.table, nil, payload, http.Header{
		"Prefer": []string{"return=representation"},
	})
	if err != nil {
		return nil, err
	}

	var rows []domain.ScoreRecord
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "decode insert response")
	}
	if len(rows) == 0 {
		return nil, errors.Unknown("insert returned no rows")
	}
	row := rows[0]
	row.Synced = true
	return &row, nil
}

// Query returns the top limit scores, ordered by score descending with
// created_at ascending as the tie-break. It prefers the server-side ranking
// function and falls back transparently to the equivalent order-by query.
// An empty result set is a valid success.
func (c *Client) Query(ctx context.Context, limit int) ([]domain.ScoreRecord, error) {
	rows, err := c.queryRPC(ctx, limit)
	if err == nil {
		return rows, nil
	}

	// Only the optimization path failed so far; any error here means the
	// function is unusable and the plain query decides the outcome.
	c.logger.Debug("top-scores function unavailable, using order-by query", "error", err)
	return c.queryOrderBy(ctx, limit)
}

// queryRPC calls the get_top_scores function.
func (c *Client) queryRPC(ctx context.Context, limit int) ([]domain.ScoreRecord, error) {
	payload, err := json.Marshal(map[string]int{"limit_count": limit})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "encode rpc payload")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/rest/v1/rpc/"+topScoresRPC, nil, payload, nil)
	if err != nil {
		return nil, err
	}

	var rows []domain.ScoreRecord
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "decode rpc response")
	}
	return rows, nil
}

// queryOrderBy runs the manual equivalent of the ranking function.
func (c *Client) queryOrderBy(ctx context.Context, limit int) ([]domain.ScoreRecord, error) {
	query := url.Values{
		"select": []string{"id,email,score,created_at"},
		"order":  []string{"score.desc,created_at.asc"},
		"limit":  []string{strconv.Itoa(limit)},
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/rest/v1/"+c.table, query, nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []domain.ScoreRecord
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "decode query response")
	}
	return rows, nil
}

// Probe issues the cheapest possible read against the scores table and
// returns its round-trip time. A nil error means the backend is reachable
// and the schema exists.
func (c *Client) Probe(ctx context.Context) (time.Duration, error) {
	query := url.Values{
		"select": []string{"id"},
		"limit":  []string{"1"},
	}

	start := time.Now()
	_, err := c.doRequest(ctx, http.MethodGet, "/rest/v1/"+c.table, query, nil, nil)
	return time.Since(start), err
}

// doRequest executes one rate-limited request and returns the response body
// or a classified domain error.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload []byte, extra http.Header) ([]byte, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "rate limit wait")
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "create request")
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	c.logger.Debug("supabase request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failures, DNS errors, and timeouts are all transient
		// from the caller's perspective.
		return nil, errors.Wrap(err, errors.CodeNetwork, "request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetwork, "read response")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}
	return nil, classifyError(resp.StatusCode, respBody)
}
