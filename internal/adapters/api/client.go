package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mikey-austin/media_federation/pkg/mf"
	"go.uber.org/zap"
)

// DefaultMaxAssetBytes caps a single asset download.
const DefaultMaxAssetBytes = 20 << 20

// Config configures the federation API client.
type Config struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	MaxAssetBytes int64
}

// Client talks to the federation backend REST surface.
type Client struct {
	log    *zap.Logger
	http   *http.Client
	config Config
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP error! Status: %d", e.Method, e.Path, e.Code)
}

// TransportError wraps a failed request.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

// NewClient creates an API client.
func NewClient(log *zap.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base_url required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("base_url: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAssetBytes <= 0 {
		cfg.MaxAssetBytes = DefaultMaxAssetBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		log:    log,
		http:   &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}, nil
}

// Search returns flat per-server hits for a query.
func (c *Client) Search(ctx context.Context, query string) ([]mf.SearchHit, error) {
	params := url.Values{}
	params.Set("q", query)
	var hits []mf.SearchHit
	if err := c.getJSON(ctx, "/api/search", params, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

// Media returns the cross-server detail record for a guid.
func (c *Client) Media(ctx context.Context, guid string) (mf.MediaDetails, error) {
	var details mf.MediaDetails
	if err := c.getJSON(ctx, "/api/media/"+url.PathEscape(guid), nil, &details); err != nil {
		return mf.MediaDetails{}, err
	}
	return details, nil
}

// Servers lists known servers.
func (c *Client) Servers(ctx context.Context) ([]mf.Server, error) {
	var servers []mf.Server
	if err := c.getJSON(ctx, "/api/servers", nil, &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// Libraries lists the libraries of a server.
func (c *Client) Libraries(ctx context.Context, serverID string) ([]mf.Library, error) {
	var libs []mf.Library
	endpoint := fmt.Sprintf("/api/servers/%s/libraries", serverID)
	if err := c.getJSON(ctx, endpoint, nil, &libs); err != nil {
		return nil, err
	}
	return libs, nil
}

// LibraryItems returns the flat listing of one library.
func (c *Client) LibraryItems(ctx context.Context, serverID string, libraryKey string) ([]mf.LibraryItem, error) {
	var items []mf.LibraryItem
	endpoint := fmt.Sprintf("/api/servers/%s/libraries/%s", serverID, libraryKey)
	if err := c.getJSON(ctx, endpoint, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Seasons returns the season summaries of a show.
func (c *Client) Seasons(ctx context.Context, serverID string, showID string) ([]mf.SeasonSummary, error) {
	var seasons []mf.SeasonSummary
	endpoint := fmt.Sprintf("/api/servers/%s/shows/%s/seasons", serverID, showID)
	if err := c.getJSON(ctx, endpoint, nil, &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

// Episodes returns the episodes of a season.
func (c *Client) Episodes(ctx context.Context, serverID string, seasonID string) ([]mf.EpisodeDetails, error) {
	var episodes []mf.EpisodeDetails
	endpoint := fmt.Sprintf("/api/servers/%s/seasons/%s/episodes", serverID, seasonID)
	if err := c.getJSON(ctx, endpoint, nil, &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// FetchAsset downloads raw asset bytes for a server-supplied path.
func (c *Client) FetchAsset(ctx context.Context, serverID string, assetPath string) ([]byte, error) {
	endpoint := ImagePath(serverID, assetPath)
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxAssetBytes+1))
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, Path: endpoint, Err: err}
	}
	if int64(len(data)) > c.config.MaxAssetBytes {
		return nil, &TransportError{Method: http.MethodGet, Path: endpoint, Err: fmt.Errorf("asset exceeds %d bytes", c.config.MaxAssetBytes)}
	}
	return data, nil
}

// ImagePath composes the image endpoint for a server asset, stripping one leading slash.
func ImagePath(serverID string, assetPath string) string {
	return fmt.Sprintf("/api/servers/%s/image/%s", serverID, strings.TrimPrefix(assetPath, "/"))
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Method: http.MethodGet, Path: endpoint, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+endpoint, body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: endpoint, Err: err}
	}
	c.authorize(req, endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", endpoint), zap.Error(err))
		return nil, &TransportError{Method: method, Path: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		c.log.Debug("request rejected", zap.String("method", method), zap.String("path", endpoint), zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Method: method, Path: endpoint, Code: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

// authorize attaches the bearer token to /api requests unless one is already set.
func (c *Client) authorize(req *http.Request, endpoint string) {
	if !strings.HasPrefix(endpoint, "/api") {
		return
	}
	token := strings.TrimSpace(c.config.Token)
	if token == "" {
		c.log.Debug("no authorization header added", zap.String("path", endpoint))
		return
	}
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
