package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "corpusview/1.0"
)

// Options tunes the HTTP transport
type Options struct {
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client implements domain.PageProvider against the corpus REST API
type Client struct {
	baseURL    string
	token      string
	httpClient *retryablehttp.Client
	logger     *slog.Logger
}

// NewClient creates a new corpus API client
func NewClient(baseURL, token string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = opts.Timeout
	retryClient.RetryMax = max(opts.Retries, 0)
	if opts.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = opts.RetryWaitMax
	}
	retryClient.Logger = logger.With("component", "http")
	// Hand back the final response so status codes can be mapped below
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: retryClient,
		logger:     logger,
	}
}

// BaseURL returns the server URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an authenticated GET and returns the body of a 200
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger := c.logger.With("request_id", requestID)
	logger.Debug("api request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Error("api request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	case http.StatusNotFound:
		return nil, domain.ErrItemNotFound
	default:
		logger.Error("api request error", "status", resp.StatusCode, "body", truncate(string(body), 200))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// filterQuery encodes the filter set the way every media endpoint expects
func filterQuery(filter domain.FilterSet, pageSize int) url.Values {
	query := url.Values{}
	query.Set("pageSize", strconv.Itoa(pageSize))
	if filter.Kind != domain.KindAll {
		query.Set("type", string(filter.Kind))
	}
	if filter.ExcludeScanned {
		query.Set("excludeScanned", "true")
	}
	return query
}

// FetchPage returns one page of the filtered collection. req.Index is
// 0-based; the API's page parameter is 1-based.
func (c *Client) FetchPage(ctx context.Context, req domain.PageRequest) (*domain.Page, error) {
	query := filterQuery(req.Filter, req.PageSize)
	query.Set("page", strconv.Itoa(req.Index+1))

	body, err := c.doRequest(ctx, "/api/media", query)
	if err != nil {
		return nil, err
	}

	var resp PageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse page response: %w", err)
	}
	if resp.Page != req.Index {
		c.logger.Warn("page index mismatch", "requested", req.Index, "returned", resp.Page)
		resp.Page = req.Index
	}
	if len(resp.Items) > req.PageSize {
		resp.Items = resp.Items[:req.PageSize]
	}

	return MapPage(&resp), nil
}

// LocateItem resolves the page and offset of an item under filter.
// Returns domain.ErrItemNotFound when the API answers 404.
func (c *Client) LocateItem(ctx context.Context, id int64, pageSize int, filter domain.FilterSet) (domain.Position, error) {
	path := fmt.Sprintf("/api/media/%d/position", id)
	body, err := c.doRequest(ctx, path, filterQuery(filter, pageSize))
	if err != nil {
		return domain.Position{}, err
	}

	var resp PositionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Position{}, fmt.Errorf("failed to parse position response: %w", err)
	}
	if resp.Page < 0 || resp.Offset < 0 || resp.Offset >= pageSize {
		return domain.Position{}, fmt.Errorf("position out of range: page %d offset %d", resp.Page, resp.Offset)
	}
	return domain.Position{Page: resp.Page, Offset: resp.Offset}, nil
}

// GetItem returns a single item by identifier
func (c *Client) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/api/media/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var dto MediaItemDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse item response: %w", err)
	}
	return MapItem(dto), nil
}

// Health checks the unauthenticated health endpoint
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, "/api/health", nil)
	if errors.Is(err, domain.ErrItemNotFound) {
		return fmt.Errorf("health endpoint missing at %s", c.baseURL)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
