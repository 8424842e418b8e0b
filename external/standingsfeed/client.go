package standingsfeed

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
	"github.com/riskibarqy/getstandings/internal/platform/resilience"
	"github.com/riskibarqy/getstandings/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout      = 20 * time.Second
	defaultRetryBackoff = time.Second
	defaultUserAgent    = "getstandings/1.0"
	defaultMaxBodyBytes = 6 << 20
	bodyPreviewLimit    = 256
)

var errFeedTransient = crerr.New("standings feed transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	MaxBodyBytes   int
	UserAgent      string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches the standings payload from the query service.
type Client struct {
	httpClient   *fasthttp.Client
	timeout      time.Duration
	retry        resilience.RetryConfig
	maxBodyBytes int
	userAgent    string
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.Group[standings.Blob]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                userAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
			MaxResponseBodySize: maxBodyBytes,
		}
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker.Normalize())
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("standings feed circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient:   httpClient,
		timeout:      timeout,
		retry:        resilience.RetryConfig{Attempts: max(cfg.MaxRetries, 0), Backoff: backoff},
		maxBodyBytes: maxBodyBytes,
		userAgent:    userAgent,
		logger:       logger,
		breaker:      breaker,
	}
}

// Fetch performs one GET against sourceURL and returns the body once it
// decodes as a standings envelope. Concurrent fetches of the same URL share a
// single request.
func (c *Client) Fetch(ctx context.Context, sourceURL string) (standings.Blob, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if err := validateSourceURL(sourceURL); err != nil {
		return "", err
	}

	blob, err, shared := c.flight.Do(sourceURL, func() (standings.Blob, error) {
		return c.fetch(ctx, sourceURL)
	})
	if err != nil {
		return "", err
	}

	c.logger.DebugContext(ctx, "standings feed fetched", "bytes", len(blob), "shared", shared)
	return blob, nil
}

func (c *Client) fetch(ctx context.Context, sourceURL string) (standings.Blob, error) {
	var raw []byte
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return resilience.Retry(ctx, c.retry, isTransient, func(ctx context.Context) error {
			body, reqErr := c.do(ctx, sourceURL)
			if reqErr != nil {
				return reqErr
			}
			raw = body
			return nil
		})
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "standings feed circuit breaker rejected request", "state", c.breaker.State())
			return "", fmt.Errorf("%w: standings feed is temporarily unavailable: %w", usecase.ErrDependencyUnavailable, err)
		}
		c.logger.WarnContext(ctx, "standings feed request failed", "url", sourceURL, "error", err)
		return "", err
	}

	blob := standings.Blob(raw)
	if _, err := standings.DecodeBlob(blob); err != nil {
		return "", crerr.Wrapf(err, "standings feed payload body=%s", abbreviateBody(raw))
	}
	return blob, nil
}

func (c *Client) do(ctx context.Context, sourceURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(sourceURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	req.Header.SetUserAgent(c.userAgent)

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if stderrors.Is(err, fasthttp.ErrBodyTooLarge) {
			return nil, fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes)
		}
		return nil, fmt.Errorf("%w: send request: %v", errFeedTransient, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < 200 || status >= 300 {
		if isRetryableStatus(status) {
			return nil, fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, abbreviateBody(body))
		}
		return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(body))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("feed returned an empty body")
	}
	if len(body) > c.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes)
	}

	// resp is recycled on return.
	return bytes.Clone(body), nil
}

func validateSourceURL(sourceURL string) error {
	if sourceURL == "" {
		return fmt.Errorf("%w: source url is required", usecase.ErrInvalidInput)
	}
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return fmt.Errorf("%w: parse source url: %v", usecase.ErrInvalidInput, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: source url scheme %q is not supported", usecase.ErrInvalidInput, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: source url host is required", usecase.ErrInvalidInput)
	}
	return nil
}

func isTransient(err error) bool {
	return stderrors.Is(err, errFeedTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) <= bodyPreviewLimit {
		return trimmed
	}
	return trimmed[:bodyPreviewLimit] + "..."
}
