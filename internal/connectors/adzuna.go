package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// adzunaBaseURL is the Adzuna job search API root. Overridable in tests.
const adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"

const adzunaResultsPerPage = 20

// AdzunaConnector is the real, authenticated adapter. It enforces a minimum
// inter-request interval and retries transient 429/5xx responses with
// exponential backoff before giving up.
type AdzunaConnector struct {
	appID   string
	appKey  string
	country string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	retry   RetryConfig
	log     *zap.Logger
}

// AdzunaOptions configures the real adapter.
type AdzunaOptions struct {
	AppID   string
	AppKey  string
	Country string        // ISO country code used in the API path, e.g. "in"
	MinGap  time.Duration // minimum interval between requests
	Retry   RetryConfig
	BaseURL string // test override; empty means the production API
	Client  *http.Client
}

// NewAdzunaConnector builds the real Adzuna adapter. Credentials must be
// present; callers decide the mock fallback, not this constructor.
func NewAdzunaConnector(opts AdzunaOptions, log *zap.Logger) (*AdzunaConnector, error) {
	if opts.AppID == "" || opts.AppKey == "" {
		return nil, errors.New("adzuna: app id and app key are required")
	}
	if opts.Country == "" {
		opts.Country = "in"
	}
	if opts.MinGap <= 0 {
		opts.MinGap = time.Second
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryConfig
	}
	if opts.BaseURL == "" {
		opts.BaseURL = adzunaBaseURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	return &AdzunaConnector{
		appID:   opts.AppID,
		appKey:  opts.AppKey,
		country: opts.Country,
		baseURL: opts.BaseURL,
		client:  opts.Client,
		limiter: rate.NewLimiter(rate.Every(opts.MinGap), 1),
		retry:   opts.Retry,
		log:     log.Named("adzuna"),
	}, nil
}

func (c *AdzunaConnector) SourceID() string     { return "adzuna" }
func (c *AdzunaConnector) SourceFamily() string { return "adzuna" }
func (c *AdzunaConnector) IsMock() bool         { return false }

// adzunaResponse mirrors the subset of the Adzuna search payload we consume.
type adzunaResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		Description string `json:"description"`
		RedirectURL string `json:"redirect_url"`
		Created     string `json:"created"`
	} `json:"results"`
}

// Fetch queries the Adzuna search endpoint. All failures come back as
// *Error so the aggregator can degrade to mock data for this source.
func (c *AdzunaConnector) Fetch(ctx context.Context, q Query) ([]RawJob, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	endpoint := fmt.Sprintf("%s/%s/search/%d", c.baseURL, c.country, page)
	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("what", q.Keywords)
	params.Set("where", q.Location)
	params.Set("results_per_page", fmt.Sprint(adzunaResultsPerPage))

	body, err := retryDo(ctx, c.retry, c.log, func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return c.get(ctx, endpoint+"?"+params.Encode())
	}, func(err error) bool {
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) {
			return retryableStatus(statusErr.code)
		}
		// Treat transport-level failures as transient.
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	})
	if err != nil {
		return nil, &Error{Source: c.SourceID(), Message: "search request failed", Cause: err}
	}

	var payload adzunaResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{Source: c.SourceID(), Message: "malformed response", Cause: err}
	}

	jobs := make([]RawJob, 0, len(payload.Results))
	for _, r := range payload.Results {
		posted, _ := time.Parse(time.RFC3339, r.Created)
		jobs = append(jobs, RawJob{
			Title:    r.Title,
			Company:  r.Company.DisplayName,
			Location: r.Location.DisplayName,
			Excerpt:  r.Description,
			URL:      r.RedirectURL,
			Posted:   posted,
		})
	}
	c.log.Info("fetched jobs", zap.Int("count", len(jobs)), zap.String("keywords", q.Keywords))
	return jobs, nil
}

func (c *AdzunaConnector) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// httpStatusError carries a non-200 status through the retry loop.
type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP status %d", e.code)
}
