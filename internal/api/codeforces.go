package api

import (
	"codeforces-tracker/internal/config"
	"codeforces-tracker/internal/constants"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var (
	// ErrNotFound is returned when the API answers with a non-OK status,
	// typically an unknown handle.
	ErrNotFound = errors.New("not found")
	// ErrUpstream covers transport failures, proxy errors and bodies that
	// are not a Codeforces envelope. Callers may retry.
	ErrUpstream = errors.New("upstream unavailable")
)

type APIError struct {
	Method     string
	StatusCode int
	Comment    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Comment != "" {
		return fmt.Sprintf("codeforces %s: %s (status %d)", e.Method, e.Comment, e.StatusCode)
	}
	return fmt.Sprintf("codeforces %s: status %d", e.Method, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

type CodeforcesClient struct {
	baseURL string
	client  *fasthttp.Client
	limiter *limiter
	logger  zerolog.Logger
}

func NewCodeforcesClient(cfg *config.Config, logger zerolog.Logger) *CodeforcesClient {
	return &CodeforcesClient{
		baseURL: strings.TrimRight(cfg.APIBase, "/"),
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         30 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
			// problemset.problems is several megabytes
			MaxResponseBodySize: 64 << 20,
		},
		limiter: newLimiter(cfg.MinInterval),
		logger:  logger,
	}
}

type envelope[T any] struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  T      `json:"result"`
}

func (c *CodeforcesClient) GetUserInfo(ctx context.Context, handles ...string) ([]User, error) {
	q := url.Values{}
	q.Set("handles", strings.Join(handles, ";"))
	users, err := doRequest[[]User](ctx, c, "user.info", q)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, &APIError{Method: "user.info", StatusCode: fasthttp.StatusOK, Comment: "no users returned", kind: ErrNotFound}
	}
	return users, nil
}

func (c *CodeforcesClient) GetUserRating(ctx context.Context, handle string) ([]RatingChange, error) {
	q := url.Values{}
	q.Set("handle", handle)
	return doRequest[[]RatingChange](ctx, c, "user.rating", q)
}

func (c *CodeforcesClient) GetUserStatus(ctx context.Context, handle string) ([]Submission, error) {
	q := url.Values{}
	q.Set("handle", handle)
	return doRequest[[]Submission](ctx, c, "user.status", q)
}

func (c *CodeforcesClient) GetProblemset(ctx context.Context) (*Problemset, error) {
	ps, err := doRequest[Problemset](ctx, c, "problemset.problems", url.Values{})
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

// Relay performs a raw GET against an API method and hands back the upstream
// status and body untouched.
func (c *CodeforcesClient) Relay(ctx context.Context, method, rawQuery string) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	target := c.baseURL + "/" + method
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.do(ctx, req, resp); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}

func (c *CodeforcesClient) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	deadline, ok := ctx.Deadline()
	if ok {
		return c.client.DoDeadline(req, resp, deadline)
	}
	return c.client.DoTimeout(req, resp, constants.ExternalAPITimeout)
}

func doRequest[T any](ctx context.Context, client *CodeforcesClient, method string, query url.Values) (T, error) {
	var zero T

	if err := client.limiter.Wait(ctx); err != nil {
		return zero, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	target := client.baseURL + "/" + method
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req.SetRequestURI(target)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	if err := client.do(ctx, req, resp); err != nil {
		client.logger.Warn().Err(err).Str("method", method).Msg("codeforces request failed")
		return zero, &APIError{Method: method, Comment: err.Error(), kind: ErrUpstream}
	}

	client.logger.Debug().
		Str("method", method).
		Int("status", resp.StatusCode()).
		Int("bytes", len(resp.Body())).
		Dur("took", time.Since(start)).
		Msg("codeforces response")

	var env envelope[T]
	if err := json.Unmarshal(resp.Body(), &env); err != nil || env.Status == "" {
		return zero, &APIError{Method: method, StatusCode: resp.StatusCode(), Comment: "undecodable response body", kind: ErrUpstream}
	}

	if env.Status != "OK" {
		kind := ErrNotFound
		if strings.Contains(strings.ToLower(env.Comment), "limit exceeded") {
			kind = ErrUpstream
		}
		return zero, &APIError{Method: method, StatusCode: resp.StatusCode(), Comment: env.Comment, kind: kind}
	}

	return env.Result, nil
}
