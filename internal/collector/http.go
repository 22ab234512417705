package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// NewHTTPClient returns the resty client shared by all collectors.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("User-Agent", "job-atlas/1.0")
}

// NewLimiter paces outbound board requests; rps <= 0 disables pacing.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

type fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func (f *fetcher) getJSON(ctx context.Context, url string, headers map[string]string) (gjson.Result, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return gjson.Result{}, err
		}
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.IsError() {
		return gjson.Result{}, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("GET %s: malformed JSON response", url)
	}
	return gjson.ParseBytes(body), nil
}
