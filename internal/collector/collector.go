// Package collector fetches job postings from public job-board APIs and maps them to Listing.
//
// Collectors never panic or fail past their own boundary: a broken board yields a
// *CollectorError alongside whatever listings the other boards produced.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

type Source string

const (
	Greenhouse      Source = "greenhouse"
	Lever           Source = "lever"
	Ashby           Source = "ashby"
	Recruitee       Source = "recruitee"
	SmartRecruiters Source = "smartrecruiters"
)

// Sources lists every supported board in ingestion order.
var Sources = []Source{Greenhouse, Lever, Ashby, Recruitee, SmartRecruiters}

// Listing is a single posting as returned by a board, before persistence.
type Listing struct {
	Source        Source
	ExternalID    string
	Title         string
	Company       string
	Description   string
	ApplyURL      string
	Location      *string
	Salary        *string
	RemoteAllowed bool
	PostedAt      *time.Time
}

type Collector interface {
	Source() Source
	// Collect returns every listing it could fetch. A non-nil error carries one
	// *CollectorError per failed identifier; the listings are still valid.
	Collect(ctx context.Context) ([]Listing, error)
}

type CollectorError struct {
	Source     Source
	Identifier string
	Err        error
}

func (e *CollectorError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s[%s]: %v", e.Source, e.Identifier, e.Err)
}

func (e *CollectorError) Unwrap() error {
	return e.Err
}

// Options configures one collector.
type Options struct {
	Identifiers []string
	// Token is only used by SmartRecruiters.
	Token string
	// BaseURL replaces the board's public API host, mostly for tests.
	BaseURL string
	Client  *resty.Client
	Limiter *rate.Limiter
	Logger  *log.Logger
}

// New builds the collector for source.
func New(source Source, opts Options) (Collector, error) {
	b := newBase(source, opts)
	switch source {
	case Greenhouse:
		return &greenhouseCollector{base: b}, nil
	case Lever:
		return &leverCollector{base: b}, nil
	case Ashby:
		return &ashbyCollector{base: b}, nil
	case Recruitee:
		return &recruiteeCollector{base: b}, nil
	case SmartRecruiters:
		return &smartRecruitersCollector{base: b, token: opts.Token}, nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

var remoteKeywords = []string{"remote", "work from home", "distributed", "anywhere"}

// IsRemote guesses remote eligibility when a board has no explicit flag.
func IsRemote(title, location, description string) bool {
	text := strings.ToLower(title + " " + location + " " + description)
	for _, kw := range remoteKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

type base struct {
	source  Source
	ids     []string
	baseURL string
	http    *fetcher
	logger  *log.Logger
}

func newBase(source Source, opts Options) base {
	client := opts.Client
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}
	return base{
		source:  source,
		ids:     opts.Identifiers,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    &fetcher{client: client, limiter: opts.Limiter},
		logger:  logger.WithComponent(opts.Logger, "collector."+string(source)),
	}
}

func (b *base) Source() Source { return b.source }

func (b *base) endpoint(defaultHost, pathFormat string, args ...any) string {
	host := defaultHost
	if b.baseURL != "" {
		host = b.baseURL
	}
	return host + fmt.Sprintf(pathFormat, args...)
}

// collectEach runs fetch for every configured identifier, isolating failures and panics.
func (b *base) collectEach(ctx context.Context, fetch func(ctx context.Context, id string) ([]Listing, error)) ([]Listing, error) {
	if len(b.ids) == 0 {
		b.logger.Debug().Msg("no identifiers configured, skipping")
		return nil, nil
	}

	var (
		listings []Listing
		errs     []error
	)
	for _, id := range b.ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, &CollectorError{Source: b.source, Identifier: id, Err: err})
			break
		}

		got, err := b.safeFetch(ctx, id, fetch)
		listings = append(listings, got...)
		if err != nil {
			b.logger.Warn().Err(err).Str("identifier", id).Msg("fetch failed")
			errs = append(errs, &CollectorError{Source: b.source, Identifier: id, Err: err})
			continue
		}
		b.logger.Info().Str("identifier", id).Int("jobs", len(got)).Msg("fetched postings")
	}
	return listings, errors.Join(errs...)
}

func (b *base) safeFetch(ctx context.Context, id string, fetch func(ctx context.Context, id string) ([]Listing, error)) (listings []Listing, err error) {
	defer func() {
		if r := recover(); r != nil {
			listings, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return fetch(ctx, id)
}

func (b *base) newListing(externalID, title, company, description, applyURL string) Listing {
	if title == "" {
		title = "Unknown Title"
	}
	return Listing{
		Source:      b.source,
		ExternalID:  string(b.source) + "_" + externalID,
		Title:       strings.TrimSpace(title),
		Company:     strings.TrimSpace(company),
		Description: description,
		ApplyURL:    applyURL,
	}
}
