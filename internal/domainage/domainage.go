// Package domainage estimates when a company was founded from the
// registration date of its web domain.
package domainage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/likexian/whois"
	parser "github.com/likexian/whois-parser"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/logger"
)

// ErrNoCreationDate is returned when no registration date can be found.
var ErrNoCreationDate = errors.New("no domain creation date")

// Lookup returns the raw whois record for a domain.
type Lookup interface {
	Whois(ctx context.Context, domain string) (string, error)
}

// WhoisClient queries public whois servers.
type WhoisClient struct {
	client *whois.Client
}

// NewWhoisClient creates a client whose queries give up after timeout.
func NewWhoisClient(timeout time.Duration) *WhoisClient {
	return &WhoisClient{client: whois.NewClient().SetTimeout(timeout)}
}

// Whois runs the query, abandoning it when ctx is done.
func (w *WhoisClient) Whois(ctx context.Context, name string) (string, error) {
	type result struct {
		raw string
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := w.client.Whois(name)
		done <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.raw, r.err
	}
}

// Resolver turns whois records into creation dates.
type Resolver struct {
	lookup Lookup
	log    logger.Logger
}

// NewResolver creates a Resolver. log may be nil.
func NewResolver(lookup Lookup, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{lookup: lookup, log: log}
}

// Created returns the registration date of name. Subdomains that have no
// record of their own fall back to the parent domain.
func (r *Resolver) Created(ctx context.Context, name string) (time.Time, error) {
	name = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if strings.Count(name, ".") < 1 {
		return time.Time{}, fmt.Errorf("%w: %q is not a domain", ErrNoCreationDate, name)
	}

	created, err := r.created(ctx, name)
	if err == nil || ctx.Err() != nil {
		return created, err
	}

	if labels := strings.Split(name, "."); len(labels) > 2 {
		parent := strings.Join(labels[1:], ".")
		r.log.Debug("Whois lookup failed, trying parent domain",
			logger.String("domain", name),
			logger.String("parent", parent),
			logger.Error(err),
		)
		return r.Created(ctx, parent)
	}
	return time.Time{}, err
}

func (r *Resolver) created(ctx context.Context, name string) (time.Time, error) {
	raw, err := r.lookup.Whois(ctx, name)
	if err != nil {
		return time.Time{}, fmt.Errorf("whois %s: %w", name, err)
	}

	info, err := parser.Parse(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse whois %s: %w", name, err)
	}
	if info.Domain == nil || strings.TrimSpace(info.Domain.CreatedDate) == "" {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNoCreationDate, name)
	}

	created, err := dateparse.ParseAny(strings.TrimSpace(info.Domain.CreatedDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", ErrNoCreationDate, name, err)
	}
	return created.UTC(), nil
}

// FillFounded sets c.Founded to the registration year of the company's
// website when Founded is empty. It reports whether the record changed.
// Lookup failures are logged at debug level on the logger carried by ctx.
func (r *Resolver) FillFounded(ctx context.Context, c *domain.Company) bool {
	if strings.TrimSpace(c.Founded) != "" {
		return false
	}

	host := WebHost(c)
	if host == "" {
		return false
	}

	created, err := r.Created(ctx, host)
	if err != nil {
		logger.FromContext(ctx).Debug("No founding date from whois", logger.String("domain", host), logger.Error(err))
		return false
	}

	c.Founded = strconv.Itoa(created.Year())
	return true
}

// WebHost returns the bare host of the company website, or of Domain when
// it looks like a host name rather than a profile identifier.
func WebHost(c *domain.Company) string {
	for _, candidate := range []string{c.Website, c.Domain} {
		if host := hostOf(candidate); host != "" {
			return host
		}
	}
	return ""
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t") {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if !strings.Contains(host, ".") || strings.Contains(host, "linkedin.com") {
		return ""
	}
	return host
}
