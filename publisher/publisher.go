// Package publisher publishes batches of assets to the asset service.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/smnsjas/go-pomade/asset"
	"github.com/smnsjas/go-pomade/atom"
	"github.com/smnsjas/go-pomade/auth"
	pomadelog "github.com/smnsjas/go-pomade/internal/log"
	"github.com/smnsjas/go-pomade/transport"
)

// Result is the outcome of a fully successful publish call.
type Result struct {
	// RecordID is shared by every asset of the call.
	RecordID string `json:"record_id"`

	// Assets holds the service's stored entries, in input order.
	Assets []atom.Properties `json:"assets"`
}

// Option configures a Publisher.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	base      http.RoundTripper
	prober    asset.Prober
	clock     Clock
	newRecord RecordIDGenerator
}

// WithLogger sets the logger. Sensitive attributes are redacted.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRoundTripper sets the base round tripper used to reach the service;
// authentication is layered on top of it.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithProber sets the liveness prober used for image and video URLs.
func WithProber(p asset.Prober) Option {
	return func(o *options) { o.prober = p }
}

// WithClock sets the clock used for entry timestamps.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRecordIDGenerator replaces NewRecordID.
func WithRecordIDGenerator(g RecordIDGenerator) Option {
	return func(o *options) { o.newRecord = g }
}

// Publisher publishes assets. It holds only configuration and is safe for
// concurrent use.
type Publisher struct {
	config    Config
	endpoint  string
	transport *transport.HTTPTransport
	validator *asset.Validator
	logger    *slog.Logger
	clock     Clock
	recordID  RecordIDGenerator
}

// New creates a Publisher. Unless cfg.SkipAuthentication is set, it probes the
// asset feed with the configured credentials and fails with ErrAuthentication
// if the service does not answer with a 2xx or 3xx status.
func New(ctx context.Context, cfg Config, opts ...Option) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.withDefaults()

	o := options{clock: realClock{}, newRecord: NewRecordID}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		if cfg.Debug {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		} else {
			logger = slog.New(slog.DiscardHandler)
		}
	}
	logger = slog.New(pomadelog.NewRedactingHandler(logger.Handler())).With("client", cfg.ClientID)

	authenticator, err := auth.New(auth.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
		Domain:   cfg.LoginDomain,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	trOpts := []transport.HTTPTransportOption{
		transport.WithTimeout(cfg.Timeout),
	}
	if o.base != nil {
		trOpts = append(trOpts, transport.WithRoundTripper(o.base))
	}
	tr := transport.NewHTTPTransport(trOpts...)
	tr.Authenticate(authenticator.Transport)

	prober := o.prober
	if prober == nil {
		prober = asset.NewHTTPProber(&http.Client{Timeout: cfg.Timeout})
	}

	p := &Publisher{
		config:    cfg,
		endpoint:  cfg.Endpoint(),
		transport: tr,
		validator: asset.NewValidator(prober, logger),
		logger:    logger,
		clock:     o.clock,
		recordID:  o.newRecord,
	}

	logger.Debug("publisher configured",
		"endpoint", p.endpoint,
		"scheme", authenticator.Name())

	if !cfg.SkipAuthentication {
		if err := p.CheckAuthentication(ctx); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Endpoint returns the asset collection URL.
func (p *Publisher) Endpoint() string {
	return p.endpoint
}

// Close releases idle connections. The Publisher stays usable; later calls
// open new connections.
func (p *Publisher) Close() error {
	p.transport.CloseIdleConnections()
	return nil
}

// CheckAuthentication GETs the asset feed and returns ErrAuthentication
// unless the answer is 2xx or 3xx.
func (p *Publisher) CheckAuthentication(ctx context.Context) error {
	resp, err := p.transport.Get(ctx, p.endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		p.logger.Debug("authentication probe failed", "status", resp.StatusCode)
		return fmt.Errorf("%w: HTTP %d", ErrAuthentication, resp.StatusCode)
	}
	p.logger.Debug("authentication probe succeeded", "status", resp.StatusCode)
	return nil
}

// Validate checks assets without publishing them. See asset.Validator.
func (p *Publisher) Validate(ctx context.Context, assets []asset.Asset) ([]asset.Asset, error) {
	return p.validator.Validate(ctx, assets)
}

// IsValid reports whether assets pass validation.
func (p *Publisher) IsValid(ctx context.Context, assets []asset.Asset) bool {
	return p.validator.IsValid(ctx, assets)
}

// Publish validates assets, then posts one entry per asset in order under a
// fresh record ID.
//
// A validation failure returns an *asset.ValidationError before anything is
// sent. The first entry the service refuses stops the batch with a
// *ResponseError; entries already accepted stay published.
func (p *Publisher) Publish(ctx context.Context, assets []asset.Asset) (*Result, error) {
	b := p.newBatch()
	log := p.logger.With("record_id", b.recordID)

	valid, err := p.validator.Validate(ctx, assets)
	if err != nil {
		return nil, err
	}

	entries := make([][]byte, len(valid))
	for i, a := range valid {
		entries[i], err = p.buildEntry(b, a)
		if err != nil {
			return nil, fmt.Errorf("build entry %d: %w", i, err)
		}
	}

	result := &Result{
		RecordID: b.recordID,
		Assets:   make([]atom.Properties, 0, len(entries)),
	}

	for i, entry := range entries {
		log.Debug("posting entry", "index", i, "target", valid[i].Target)

		resp, err := p.transport.Post(ctx, p.endpoint, entry)
		if err != nil {
			return nil, fmt.Errorf("publish asset %d (%s): %w", i, valid[i].Target, err)
		}

		// The service answers 201 with the stored entry; 200 is accepted
		// without one.
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			rerr := &ResponseError{
				StatusCode: resp.StatusCode,
				Index:      i,
				Target:     valid[i].Target,
				RecordID:   b.recordID,
				Posted:     i,
				Detail:     atom.ParseError(resp.Body),
			}
			log.Warn("entry rejected", "index", i, "status", resp.StatusCode, "posted", i)
			return nil, rerr
		}

		props := atom.Properties{}
		if resp.StatusCode == http.StatusCreated {
			props, err = atom.ParseProperties(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("publish asset %d (%s): %w", i, valid[i].Target, err)
			}
		}
		result.Assets = append(result.Assets, props)
		log.Debug("entry created", "index", i, "asset_id", props[atom.PropAssetID])
	}

	log.Info("record published", "assets", len(result.Assets))
	return result, nil
}

// buildEntry renders one validated asset for batch b.
func (p *Publisher) buildEntry(b batch, a asset.Asset) ([]byte, error) {
	t, err := asset.ParseType(string(a.Type))
	if err != nil {
		return nil, err
	}

	e := &atom.Entry{
		Base:     p.config.base(),
		Updated:  b.timestamp,
		RecordID: b.recordID,
		Client:   p.config.ClientID,
		Target:   a.Target,
		Type:     t.Wire(),
		Data:     a.Value,
	}
	return e.Render()
}
