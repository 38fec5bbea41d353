package asset

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Validator checks assets before they are published.
type Validator struct {
	prober Prober
	logger *slog.Logger
}

// NewValidator creates a validator. A nil prober gets an HTTPProber with a
// default client; a nil logger discards output.
func NewValidator(prober Prober, logger *slog.Logger) *Validator {
	if prober == nil {
		prober = NewHTTPProber(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{prober: prober, logger: logger}
}

// Validate checks every asset in order and returns them unchanged.
// It stops at the first failure and returns a *ValidationError.
//
// Image and video values are probed over the network; text values never are.
func (v *Validator) Validate(ctx context.Context, assets []Asset) ([]Asset, error) {
	for i, a := range assets {
		if err := v.check(ctx, a); err != nil {
			v.logger.Debug("asset rejected", "index", i, "target", a.Target, "error", err)
			return nil, &ValidationError{Index: i, Target: a.Target, Err: err}
		}
	}
	return assets, nil
}

// IsValid reports whether Validate would succeed, without the error.
func (v *Validator) IsValid(ctx context.Context, assets []Asset) bool {
	_, err := v.Validate(ctx, assets)
	return err == nil
}

func (v *Validator) check(ctx context.Context, a Asset) error {
	// A struct always has the three fields; an empty target or type is how a
	// missing key shows up once decoded.
	if a.Target == "" || a.Type == "" {
		return ErrInvalidAssetKeys
	}

	t, err := ParseType(string(a.Type))
	if err != nil {
		return err
	}

	return v.checkValue(ctx, t, a.Value)
}

// checkValue cross-checks a value against its type.
func (v *Validator) checkValue(ctx context.Context, t Type, value string) error {
	if t == TypeText {
		return nil
	}

	if !IsHTTPURL(value) {
		if t == TypeImage {
			return ErrInvalidImageValue
		}
		return ErrInvalidVideoValue
	}

	code, err := v.prober.Probe(ctx, value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadAssetValueURL, err)
	}
	if code != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrBadAssetValueURL, value, code)
	}
	return nil
}
