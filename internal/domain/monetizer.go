package domain

import "context"

// MonetizerConfig is a configured external shortening provider.
type MonetizerConfig struct {
	ID          int64
	ServiceName string
	APIKey      string
	// CPMRate is revenue per 1000 click events.
	CPMRate  float64
	Priority int
	IsActive bool
}

type MonetizerRepository interface {
	// GetActiveMonetizer picks the active config with the highest
	// priority, ties broken by lowest id. ErrNoActiveMonetizer when
	// nothing is configured.
	GetActiveMonetizer(ctx context.Context) (*MonetizerConfig, error)
	GetMonetizerByName(ctx context.Context, serviceName string) (*MonetizerConfig, error)
}
