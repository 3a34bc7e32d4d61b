package domain

import (
	"context"
	"time"
)

type LinkStatus string

const (
	LinkStatusActive   LinkStatus = "ACTIVE"
	LinkStatusInactive LinkStatus = "INACTIVE"
)

// MonetizedLink maps a short code to a destination URL plus the
// download metadata shown on post pages.
type MonetizedLink struct {
	ID               int64
	PostID           *int64
	OriginalURL      string
	ShortCode        string
	MonetizerService string
	MonetizedURL     string
	DownloadTitle    string
	FileSize         string
	FilePassword     string
	Version          string
	Status           LinkStatus
	TotalClicks      int64
	TotalDownloads   int64
	EstimatedRevenue float64
	CreatedBy        string
	CreatedAt        time.Time
}

// LinkOptions carries the optional display metadata of a new link.
type LinkOptions struct {
	Title    string
	FileSize string
	Password string
	Version  string
}

// CreatedLink is what an admin gets back after monetizing a URL.
type CreatedLink struct {
	ID           int64
	ShortCode    string
	MonetizedURL string
	LocalURL     string
}

type LinkRepository interface {
	SaveLink(ctx context.Context, link *MonetizedLink) error
	// GetLinkByCode matches the code exactly and case-sensitively.
	// Returns ErrLinkNotFound for unknown codes and ErrLinkInactive
	// for deactivated ones.
	GetLinkByCode(ctx context.Context, shortCode string) (*MonetizedLink, error)
	// FindLinkByCode matches any status, for admin lookups.
	FindLinkByCode(ctx context.Context, shortCode string) (*MonetizedLink, error)
	GetLinkByID(ctx context.Context, linkID int64) (*MonetizedLink, error)
	CodeExists(ctx context.Context, shortCode string) (bool, error)
	GetLinksByPost(ctx context.Context, postID int64) ([]*MonetizedLink, error)
	GetTopLinks(ctx context.Context, limit int) ([]*MonetizedLink, error)
	DeactivateLink(ctx context.Context, linkID int64) error
	// AddClick and AddDownload bump the aggregate counters as atomic
	// SQL deltas so concurrent trackers cannot lose updates.
	AddClick(ctx context.Context, linkID int64, revenue float64) error
	AddDownload(ctx context.Context, linkID int64) error
}

// LinkCache fronts GetLinkByCode on the redirect hot path.
// A miss is (nil, nil), not an error.
type LinkCache interface {
	GetLink(ctx context.Context, shortCode string) (*MonetizedLink, error)
	SetLink(ctx context.Context, link *MonetizedLink, ttl time.Duration) error
	InvalidateLink(ctx context.Context, shortCode string) error
}
