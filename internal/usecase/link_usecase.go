package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/usecase/shortcode"
)

var (
	goPathPattern   = regexp.MustCompile(`/go/([a-zA-Z0-9]+)`)
	bareCodePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

type LinkUsecase interface {
	CreateLink(ctx context.Context, originalURL string, postID *int64, opts *domain.LinkOptions) (*domain.CreatedLink, error)
	Resolve(ctx context.Context, shortCode string) (*domain.MonetizedLink, error)
	GetLinksByPost(ctx context.Context, postID int64) ([]*domain.MonetizedLink, error)
	GetTopLinks(ctx context.Context, limit int) ([]*domain.MonetizedLink, error)
	DeactivateLink(ctx context.Context, linkID int64) error
	ExtractShortCode(input string) (string, error)
	SearchLink(ctx context.Context, input string) (*domain.MonetizedLink, error)
}

// ShortenerClient is the outbound port to the external monetizer API.
type ShortenerClient interface {
	Shorten(ctx context.Context, apiKey, originalURL, alias string) (string, error)
}

type DefaultLinkUsecase struct {
	linkRepo      domain.LinkRepository
	monetizerRepo domain.MonetizerRepository
	generator     *shortcode.Generator
	shortener     ShortenerClient
	cache         domain.LinkCache
	cacheTTL      time.Duration
	siteURL       string
	logger        *slog.Logger
}

func NewDefaultLinkUsecase(
	linkRepo domain.LinkRepository,
	monetizerRepo domain.MonetizerRepository,
	generator *shortcode.Generator,
	shortener ShortenerClient,
	cache domain.LinkCache,
	cacheTTL time.Duration,
	siteURL string,
	logger *slog.Logger,
) *DefaultLinkUsecase {
	return &DefaultLinkUsecase{
		linkRepo:      linkRepo,
		monetizerRepo: monetizerRepo,
		generator:     generator,
		shortener:     shortener,
		cache:         cache,
		cacheTTL:      cacheTTL,
		siteURL:       strings.TrimSuffix(siteURL, "/"),
		logger:        logger,
	}
}

// CreateLink registers a monetized link for a destination URL. The
// external shortener is best-effort: its failure never fails creation.
func (uc *DefaultLinkUsecase) CreateLink(ctx context.Context, originalURL string, postID *int64, opts *domain.LinkOptions) (*domain.CreatedLink, error) {
	if strings.TrimSpace(originalURL) == "" {
		return nil, domain.ErrEmptyOriginalURL
	}
	if opts == nil {
		opts = &domain.LinkOptions{}
	}

	code, err := uc.generator.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate short code: %w", err)
	}

	var monetizedURL, monetizerService string
	monetizer, err := uc.monetizerRepo.GetActiveMonetizer(ctx)
	switch {
	case err == nil && monetizer.APIKey != "":
		monetizerService = monetizer.ServiceName
		monetizedURL, err = uc.shortener.Shorten(ctx, monetizer.APIKey, originalURL, code)
		if err != nil {
			uc.logger.Warn("external shortener degraded, creating link without monetized url",
				"short_code", code, "error", err.Error())
			monetizedURL = ""
		}
	case err != nil && err != domain.ErrNoActiveMonetizer:
		return nil, fmt.Errorf("failed to select monetizer: %w", err)
	}

	var createdBy string
	if actor, ok := domain.ActorFrom(ctx); ok {
		createdBy = actor.ID
	}

	link := &domain.MonetizedLink{
		PostID:           postID,
		OriginalURL:      originalURL,
		ShortCode:        code,
		MonetizerService: monetizerService,
		MonetizedURL:     monetizedURL,
		DownloadTitle:    opts.Title,
		FileSize:         opts.FileSize,
		FilePassword:     opts.Password,
		Version:          opts.Version,
		Status:           domain.LinkStatusActive,
		CreatedBy:        createdBy,
	}

	if err := uc.linkRepo.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}

	uc.logger.Info("monetized link created",
		"link_id", link.ID,
		"short_code", code,
		"monetizer_service", monetizerService,
		"has_monetized_url", monetizedURL != "")

	return &domain.CreatedLink{
		ID:           link.ID,
		ShortCode:    code,
		MonetizedURL: monetizedURL,
		LocalURL:     uc.siteURL + "/go/" + code,
	}, nil
}

// Resolve looks up an active link by exact, case-sensitive code.
func (uc *DefaultLinkUsecase) Resolve(ctx context.Context, shortCode string) (*domain.MonetizedLink, error) {
	if !bareCodePattern.MatchString(shortCode) {
		return nil, domain.ErrInvalidShortCode
	}

	if uc.cache != nil {
		cached, err := uc.cache.GetLink(ctx, shortCode)
		if err != nil {
			uc.logger.Warn("link cache read failed", "error", err.Error())
		} else if cached != nil {
			return cached, nil
		}
	}

	link, err := uc.linkRepo.GetLinkByCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetLink(ctx, link, uc.cacheTTL); err != nil {
			uc.logger.Warn("link cache write failed", "error", err.Error())
		}
	}

	return link, nil
}

func (uc *DefaultLinkUsecase) GetLinksByPost(ctx context.Context, postID int64) ([]*domain.MonetizedLink, error) {
	return uc.linkRepo.GetLinksByPost(ctx, postID)
}

func (uc *DefaultLinkUsecase) GetTopLinks(ctx context.Context, limit int) ([]*domain.MonetizedLink, error) {
	if limit <= 0 {
		limit = 10
	}
	return uc.linkRepo.GetTopLinks(ctx, limit)
}

// DeactivateLink retires a link and evicts its cache entry, so the
// redirect path stops serving it immediately rather than after TTL.
func (uc *DefaultLinkUsecase) DeactivateLink(ctx context.Context, linkID int64) error {
	link, err := uc.linkRepo.GetLinkByID(ctx, linkID)
	if err != nil {
		return err
	}
	if err := uc.linkRepo.DeactivateLink(ctx, linkID); err != nil {
		return err
	}
	if uc.cache != nil {
		if err := uc.cache.InvalidateLink(ctx, link.ShortCode); err != nil {
			uc.logger.Warn("link cache invalidation failed", "short_code", link.ShortCode, "error", err.Error())
		}
	}
	return nil
}

// SearchLink is the admin lookup: it accepts anything ExtractShortCode
// accepts and finds deactivated links too.
func (uc *DefaultLinkUsecase) SearchLink(ctx context.Context, input string) (*domain.MonetizedLink, error) {
	code, err := uc.ExtractShortCode(input)
	if err != nil {
		return nil, err
	}
	return uc.linkRepo.FindLinkByCode(ctx, code)
}

// ExtractShortCode normalizes a full redirect URL, a bare /go/ path,
// or a bare code down to the code itself.
func (uc *DefaultLinkUsecase) ExtractShortCode(input string) (string, error) {
	if matches := goPathPattern.FindStringSubmatch(input); matches != nil {
		return matches[1], nil
	}
	if bareCodePattern.MatchString(input) {
		return input, nil
	}
	return "", domain.ErrInvalidShortCode
}
