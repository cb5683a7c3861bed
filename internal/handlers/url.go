package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/serroba/linkstats/internal/analytics"
	"github.com/serroba/linkstats/internal/messaging"
	"github.com/serroba/linkstats/internal/shortener"
	"go.uber.org/zap"
)

// Registry is the subset of shortener.Registry the handlers need.
type Registry interface {
	Create(ctx context.Context, req shortener.CreateRequest) (*shortener.Entry, error)
	Resolve(ctx context.Context, code shortener.Code, visit shortener.Visit) (string, error)
	Stats(ctx context.Context, code shortener.Code) (*shortener.Entry, error)
	List(ctx context.Context) []shortener.Entry
}

// URLHandler serves creation, redirect and analytics endpoints.
type URLHandler struct {
	registry           Registry
	baseURL            string
	publishURLCreated  messaging.Publish[analytics.URLCreatedEvent]
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent]
	logger             *zap.Logger
}

// NewURLHandler creates a new URL handler. Short links are built as baseURL/code.
func NewURLHandler(
	registry Registry,
	baseURL string,
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent],
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		registry:           registry,
		baseURL:            strings.TrimRight(baseURL, "/"),
		publishURLCreated:  publishURLCreated,
		publishURLAccessed: publishURLAccessed,
		logger:             logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	entry, err := h.registry.Create(ctx, shortener.CreateRequest{
		Target:          req.Body.URL,
		ValidityMinutes: req.Body.Validity,
		Code:            shortener.Code(req.Body.Shortcode),
	})
	if err != nil {
		h.logger.Debug("create short url rejected", zap.Error(err))

		return nil, toHTTPError(err)
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLCreatedEvent{
		Code:        string(entry.Code),
		OriginalURL: entry.Target,
		Custom:      req.Body.Shortcode != "",
		CreatedAt:   entry.CreatedAt,
		ExpiresAt:   entry.ExpiresAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishURLCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish url created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	shortLink := h.baseURL + "/" + string(entry.Code)

	resp := &CreateShortURLResponse{Location: shortLink}
	resp.Body.ShortLink = shortLink
	resp.Body.Expiry = entry.ExpiresAt

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)

	target, err := h.registry.Resolve(ctx, shortener.Code(req.Code), shortener.Visit{
		SourceAddress: meta.ClientIP,
		Referrer:      meta.Referrer,
		UserAgent:     meta.UserAgent,
	})
	if err != nil {
		return nil, toHTTPError(err)
	}

	event := &analytics.URLAccessedEvent{
		Code:       req.Code,
		AccessedAt: time.Now().UTC(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err = h.publishURLAccessed(ctx, event); err != nil {
		h.logger.Error("failed to publish url accessed event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &RedirectResponse{
		Status:   http.StatusMovedPermanently,
		Location: target,
	}, nil
}

func (h *URLHandler) GetStats(ctx context.Context, req *CodeRequest) (*StatsResponse, error) {
	entry, err := h.registry.Stats(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &StatsResponse{Body: toEntry(entry)}, nil
}

func (h *URLHandler) ListShortURLs(ctx context.Context, _ *struct{}) (*ListResponse, error) {
	entries := h.registry.List(ctx)

	resp := &ListResponse{Body: make([]Entry, len(entries))}
	for i := range entries {
		resp.Body[i] = toEntry(&entries[i])
	}

	return resp, nil
}
