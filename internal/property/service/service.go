// Package service provides property lookups with caching.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"hvac_quote_backend/internal/property/client"
	"hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/logger"
)

// Fetcher is the upstream the service reads through.
type Fetcher interface {
	GetProperty(ctx context.Context, address string) (*transport.Property, error)
}

type cacheEntry struct {
	property  *transport.Property
	expiresAt time.Time
}

// Service looks up properties and caches hits by normalized address.
// Misses are not cached so a corrected record shows up on the next try.
type Service struct {
	fetcher  Fetcher
	log      *logger.Logger
	cache    map[string]cacheEntry
	cacheMu  sync.RWMutex
	cacheTTL time.Duration
	now      func() time.Time
}

func New(fetcher Fetcher, cacheTTL time.Duration, log *logger.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Service{
		fetcher:  fetcher,
		log:      log,
		cache:    make(map[string]cacheEntry),
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Lookup returns the property record for address. A missing record is
// KindNotFound; any other upstream failure is KindUnavailable.
func (s *Service) Lookup(ctx context.Context, address string) (*transport.Property, error) {
	key := normalizeAddress(address)
	if key == "" {
		return nil, apperr.Validation("address is required")
	}

	if p := s.getFromCache(key); p != nil {
		return p, nil
	}

	p, err := s.fetcher.GetProperty(ctx, strings.TrimSpace(address))
	if errors.Is(err, client.ErrNoProperty) {
		return nil, apperr.Wrap(apperr.KindNotFound, client.ErrNoProperty.Error(), err).WithOp("property.Lookup")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "property lookup unavailable", err).WithOp("property.Lookup")
	}

	s.setCache(key, p)
	return p, nil
}

// ClearCache removes all cached entries.
func (s *Service) ClearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

func (s *Service) getFromCache(key string) *transport.Property {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	entry, ok := s.cache[key]
	if !ok || s.now().After(entry.expiresAt) {
		return nil
	}
	return entry.property
}

func (s *Service) setCache(key string, p *transport.Property) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache[key] = cacheEntry{
		property:  p,
		expiresAt: s.now().Add(s.cacheTTL),
	}
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
