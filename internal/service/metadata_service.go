package service

import (
	"context"

	"netops-cockpit/internal/cache"
	"netops-cockpit/internal/model"
)

// MetadataService serves the small, slow-changing upstream lookups the
// dashboard shows in dropdowns and on the landing page.
type MetadataService struct {
	upstream Upstream
	cache    *cache.Cache
}

func NewMetadataService(upstream Upstream, c *cache.Cache) *MetadataService {
	return &MetadataService{upstream: upstream, cache: c}
}

func (s *MetadataService) Namespaces(ctx context.Context) ([]model.Namespace, error) {
	key := cache.Key("nautobot", "namespaces")
	if cached, ok := s.cache.Get(key); ok {
		if namespaces, ok := cached.([]model.Namespace); ok {
			return namespaces, nil
		}
	}

	namespaces, err := s.upstream.Namespaces(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, namespaces)
	return namespaces, nil
}

func (s *MetadataService) Stats(ctx context.Context) (model.Stats, error) {
	key := cache.Key("nautobot", "stats")
	if cached, ok := s.cache.Get(key); ok {
		if stats, ok := cached.(model.Stats); ok {
			return stats, nil
		}
	}

	stats, err := s.upstream.Stats(ctx)
	if err != nil {
		return model.Stats{}, err
	}

	s.cache.Set(key, stats)
	return stats, nil
}

func (s *MetadataService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

func (s *MetadataService) InvalidateCache() {
	s.cache.DeleteNamespace("nautobot")
}
