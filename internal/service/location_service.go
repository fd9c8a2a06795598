package service

import (
	"context"

	"netops-cockpit/internal/cache"
	"netops-cockpit/internal/model"
	"netops-cockpit/internal/tabular"
)

type LocationService struct {
	upstream Upstream
	cache    *cache.Cache
}

func NewLocationService(upstream Upstream, c *cache.Cache) *LocationService {
	return &LocationService{upstream: upstream, cache: c}
}

// List returns all locations with their root-to-leaf display paths, sorted
// by path. Results are cached; the sync service invalidates the namespace
// after each run.
func (s *LocationService) List(ctx context.Context) ([]model.Location, error) {
	key := cache.Key("nautobot", "locations")
	if cached, ok := s.cache.Get(key); ok {
		if locations, ok := cached.([]model.Location); ok {
			return locations, nil
		}
	}

	raw, err := s.upstream.Locations(ctx)
	if err != nil {
		return nil, err
	}

	locations := withDisplayPaths(raw)
	s.cache.Set(key, locations)
	return locations, nil
}

func withDisplayPaths(raw []model.Location) []model.Location {
	byID := make(map[string]model.Location, len(raw))
	nodes := make([]tabular.PathNode, 0, len(raw))
	for _, loc := range raw {
		byID[loc.ID] = loc

		node := tabular.PathNode{ID: loc.ID, Name: loc.Name, Description: loc.Description}
		if loc.Parent != nil {
			node.ParentID = loc.Parent.ID
		}
		nodes = append(nodes, node)
	}

	out := make([]model.Location, 0, len(nodes))
	for _, node := range tabular.BuildPaths(nodes) {
		loc := byID[node.ID]
		loc.DisplayPath = node.DisplayPath
		out = append(out, loc)
	}
	return out
}
