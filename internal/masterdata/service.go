package masterdata

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Service provides cached reference lookups for the production-run form.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
}

// NewService constructs the master data service.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// ReferenceData loads the four form lookups concurrently. The lookups have
// no ordering dependency on each other; a failed lookup degrades to an
// empty list instead of failing the whole page. A degraded result is served
// but never cached, so the next request retries the failing lookup instead
// of showing empty selects for the full TTL.
func (s *Service) ReferenceData(ctx context.Context) (ReferenceData, error) {
	var data ReferenceData
	hit, err := s.cache.GetJSON(ctx, referenceCacheKey, &data)
	if err != nil {
		// Cache trouble must not take the form down either.
		s.warn("reference cache read", err)
	}
	if hit {
		return data, nil
	}

	data, degraded := s.loadReferenceData(ctx)
	if !degraded {
		if err := s.cache.SetJSON(ctx, referenceCacheKey, data); err != nil {
			s.warn("reference cache write", err)
		}
	}
	return data, nil
}

func (s *Service) loadReferenceData(ctx context.Context) (ReferenceData, bool) {
	var data ReferenceData
	var degraded atomic.Bool
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs, err := s.repo.ListFinishedGoods(ctx)
		if err != nil {
			s.warn("list finished goods", err)
			degraded.Store(true)
			return nil
		}
		data.FinishedGoods = refs
		return nil
	})
	g.Go(func() error {
		refs, err := s.repo.ListProductsByType(ctx, ProductTypeRawMaterial)
		if err != nil {
			s.warn("list raw materials", err)
			degraded.Store(true)
			return nil
		}
		data.RawMaterials = refs
		return nil
	})
	g.Go(func() error {
		refs, err := s.repo.ListProductsByType(ctx, ProductTypeMasterBatch)
		if err != nil {
			s.warn("list master batches", err)
			degraded.Store(true)
			return nil
		}
		data.MasterBatches = refs
		return nil
	})
	g.Go(func() error {
		refs, err := s.repo.ListActiveMachines(ctx)
		if err != nil {
			s.warn("list active machines", err)
			degraded.Store(true)
			return nil
		}
		data.Machines = refs
		return nil
	})
	_ = g.Wait()

	if data.FinishedGoods == nil {
		data.FinishedGoods = []FinishedGoodRef{}
	}
	if data.RawMaterials == nil {
		data.RawMaterials = []ProductRef{}
	}
	if data.MasterBatches == nil {
		data.MasterBatches = []ProductRef{}
	}
	if data.Machines == nil {
		data.Machines = []MachineRef{}
	}
	return data, degraded.Load()
}

// GetProduct fetches a single product row.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// GetMachine fetches a single machine row.
func (s *Service) GetMachine(ctx context.Context, id string) (Machine, error) {
	return s.repo.GetMachine(ctx, id)
}

func (s *Service) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, slog.Any("error", err))
	}
}
