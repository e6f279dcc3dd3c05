package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

// Service serves catalog reads for the HTTP layer, caching the product
// list. Cache errors are logged and absorbed; the database is always
// the fallback.
type Service struct {
	repo  Repository
	cache ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(productCacheKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("product cache get error: %v", err)
		}

		products, err = s.repo.ListProducts(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), products); errSet != nil {
				log.Printf("product cache set error: %v", errSet)
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// Invalidate drops the cached product list. Called after every accepted
// sale, since stock levels changed.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx); err != nil {
		log.Printf("product cache invalidate error: %v", err)
	}
}
