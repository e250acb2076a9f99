package services

import (
	"adhan/internal/models"
	"adhan/internal/providers"
	"adhan/internal/store"

	"go.uber.org/atomic"
)

type CatalogServiceInterface interface {
	Reload() *models.CityCatalog
	Current() *models.CityCatalog
	Generation() uint64
}

// CatalogService holds the city catalog snapshot. Reload swaps in a freshly
// parsed document; readers keep whatever snapshot they already hold. The
// generation counts reloads and identifies the snapshot for caches.
type CatalogService struct {
	store      store.ResourceStoreInterface
	logger     providers.Logger
	current    atomic.Pointer[models.CityCatalog]
	generation atomic.Uint64
}

func NewCatalogService(st store.ResourceStoreInterface, logger providers.Logger) CatalogServiceInterface {
	cs := &CatalogService{store: st, logger: logger}
	cs.Reload()
	return cs
}

func (cs *CatalogService) Reload() *models.CityCatalog {
	catalog := cs.store.LoadCatalog()
	cs.current.Store(catalog)
	cs.generation.Inc()
	if catalog.IsEmpty() {
		cs.logger.Warnf(providers.TypeApp, "City catalog is empty")
	} else {
		cs.logger.Infof(providers.TypeApp, "Loaded %d cities in %d countries", catalog.Len(), len(catalog.Countries()))
	}
	return catalog
}

func (cs *CatalogService) Current() *models.CityCatalog {
	if c := cs.current.Load(); c != nil {
		return c
	}
	return models.EmptyCityCatalog()
}

func (cs *CatalogService) Generation() uint64 {
	return cs.generation.Load()
}
