package service

import (
	"context"
	"fmt"

	"github.com/platinummonkey/backoffice/pkg/notify"
	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/platform"
	"github.com/platinummonkey/backoffice/pkg/query"
)

// Config parametrizes one entity's CRUD service
type Config struct {
	// Name is the entity name; it doubles as the cache group for reads
	Name string

	// Path is the upstream API path for the entity
	Path string

	// Invalidates lists related cache groups flushed after a mutation,
	// e.g. updating a delivery note invalidates orders and shipments.
	Invalidates []string
}

// CRUD is the generic per-entity service: reads go through the query cache,
// mutations hit the platform directly, invalidate related groups, and emit
// notifications. One constructor replaces a hand-duplicated wrapper per
// entity.
type CRUD[T any] struct {
	cfg    Config
	api    *platform.Client
	cache  *query.Client
	notify *notify.Center
	logger *observability.Logger
}

// New creates a CRUD service for one entity
func New[T any](cfg Config, api *platform.Client, cache *query.Client, center *notify.Center, logger *observability.Logger) *CRUD[T] {
	return &CRUD[T]{
		cfg:    cfg,
		api:    api,
		cache:  cache,
		notify: center,
		logger: logger.WithField("entity", cfg.Name),
	}
}

// Name returns the entity name
func (s *CRUD[T]) Name() string {
	return s.cfg.Name
}

// List fetches a page of entities through the query cache
func (s *CRUD[T]) List(ctx context.Context, filter platform.ListFilter) (*platform.Page[T], error) {
	key := query.NewKey(s.cfg.Name, "list", filter.Page, filter.PageSize, filter.Search)
	page, err := query.FetchAs(ctx, s.cache, key, func(ctx context.Context) (*platform.Page[T], error) {
		return platform.List[T](ctx, s.api, s.cfg.Path, filter)
	})
	if err != nil {
		return nil, s.fail("list", err)
	}
	return page, nil
}

// Get fetches one entity through the query cache
func (s *CRUD[T]) Get(ctx context.Context, id string) (*T, error) {
	key := query.NewKey(s.cfg.Name, "get", id)
	entity, err := query.FetchAs(ctx, s.cache, key, func(ctx context.Context) (*T, error) {
		return platform.Get[T](ctx, s.api, s.cfg.Path, id)
	})
	if err != nil {
		return nil, s.fail("get", err)
	}
	return entity, nil
}

// Create posts a new entity, invalidates related groups, and notifies
func (s *CRUD[T]) Create(ctx context.Context, body interface{}) (*T, error) {
	entity, err := platform.Create[T](ctx, s.api, s.cfg.Path, body)
	if err != nil {
		return nil, s.fail("create", err)
	}
	s.afterMutation("created")
	return entity, nil
}

// Update replaces an entity, invalidates related groups, and notifies
func (s *CRUD[T]) Update(ctx context.Context, id string, body interface{}) (*T, error) {
	entity, err := platform.Update[T](ctx, s.api, s.cfg.Path, id, body)
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.afterMutation("updated")
	return entity, nil
}

// Delete removes an entity, invalidates related groups, and notifies
func (s *CRUD[T]) Delete(ctx context.Context, id string) error {
	if err := platform.Delete(ctx, s.api, s.cfg.Path, id); err != nil {
		return s.fail("delete", err)
	}
	s.afterMutation("deleted")
	return nil
}

func (s *CRUD[T]) afterMutation(verb string) {
	groups := append([]string{s.cfg.Name}, s.cfg.Invalidates...)
	s.cache.Invalidate(groups...)
	s.notify.Success(fmt.Sprintf("%s %s", s.cfg.Name, verb))
}

// fail emits the user-visible notification for a failure and returns the
// error unchanged so callers can still react to it. Authentication and
// authorization failures stay silent: the cache layer and guard handle them.
func (s *CRUD[T]) fail(op string, err error) error {
	switch {
	case platform.IsAuthFailure(err):
		// The query layer has already cleared the cache and redirected.
	case platform.IsPermissionDenied(err):
		s.logger.WithField("operation", op).Info("Operation denied")
	case platform.IsValidation(err):
		s.notify.Error(platform.UserMessage(err))
	default:
		s.logger.WithError(err).WithField("operation", op).Warn("Operation failed")
		s.notify.Error(fmt.Sprintf("%s %s failed", s.cfg.Name, op))
	}
	return err
}
