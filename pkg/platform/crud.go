package platform

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// The platform API exposes one uniform CRUD surface per entity. These generic
// helpers are the only call shapes the back office needs; entity-specific
// clients are instantiations, not hand-written wrappers.

// List fetches a page of entities from path
func List[T any](ctx context.Context, c *Client, path string, filter ListFilter) (*Page[T], error) {
	query := url.Values{}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(filter.PageSize))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var page Page[T]
	if err := c.do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single entity by id
func Get[T any](ctx context.Context, c *Client, path, id string) (*T, error) {
	var entity T
	if err := c.do(ctx, http.MethodGet, path+"/"+url.PathEscape(id), nil, nil, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Create posts a new entity
func Create[T any](ctx context.Context, c *Client, path string, body interface{}) (*T, error) {
	var entity T
	if err := c.do(ctx, http.MethodPost, path, nil, body, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update replaces an entity by id
func Update[T any](ctx context.Context, c *Client, path, id string, body interface{}) (*T, error) {
	var entity T
	if err := c.do(ctx, http.MethodPut, path+"/"+url.PathEscape(id), nil, body, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Delete removes an entity by id
func Delete(ctx context.Context, c *Client, path, id string) error {
	return c.do(ctx, http.MethodDelete, path+"/"+url.PathEscape(id), nil, nil, nil)
}
