package service

import (
	"github.com/platinummonkey/backoffice/pkg/notify"
	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/platform"
	"github.com/platinummonkey/backoffice/pkg/query"
)

// Registry holds the CRUD services for every back-office entity. Each
// service owns one cache group; mutations on entities whose upstream state
// ripples into others list those groups in Invalidates.
type Registry struct {
	Brands        *CRUD[platform.Brand]
	Cities        *CRUD[platform.City]
	Products      *CRUD[platform.Product]
	Stock         *CRUD[platform.StockItem]
	Purchases     *CRUD[platform.Purchase]
	Orders        *CRUD[platform.Order]
	DeliveryNotes *CRUD[platform.DeliveryNote]
	Shipments     *CRUD[platform.Shipment]
	Invoices      *CRUD[platform.Invoice]
	AdSpends      *CRUD[platform.AdSpend]
}

// NewRegistry wires a CRUD service per entity against the shared platform
// client and query cache.
func NewRegistry(api *platform.Client, cache *query.Client, center *notify.Center, logger *observability.Logger) *Registry {
	return &Registry{
		Brands:    New[platform.Brand](Config{Name: "brands", Path: "/brands"}, api, cache, center, logger),
		Cities:    New[platform.City](Config{Name: "cities", Path: "/cities"}, api, cache, center, logger),
		Products:  New[platform.Product](Config{Name: "products", Path: "/products", Invalidates: []string{"stock"}}, api, cache, center, logger),
		Stock:     New[platform.StockItem](Config{Name: "stock", Path: "/stock"}, api, cache, center, logger),
		Purchases: New[platform.Purchase](Config{Name: "purchases", Path: "/purchases", Invalidates: []string{"stock"}}, api, cache, center, logger),
		Orders:    New[platform.Order](Config{Name: "orders", Path: "/orders"}, api, cache, center, logger),
		DeliveryNotes: New[platform.DeliveryNote](
			Config{Name: "delivery-notes", Path: "/delivery-notes", Invalidates: []string{"orders", "shipments"}},
			api, cache, center, logger),
		Shipments: New[platform.Shipment](Config{Name: "shipments", Path: "/shipments", Invalidates: []string{"orders"}}, api, cache, center, logger),
		Invoices:  New[platform.Invoice](Config{Name: "invoices", Path: "/invoices"}, api, cache, center, logger),
		AdSpends:  New[platform.AdSpend](Config{Name: "ad-spends", Path: "/ad-spends"}, api, cache, center, logger),
	}
}
