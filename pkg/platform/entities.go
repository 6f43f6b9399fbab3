package platform

import "time"

// Entity DTOs mirror the platform API's wire shapes. Business rules live
// server-side; these are field lists only.

// Brand is a product brand
type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// City is a deliverable city
type City struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DeliveryFee   float64 `json:"deliveryFee"`
	IsDeliverable bool    `json:"isDeliverable"`
}

// Product is a sellable product
type Product struct {
	ID        string    `json:"id"`
	BrandID   string    `json:"brandId"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// StockItem is the on-hand quantity of a product in a warehouse
type StockItem struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	WarehouseID string `json:"warehouseId"`
	Quantity    int    `json:"quantity"`
	Reserved    int    `json:"reserved"`
}

// Purchase is a supplier purchase order
type Purchase struct {
	ID         string    `json:"id"`
	SupplierID string    `json:"supplierId"`
	Status     string    `json:"status"`
	TotalCost  float64   `json:"totalCost"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Order is a cash-on-delivery customer order
type Order struct {
	ID            string    `json:"id"`
	Reference     string    `json:"reference"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	CityID        string    `json:"cityId"`
	Status        string    `json:"status"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DeliveryNote groups orders handed to a delivery company
type DeliveryNote struct {
	ID                string    `json:"id"`
	Reference         string    `json:"reference"`
	DeliveryCompanyID string    `json:"deliveryCompanyId"`
	OrderIDs          []string  `json:"orderIds"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Shipment tracks a delivery-company parcel
type Shipment struct {
	ID             string    `json:"id"`
	DeliveryNoteID string    `json:"deliveryNoteId"`
	TrackingNumber string    `json:"trackingNumber"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Invoice is a tenant invoice
type Invoice struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// AdSpend is a media-buyer spend record
type AdSpend struct {
	ID        string    `json:"id"`
	BuyerID   string    `json:"buyerId"`
	Platform  string    `json:"platform"`
	Amount    float64   `json:"amount"`
	SpentAt   time.Time `json:"spentAt"`
}
