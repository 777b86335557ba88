package dto

import "github.com/shopspring/decimal"

// Requests for the upstream-mutation endpoints. These exist so that the
// pricing invalidation hooks have an entry point; they are deliberately
// minimal and carry no workflow logic.

type CreatePartRequest struct {
	Name        string  `json:"name" binding:"required,min=1"`
	IPN         string  `json:"ipn"`
	Units       string  `json:"units"`
	Assembly    bool    `json:"assembly"`
	Description *string `json:"description"`
}

type CreateBomItemRequest struct {
	AssemblyID string          `json:"assembly_id" binding:"required,uuid"`
	SubPartID  string          `json:"sub_part_id" binding:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

type CreateCompanyRequest struct {
	Name     string `json:"name" binding:"required,min=1"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
}

type CreateSupplierPartRequest struct {
	PartID             string          `json:"part_id" binding:"required,uuid"`
	SupplierID         string          `json:"supplier_id" binding:"required,uuid"`
	SKU                string          `json:"sku" binding:"required"`
	PackQuantityNative decimal.Decimal `json:"pack_quantity_native"`
}

type CreatePriceBreakRequest struct {
	// OwnerID is the part for internal breaks, the supplier part otherwise.
	OwnerID  string          `json:"owner_id" binding:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Currency string          `json:"currency" binding:"required,len=3"`
}

type CreateStockItemRequest struct {
	PartID        string           `json:"part_id" binding:"required,uuid"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Currency      string           `json:"currency" binding:"omitempty,len=3"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID string `json:"supplier_id" binding:"required,uuid"`
	Reference  string `json:"reference" binding:"required"`
}

type CreateOrderLineRequest struct {
	OrderID        string          `json:"order_id" binding:"required,uuid"`
	SupplierPartID string          `json:"supplier_part_id" binding:"required,uuid"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	Currency       string          `json:"currency" binding:"required,len=3"`
}

type ReceiveLineRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

type IDResponse struct {
	ID string `json:"id"`
}
