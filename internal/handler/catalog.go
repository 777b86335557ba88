package handler

import (
	"errors"
	"net/http"

	"costbook/internal/apierror"
	"costbook/internal/dto"
	"costbook/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogHandler covers the upstream mutations that feed the pricing
// sources: parts, BOM edges, suppliers, price breaks, stock, purchasing.
// Each write goes through a service that fires the matching invalidation.
type CatalogHandler struct {
	parts     service.PartService
	suppliers service.SupplierService
	purchases service.PurchaseService
	stock     service.StockService
}

func NewCatalogHandler(parts service.PartService, suppliers service.SupplierService, purchases service.PurchaseService, stock service.StockService) *CatalogHandler {
	return &CatalogHandler{parts: parts, suppliers: suppliers, purchases: purchases, stock: stock}
}

func (h *CatalogHandler) CreatePart(c *gin.Context) {
	var req dto.CreatePartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.parts.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: p.ID.String()})
}

func (h *CatalogHandler) DeletePart(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	err := h.parts.Delete(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("part not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateBomItem(c *gin.Context) {
	var req dto.CreateBomItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	b, err := h.parts.AddBomItem(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrSelfReference):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("part not found"))
	case err != nil:
		c.Error(err)
	default:
		c.JSON(http.StatusCreated, dto.IDResponse{ID: b.ID.String()})
	}
}

func (h *CatalogHandler) DeleteBomItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	err := h.parts.RemoveBomItem(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("bom item not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateCompany(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	company, err := h.suppliers.CreateCompany(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: company.ID.String()})
}

func (h *CatalogHandler) CreateSupplierPart(c *gin.Context) {
	var req dto.CreateSupplierPartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sp, err := h.suppliers.CreateSupplierPart(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: sp.ID.String()})
}

func (h *CatalogHandler) DeleteSupplierPart(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	err := h.suppliers.DeleteSupplierPart(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("supplier part not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateInternalBreak(c *gin.Context) {
	var req dto.CreatePriceBreakRequest
	if !bindAndValidate(c, &req) {
		return
	}
	pb, err := h.suppliers.AddInternalBreak(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: pb.ID.String()})
}

func (h *CatalogHandler) DeleteInternalBreak(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	err := h.suppliers.RemoveInternalBreak(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("price break not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateSupplierBreak(c *gin.Context) {
	var req dto.CreatePriceBreakRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sb, err := h.suppliers.AddSupplierBreak(c.Request.Context(), req)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("supplier part not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: sb.ID.String()})
}

func (h *CatalogHandler) DeleteSupplierBreak(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	err := h.suppliers.RemoveSupplierBreak(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("price break not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateStockItem(c *gin.Context) {
	var req dto.CreateStockItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.stock.AddItem(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: item.ID.String()})
}

func (h *CatalogHandler) DeleteStockItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	err := h.stock.RemoveItem(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("stock item not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreatePurchaseOrder(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	po, err := h.purchases.CreateOrder(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: po.ID.String()})
}

func (h *CatalogHandler) CreateOrderLine(c *gin.Context) {
	var req dto.CreateOrderLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	line, err := h.purchases.AddLine(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: line.ID.String()})
}

func (h *CatalogHandler) ReceiveOrderLine(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ReceiveLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	err := h.purchases.ReceiveLine(c.Request.Context(), id, req)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("order line not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *CatalogHandler) CompletePurchaseOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.purchases.CompleteOrder(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "complete"})
}
