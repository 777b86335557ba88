package service

import (
	"context"

	"costbook/internal/dto"
	"costbook/internal/model"
	"costbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PurchaseService is the minimal purchasing boundary: it records orders
// and receipts so purchase-history pricing has data, and fires the
// receipt/completion invalidation hooks. Full purchasing workflows live
// in another system.
type PurchaseService interface {
	CreateOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest) (*model.PurchaseOrder, error)
	AddLine(ctx context.Context, req dto.CreateOrderLineRequest) (*model.PurchaseOrderLine, error)
	// ReceiveLine books received quantity against a line and invalidates
	// the part's cached pricing.
	ReceiveLine(ctx context.Context, lineID uuid.UUID, req dto.ReceiveLineRequest) error
	// CompleteOrder marks the order complete, making its lines eligible
	// for purchase-history pricing, and invalidates every line's part.
	CompleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type purchaseService struct {
	repo repository.PurchaseRepository
	jobs RecalcEnqueuer
}

func NewPurchaseService(repo repository.PurchaseRepository, jobs RecalcEnqueuer) PurchaseService {
	return &purchaseService{repo: repo, jobs: jobs}
}

func (s *purchaseService) CreateOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest) (*model.PurchaseOrder, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, err
	}
	po := &model.PurchaseOrder{
		SupplierID: supplierID,
		Reference:  req.Reference,
		Status:     model.OrderStatusPending,
	}
	if err := s.repo.CreateOrder(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *purchaseService) AddLine(ctx context.Context, req dto.CreateOrderLineRequest) (*model.PurchaseOrderLine, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, err
	}
	supplierPartID, err := uuid.Parse(req.SupplierPartID)
	if err != nil {
		return nil, err
	}
	line := &model.PurchaseOrderLine{
		OrderID:               orderID,
		SupplierPartID:        supplierPartID,
		Quantity:              req.Quantity,
		PurchasePrice:         req.Price,
		PurchasePriceCurrency: req.Currency,
	}
	if err := s.repo.CreateLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *purchaseService) ReceiveLine(ctx context.Context, lineID uuid.UUID, req dto.ReceiveLineRequest) error {
	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		return err
	}
	if err := s.repo.ReceiveLine(ctx, lineID, req.Quantity); err != nil {
		return err
	}
	if line.SupplierPart != nil {
		return s.jobs.EnqueueRecalc(ctx, line.SupplierPart.PartID, 0)
	}
	return nil
}

func (s *purchaseService) CompleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if err := s.repo.SetOrderStatus(ctx, orderID, model.OrderStatusComplete); err != nil {
		return err
	}

	// Lines just became pricing-eligible; invalidate each affected part.
	lines, err := s.repo.LinesForOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.SupplierPart == nil {
			continue
		}
		if err := s.jobs.EnqueueRecalc(ctx, line.SupplierPart.PartID, 0); err != nil {
			log.Error().Err(err).Str("part_id", line.SupplierPart.PartID.String()).
				Msg("complete order: failed to enqueue recompute")
		}
	}
	return nil
}
