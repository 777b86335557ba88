package service

import (
	"context"

	"costbook/internal/dto"
	"costbook/internal/model"
	"costbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockService is the minimal stock boundary: item creation and removal,
// each invalidating the owning part's cached pricing when the item
// carries a purchase price.
type StockService interface {
	AddItem(ctx context.Context, req dto.CreateStockItemRequest) (*model.StockItem, error)
	RemoveItem(ctx context.Context, id uuid.UUID) error
}

type stockService struct {
	repo repository.StockRepository
	jobs RecalcEnqueuer
}

func NewStockService(repo repository.StockRepository, jobs RecalcEnqueuer) StockService {
	return &stockService{repo: repo, jobs: jobs}
}

func (s *stockService) AddItem(ctx context.Context, req dto.CreateStockItemRequest) (*model.StockItem, error) {
	partID, err := uuid.Parse(req.PartID)
	if err != nil {
		return nil, err
	}
	item := &model.StockItem{
		PartID:   partID,
		Quantity: req.Quantity,
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = decimal.NullDecimal{Decimal: *req.PurchasePrice, Valid: true}
		item.PurchasePriceCurrency = req.Currency
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	if item.PurchasePrice.Valid {
		return item, s.jobs.EnqueueRecalc(ctx, partID, 0)
	}
	return item, nil
}

func (s *stockService) RemoveItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if item.PurchasePrice.Valid {
		return s.jobs.EnqueueRecalc(ctx, item.PartID, 0)
	}
	return nil
}
