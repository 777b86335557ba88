package service

import (
	"context"

	"costbook/internal/dto"
	"costbook/internal/model"
	"costbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierService owns supplier links and price break rows: internal
// and supplier-quoted. Saving or deleting a break invalidates the owning
// part's cached pricing.
type SupplierService interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*model.Company, error)
	CreateSupplierPart(ctx context.Context, req dto.CreateSupplierPartRequest) (*model.SupplierPart, error)
	DeleteSupplierPart(ctx context.Context, id uuid.UUID) error

	AddInternalBreak(ctx context.Context, req dto.CreatePriceBreakRequest) (*model.PartPriceBreak, error)
	RemoveInternalBreak(ctx context.Context, id uuid.UUID) error
	AddSupplierBreak(ctx context.Context, req dto.CreatePriceBreakRequest) (*model.SupplierPriceBreak, error)
	RemoveSupplierBreak(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo repository.PriceBreakRepository
	jobs RecalcEnqueuer
}

func NewSupplierService(repo repository.PriceBreakRepository, jobs RecalcEnqueuer) SupplierService {
	return &supplierService{repo: repo, jobs: jobs}
}

func (s *supplierService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*model.Company, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	c := &model.Company{Name: req.Name, Currency: currency, IsSupplier: true, Active: true}
	if err := s.repo.CreateCompany(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *supplierService) CreateSupplierPart(ctx context.Context, req dto.CreateSupplierPartRequest) (*model.SupplierPart, error) {
	partID, err := uuid.Parse(req.PartID)
	if err != nil {
		return nil, err
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, err
	}
	pack := req.PackQuantityNative
	if !pack.IsPositive() {
		pack = decimal.NewFromInt(1)
	}
	sp := &model.SupplierPart{
		PartID:             partID,
		SupplierID:         supplierID,
		SKU:                req.SKU,
		PackQuantityNative: pack,
		Active:             true,
	}
	if err := s.repo.CreateSupplierPart(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *supplierService) DeleteSupplierPart(ctx context.Context, id uuid.UUID) error {
	sp, err := s.repo.FindSupplierPart(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSupplierPart(ctx, id); err != nil {
		return err
	}
	return s.jobs.EnqueueRecalc(ctx, sp.PartID, 0)
}

func (s *supplierService) AddInternalBreak(ctx context.Context, req dto.CreatePriceBreakRequest) (*model.PartPriceBreak, error) {
	partID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, err
	}
	pb := &model.PartPriceBreak{
		PartID:        partID,
		Quantity:      orOne(req.Quantity),
		Price:         req.Price,
		PriceCurrency: req.Currency,
	}
	if err := s.repo.CreateInternal(ctx, pb); err != nil {
		return nil, err
	}
	return pb, s.jobs.EnqueueRecalc(ctx, partID, 0)
}

func (s *supplierService) RemoveInternalBreak(ctx context.Context, id uuid.UUID) error {
	pb, err := s.repo.FindInternal(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteInternal(ctx, id); err != nil {
		return err
	}
	return s.jobs.EnqueueRecalc(ctx, pb.PartID, 0)
}

func (s *supplierService) AddSupplierBreak(ctx context.Context, req dto.CreatePriceBreakRequest) (*model.SupplierPriceBreak, error) {
	supplierPartID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, err
	}
	sp, err := s.repo.FindSupplierPart(ctx, supplierPartID)
	if err != nil {
		return nil, err
	}
	sb := &model.SupplierPriceBreak{
		SupplierPartID: supplierPartID,
		Quantity:       orOne(req.Quantity),
		Price:          req.Price,
		PriceCurrency:  req.Currency,
	}
	if err := s.repo.CreateSupplierBreak(ctx, sb); err != nil {
		return nil, err
	}
	return sb, s.jobs.EnqueueRecalc(ctx, sp.PartID, 0)
}

func (s *supplierService) RemoveSupplierBreak(ctx context.Context, id uuid.UUID) error {
	sb, err := s.repo.FindSupplierBreak(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSupplierBreak(ctx, id); err != nil {
		return err
	}
	if sb.SupplierPart != nil {
		return s.jobs.EnqueueRecalc(ctx, sb.SupplierPart.PartID, 0)
	}
	return nil
}

func orOne(q decimal.Decimal) decimal.Decimal {
	if q.IsPositive() {
		return q
	}
	return decimal.NewFromInt(1)
}
