package service

import (
	"context"
	"errors"

	"costbook/internal/dto"
	"costbook/internal/model"
	"costbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrSelfReference rejects a BOM line whose assembly and sub part match.
var ErrSelfReference = errors.New("bom: a part cannot consume itself")

// PartService owns part and BOM-edge mutations. Every mutation that can
// shift a cost envelope enqueues a recompute for the affected part(s).
type PartService interface {
	Create(ctx context.Context, req dto.CreatePartRequest) (*model.Part, error)
	// Delete removes the part, its pricing row, and all dependent rows in
	// one transaction, then schedules recomputes for assemblies that
	// consumed it.
	Delete(ctx context.Context, id uuid.UUID) error

	AddBomItem(ctx context.Context, req dto.CreateBomItemRequest) (*model.BomItem, error)
	RemoveBomItem(ctx context.Context, id uuid.UUID) error
}

type partService struct {
	repo repository.PartRepository
	jobs RecalcEnqueuer
}

func NewPartService(repo repository.PartRepository, jobs RecalcEnqueuer) PartService {
	return &partService{repo: repo, jobs: jobs}
}

func (s *partService) Create(ctx context.Context, req dto.CreatePartRequest) (*model.Part, error) {
	units := req.Units
	if units == "" {
		units = "each"
	}
	p := &model.Part{
		Name:         req.Name,
		IPN:          req.IPN,
		Units:        units,
		Assembly:     req.Assembly,
		Description:  req.Description,
		Active:       true,
		Component:    true,
		Purchaseable: true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *partService) Delete(ctx context.Context, id uuid.UUID) error {
	// Capture consumers before the edges vanish with the part.
	consumers, err := s.repo.UsedIn(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	for _, assemblyID := range consumers {
		if err := s.jobs.EnqueueRecalc(ctx, assemblyID, 0); err != nil {
			log.Error().Err(err).Str("assembly_id", assemblyID.String()).
				Msg("part delete: failed to enqueue consumer recompute")
		}
	}
	return nil
}

func (s *partService) AddBomItem(ctx context.Context, req dto.CreateBomItemRequest) (*model.BomItem, error) {
	assemblyID, err := uuid.Parse(req.AssemblyID)
	if err != nil {
		return nil, err
	}
	subPartID, err := uuid.Parse(req.SubPartID)
	if err != nil {
		return nil, err
	}
	if assemblyID == subPartID {
		return nil, ErrSelfReference
	}

	if _, err := s.repo.FindByID(ctx, assemblyID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, subPartID); err != nil {
		return nil, err
	}

	b := &model.BomItem{
		AssemblyID: assemblyID,
		SubPartID:  subPartID,
		Quantity:   req.Quantity,
	}
	if err := s.repo.CreateBomItem(ctx, b); err != nil {
		return nil, err
	}
	return b, s.jobs.EnqueueRecalc(ctx, assemblyID, 0)
}

func (s *partService) RemoveBomItem(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.FindBomItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBomItem(ctx, id); err != nil {
		return err
	}
	return s.jobs.EnqueueRecalc(ctx, b.AssemblyID, 0)
}
