package services

import (
	"context"
	"strings"

	"rental-backend/internal/ledger"
	"rental-backend/internal/models"

	"github.com/google/uuid"
)

// DirectoryStore is the block and renter table access.
type DirectoryStore interface {
	GetBlock(ctx context.Context, id uuid.UUID) (*models.Block, error)
	ListBlockSummaries(ctx context.Context) ([]models.BlockSummary, error)
	ListRenters(ctx context.Context, blockID uuid.UUID) ([]models.Renter, error)
	CreateBlock(ctx context.Context, b *models.Block) error
	UpdateBlock(ctx context.Context, b *models.Block) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error
	CreateRenter(ctx context.Context, r *models.Renter) error
	UpdateRenter(ctx context.Context, r *models.Renter) error
	DeleteRenter(ctx context.Context, id uuid.UUID) error
}

// DirectoryService manages blocks and renters. Every change drops cached
// reports since renter counts and prices feed every report.
type DirectoryService struct {
	Repo  DirectoryStore
	Cache ReportCache
}

func NewDirectoryService(repo DirectoryStore, cache ReportCache) *DirectoryService {
	return &DirectoryService{Repo: repo, Cache: cacheOrNoop(cache)}
}

func (s *DirectoryService) ListBlocks(ctx context.Context) ([]models.BlockSummary, error) {
	return s.Repo.ListBlockSummaries(ctx)
}

func (s *DirectoryService) CreateBlock(ctx context.Context, name string) (*models.Block, error) {
	b := &models.Block{Name: strings.TrimSpace(name)}
	if b.Name == "" {
		return nil, models.Validation("block name is required")
	}
	if err := s.Repo.CreateBlock(ctx, b); err != nil {
		return nil, err
	}
	s.Cache.InvalidateAll(ctx)
	return b, nil
}

func (s *DirectoryService) UpdateBlock(ctx context.Context, id uuid.UUID, name string) (*models.Block, error) {
	b := &models.Block{ID: id, Name: strings.TrimSpace(name)}
	if b.Name == "" {
		return nil, models.Validation("block name is required")
	}
	if err := s.Repo.UpdateBlock(ctx, b); err != nil {
		return nil, err
	}
	s.Cache.InvalidateAll(ctx)
	return b, nil
}

func (s *DirectoryService) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteBlock(ctx, id); err != nil {
		return err
	}
	s.Cache.InvalidateAll(ctx)
	return nil
}

func (s *DirectoryService) ListRenters(ctx context.Context, blockID uuid.UUID) ([]models.Renter, error) {
	if _, err := s.Repo.GetBlock(ctx, blockID); err != nil {
		return nil, err
	}
	return s.Repo.ListRenters(ctx, blockID)
}

func (s *DirectoryService) CreateRenter(ctx context.Context, blockID uuid.UUID, req *models.RenterRequest) (*models.Renter, error) {
	r, err := renterFromRequest(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetBlock(ctx, blockID); err != nil {
		return nil, err
	}
	r.BlockID = blockID
	if err := s.Repo.CreateRenter(ctx, r); err != nil {
		return nil, err
	}
	s.Cache.InvalidateAll(ctx)
	return r, nil
}

// UpdateRenter changes name, phone and price. Existing payment records keep
// their amounts; only future defaults follow the new price.
func (s *DirectoryService) UpdateRenter(ctx context.Context, id uuid.UUID, req *models.RenterRequest) (*models.Renter, error) {
	r, err := renterFromRequest(req)
	if err != nil {
		return nil, err
	}
	r.ID = id
	if err := s.Repo.UpdateRenter(ctx, r); err != nil {
		return nil, err
	}
	s.Cache.InvalidateAll(ctx)
	return r, nil
}

func (s *DirectoryService) DeleteRenter(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteRenter(ctx, id); err != nil {
		return err
	}
	s.Cache.InvalidateAll(ctx)
	return nil
}

func renterFromRequest(req *models.RenterRequest) (*models.Renter, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.Validation("renter name is required")
	}
	price, err := ledger.NormalizeAmount(req.RentPrice)
	if err != nil {
		return nil, models.Validation("rent price must not be negative")
	}
	return &models.Renter{
		Name:        name,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		RentPrice:   price,
	}, nil
}
