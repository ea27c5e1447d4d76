package services_test

import (
	"context"
	"testing"

	"rental-backend/internal/models"
	"rental-backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) GetBlock(ctx context.Context, id uuid.UUID) (*models.Block, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Block)
	return b, args.Error(1)
}

func (m *mockDirectory) ListBlockSummaries(ctx context.Context) ([]models.BlockSummary, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]models.BlockSummary)
	return s, args.Error(1)
}

func (m *mockDirectory) ListRenters(ctx context.Context, blockID uuid.UUID) ([]models.Renter, error) {
	args := m.Called(ctx, blockID)
	r, _ := args.Get(0).([]models.Renter)
	return r, args.Error(1)
}

func (m *mockDirectory) CreateBlock(ctx context.Context, b *models.Block) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockDirectory) UpdateBlock(ctx context.Context, b *models.Block) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockDirectory) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDirectory) CreateRenter(ctx context.Context, r *models.Renter) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockDirectory) UpdateRenter(ctx context.Context, r *models.Renter) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockDirectory) DeleteRenter(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestDirectoryService_Blocks(t *testing.T) {
	ctx := context.Background()

	t.Run("Create trims name", func(t *testing.T) {
		repo := new(mockDirectory)
		c := newRecordingCache()
		repo.On("CreateBlock", ctx, mock.MatchedBy(func(b *models.Block) bool { return b.Name == "Block C" })).Return(nil)

		svc := services.NewDirectoryService(repo, c)
		b, err := svc.CreateBlock(ctx, "  Block C ")
		require.NoError(t, err)
		assert.Equal(t, "Block C", b.Name)
		assert.Equal(t, 1, c.invalidated)
		repo.AssertExpectations(t)
	})

	t.Run("Create requires name", func(t *testing.T) {
		repo := new(mockDirectory)
		svc := services.NewDirectoryService(repo, nil)
		_, err := svc.CreateBlock(ctx, "   ")
		assert.ErrorIs(t, err, models.ErrValidation)
		repo.AssertNotCalled(t, "CreateBlock", mock.Anything, mock.Anything)
	})

	t.Run("Delete missing", func(t *testing.T) {
		repo := new(mockDirectory)
		id := uuid.New()
		repo.On("DeleteBlock", ctx, id).Return(models.NotFound("block %s not found", id))

		c := newRecordingCache()
		svc := services.NewDirectoryService(repo, c)
		err := svc.DeleteBlock(ctx, id)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Zero(t, c.invalidated)
	})
}

func TestDirectoryService_Renters(t *testing.T) {
	ctx := context.Background()
	blockID := uuid.New()

	t.Run("Create", func(t *testing.T) {
		repo := new(mockDirectory)
		repo.On("GetBlock", ctx, blockID).Return(&models.Block{ID: blockID, Name: "A"}, nil)
		repo.On("CreateRenter", ctx, mock.MatchedBy(func(r *models.Renter) bool {
			return r.BlockID == blockID && r.Name == "Asha" && r.RentPrice.Equal(dec("1200.5"))
		})).Return(nil)

		svc := services.NewDirectoryService(repo, nil)
		r, err := svc.CreateRenter(ctx, blockID, &models.RenterRequest{Name: " Asha ", RentPrice: dec("1200.499")})
		require.NoError(t, err)
		assert.Equal(t, "1200.50", r.RentPrice.StringFixed(2))
		repo.AssertExpectations(t)
	})

	t.Run("Negative price", func(t *testing.T) {
		repo := new(mockDirectory)
		svc := services.NewDirectoryService(repo, nil)
		_, err := svc.CreateRenter(ctx, blockID, &models.RenterRequest{Name: "Asha", RentPrice: dec("-5")})
		assert.ErrorIs(t, err, models.ErrValidation)
		repo.AssertNotCalled(t, "CreateRenter", mock.Anything, mock.Anything)
	})

	t.Run("Unknown block", func(t *testing.T) {
		repo := new(mockDirectory)
		repo.On("GetBlock", ctx, blockID).Return(nil, models.NotFound("block %s not found", blockID))
		svc := services.NewDirectoryService(repo, nil)
		_, err := svc.CreateRenter(ctx, blockID, &models.RenterRequest{Name: "Asha", RentPrice: dec("10")})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		repo := new(mockDirectory)
		id := uuid.New()
		repo.On("UpdateRenter", ctx, mock.MatchedBy(func(r *models.Renter) bool { return r.ID == id })).Return(nil)
		c := newRecordingCache()
		svc := services.NewDirectoryService(repo, c)
		r, err := svc.UpdateRenter(ctx, id, &models.RenterRequest{Name: "Asha K", PhoneNumber: "+91 98765 43210", RentPrice: dec("1300")})
		require.NoError(t, err)
		assert.Equal(t, "Asha K", r.Name)
		assert.Equal(t, 1, c.invalidated)
	})
}
