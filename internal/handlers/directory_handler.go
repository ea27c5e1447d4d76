package handlers

import (
	"context"
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/pkg/utils"

	"github.com/google/uuid"
)

type Directory interface {
	ListBlocks(ctx context.Context) ([]models.BlockSummary, error)
	CreateBlock(ctx context.Context, name string) (*models.Block, error)
	UpdateBlock(ctx context.Context, id uuid.UUID, name string) (*models.Block, error)
	DeleteBlock(ctx context.Context, id uuid.UUID) error
	ListRenters(ctx context.Context, blockID uuid.UUID) ([]models.Renter, error)
	CreateRenter(ctx context.Context, blockID uuid.UUID, req *models.RenterRequest) (*models.Renter, error)
	UpdateRenter(ctx context.Context, id uuid.UUID, req *models.RenterRequest) (*models.Renter, error)
	DeleteRenter(ctx context.Context, id uuid.UUID) error
}

type DirectoryHandler struct {
	Service Directory
}

func NewDirectoryHandler(service Directory) *DirectoryHandler {
	return &DirectoryHandler{Service: service}
}

func (h *DirectoryHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.Service.ListBlocks(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, blocks)
}

func (h *DirectoryHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req models.BlockRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	block, err := h.Service.CreateBlock(r.Context(), req.Name)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, block)
}

func (h *DirectoryHandler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "blockID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req models.BlockRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	block, err := h.Service.UpdateBlock(r.Context(), id, req.Name)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, block)
}

// DeleteBlock removes the block with its renters and their payments.
func (h *DirectoryHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "blockID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.Service.DeleteBlock(r.Context(), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DirectoryHandler) ListRenters(w http.ResponseWriter, r *http.Request) {
	blockID, err := pathUUID(r, "blockID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	renters, err := h.Service.ListRenters(r.Context(), blockID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, renters)
}

func (h *DirectoryHandler) CreateRenter(w http.ResponseWriter, r *http.Request) {
	blockID, err := pathUUID(r, "blockID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req models.RenterRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	renter, err := h.Service.CreateRenter(r.Context(), blockID, &req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, renter)
}

func (h *DirectoryHandler) UpdateRenter(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "renterID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req models.RenterRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	renter, err := h.Service.UpdateRenter(r.Context(), id, &req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, renter)
}

func (h *DirectoryHandler) DeleteRenter(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "renterID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.Service.DeleteRenter(r.Context(), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
