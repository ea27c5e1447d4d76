package handlers

import (
	"context"
	"io"
	"log"
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/storage"
	"rental-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type Receipts interface {
	CreateReceipt(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType) (*models.Receipt, error)
	OpenReceipt(ctx context.Context, id string) (io.ReadCloser, error)
}

type ReceiptHandler struct {
	Service Receipts
}

func NewReceiptHandler(service Receipts) *ReceiptHandler {
	return &ReceiptHandler{Service: service}
}

// CreateReceipt renders and stores the receipt of one paid item.
func (h *ReceiptHandler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	renterID, err := pathUUID(r, "renterID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req models.CreateReceiptRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	receipt, err := h.Service.CreateReceipt(r.Context(), renterID, models.Period{Month: req.Month, Year: req.Year}, models.PaymentType(req.Type))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, receipt)
}

// Download serves a stored receipt. It is public so the link can be opened
// from a WhatsApp message.
func (h *ReceiptHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := storage.ValidateReceiptID(id); err != nil {
		utils.WriteError(w, err)
		return
	}

	rc, err := h.Service.OpenReceipt(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="receipt-`+id+`.pdf"`)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("[Receipts] Failed to stream %s: %v", id, err)
	}
}
