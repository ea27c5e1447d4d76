package handlers

import (
	"context"
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/pkg/utils"

	"github.com/google/uuid"
)

type Notifier interface {
	Status() models.WhatsAppStatus
	SendReceipt(ctx context.Context, renterID uuid.UUID, period models.Period, message, receiptURL string) (*models.NotificationResult, error)
}

type WhatsAppHandler struct {
	Service Notifier
}

func NewWhatsAppHandler(service Notifier) *WhatsAppHandler {
	return &WhatsAppHandler{Service: service}
}

func (h *WhatsAppHandler) Status(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Service.Status())
}

// SendReceipt messages the renter and stamps the rent record as notified.
func (h *WhatsAppHandler) SendReceipt(w http.ResponseWriter, r *http.Request) {
	var req models.SendReceiptRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	renterID, err := uuid.Parse(req.RenterID)
	if err != nil {
		utils.WriteError(w, models.Validation("invalid renter_id"))
		return
	}

	res, err := h.Service.SendReceipt(r.Context(), renterID, models.Period{Month: req.Month, Year: req.Year}, req.Message, req.ReceiptURL)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}
