package handlers

import (
	"context"
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
	"rental-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentLedger is the toggle and update engine as seen by HTTP.
type PaymentLedger interface {
	GetRenterPaymentsView(ctx context.Context, blockID uuid.UUID, period models.Period) ([]models.RenterPaymentView, error)
	SetAmount(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.Decimal) (*models.PaymentRecord, error)
	SetPaidStatus(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.NullDecimal, isPaid bool) (*models.PaymentRecord, error)
	SyncTogglePaid(ctx context.Context, renterID uuid.UUID, period models.Period, isPaid bool) (*models.SyncResult, error)
}

type PaymentHandler struct {
	Service PaymentLedger
	Clock   timeutil.Clock
}

func NewPaymentHandler(service PaymentLedger, clock timeutil.Clock) *PaymentHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &PaymentHandler{Service: service, Clock: clock}
}

// ListBlockPayments returns every renter of the block with the period's
// rent, electricity and water status.
func (h *PaymentHandler) ListBlockPayments(w http.ResponseWriter, r *http.Request) {
	blockID, err := pathUUID(r, "blockID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	period, err := queryPeriod(r, h.Clock)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	views, err := h.Service.GetRenterPaymentsView(r.Context(), blockID, period)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, views)
}

func (h *PaymentHandler) SetAmount(w http.ResponseWriter, r *http.Request) {
	renterID, err := pathUUID(r, "renterID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req models.SetAmountRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	rec, err := h.Service.SetAmount(r.Context(), renterID, models.Period{Month: req.Month, Year: req.Year}, models.PaymentType(req.Type), req.Amount)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

func (h *PaymentHandler) SetPaidStatus(w http.ResponseWriter, r *http.Request) {
	renterID, err := pathUUID(r, "renterID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req models.SetPaidStatusRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	var amount decimal.NullDecimal
	if req.Amount != nil {
		amount = decimal.NewNullDecimal(*req.Amount)
	}

	rec, err := h.Service.SetPaidStatus(r.Context(), renterID, models.Period{Month: req.Month, Year: req.Year}, models.PaymentType(req.Type), amount, *req.IsPaid)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// SyncToggle marks rent and the already entered utility bills paid or unpaid together.
func (h *PaymentHandler) SyncToggle(w http.ResponseWriter, r *http.Request) {
	renterID, err := pathUUID(r, "renterID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var req models.SyncToggleRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	res, err := h.Service.SyncTogglePaid(r.Context(), renterID, models.Period{Month: req.Month, Year: req.Year}, *req.IsPaid)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}
