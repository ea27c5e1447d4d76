package handlers

import (
	"context"
	"fmt"
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
	"rental-backend/pkg/utils"

	"github.com/google/uuid"
)

type Reports interface {
	GetBlockReport(ctx context.Context, blockID uuid.UUID, period models.Period) (*models.BlockReport, error)
	GetReportSummary(ctx context.Context, period models.Period) ([]models.BlockReport, error)
	GetRenterReport(ctx context.Context, blockID uuid.UUID, period models.Period) ([]models.RenterReport, error)
	GetMonthlyHistory(ctx context.Context, blockID uuid.UUID) ([]models.MonthlyRecord, error)
	GenerateBlockReportPDF(ctx context.Context, blockID uuid.UUID, period models.Period) ([]byte, error)
	GenerateRenterReportCSV(ctx context.Context, blockID uuid.UUID, period models.Period) ([]byte, error)
}

type ReportHandler struct {
	Service Reports
	Clock   timeutil.Clock
}

func NewReportHandler(service Reports, clock timeutil.Clock) *ReportHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &ReportHandler{Service: service, Clock: clock}
}

// blockPeriod reads the block route variable and the period query.
func (h *ReportHandler) blockPeriod(r *http.Request) (uuid.UUID, models.Period, error) {
	blockID, err := pathUUID(r, "blockID")
	if err != nil {
		return uuid.Nil, models.Period{}, err
	}
	period, err := queryPeriod(r, h.Clock)
	if err != nil {
		return uuid.Nil, models.Period{}, err
	}
	return blockID, period, nil
}

func (h *ReportHandler) GetBlockReport(w http.ResponseWriter, r *http.Request) {
	blockID, period, err := h.blockPeriod(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	rep, err := h.Service.GetBlockReport(r.Context(), blockID, period)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) GetRenterReport(w http.ResponseWriter, r *http.Request) {
	blockID, period, err := h.blockPeriod(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	rows, err := h.Service.GetRenterReport(r.Context(), blockID, period)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) GetReportSummary(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r, h.Clock)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	summary, err := h.Service.GetReportSummary(r.Context(), period)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) GetMonthlyHistory(w http.ResponseWriter, r *http.Request) {
	blockID, err := pathUUID(r, "blockID")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	history, err := h.Service.GetMonthlyHistory(r.Context(), blockID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, history)
}

func (h *ReportHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	blockID, period, err := h.blockPeriod(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	data, err := h.Service.GenerateBlockReportPDF(r.Context(), blockID, period)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	attachment(w, "application/pdf", fmt.Sprintf("block-report-%s.pdf", period.Key()), data)
}

func (h *ReportHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	blockID, period, err := h.blockPeriod(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	data, err := h.Service.GenerateRenterReportCSV(r.Context(), blockID, period)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	attachment(w, "text/csv", fmt.Sprintf("renter-report-%s.csv", period.Key()), data)
}

func attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
