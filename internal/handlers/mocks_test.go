package handlers

import (
	"context"
	"io"

	"rental-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockLedger struct{ mock.Mock }

func (m *mockLedger) GetRenterPaymentsView(ctx context.Context, blockID uuid.UUID, period models.Period) ([]models.RenterPaymentView, error) {
	args := m.Called(ctx, blockID, period)
	v, _ := args.Get(0).([]models.RenterPaymentView)
	return v, args.Error(1)
}

func (m *mockLedger) SetAmount(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.Decimal) (*models.PaymentRecord, error) {
	args := m.Called(ctx, renterID, period, t, amount)
	rec, _ := args.Get(0).(*models.PaymentRecord)
	return rec, args.Error(1)
}

func (m *mockLedger) SetPaidStatus(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.NullDecimal, isPaid bool) (*models.PaymentRecord, error) {
	args := m.Called(ctx, renterID, period, t, amount, isPaid)
	rec, _ := args.Get(0).(*models.PaymentRecord)
	return rec, args.Error(1)
}

func (m *mockLedger) SyncTogglePaid(ctx context.Context, renterID uuid.UUID, period models.Period, isPaid bool) (*models.SyncResult, error) {
	args := m.Called(ctx, renterID, period, isPaid)
	res, _ := args.Get(0).(*models.SyncResult)
	return res, args.Error(1)
}

type mockReports struct{ mock.Mock }

func (m *mockReports) GetBlockReport(ctx context.Context, blockID uuid.UUID, period models.Period) (*models.BlockReport, error) {
	args := m.Called(ctx, blockID, period)
	rep, _ := args.Get(0).(*models.BlockReport)
	return rep, args.Error(1)
}

func (m *mockReports) GetReportSummary(ctx context.Context, period models.Period) ([]models.BlockReport, error) {
	args := m.Called(ctx, period)
	reps, _ := args.Get(0).([]models.BlockReport)
	return reps, args.Error(1)
}

func (m *mockReports) GetRenterReport(ctx context.Context, blockID uuid.UUID, period models.Period) ([]models.RenterReport, error) {
	args := m.Called(ctx, blockID, period)
	rows, _ := args.Get(0).([]models.RenterReport)
	return rows, args.Error(1)
}

func (m *mockReports) GetMonthlyHistory(ctx context.Context, blockID uuid.UUID) ([]models.MonthlyRecord, error) {
	args := m.Called(ctx, blockID)
	h, _ := args.Get(0).([]models.MonthlyRecord)
	return h, args.Error(1)
}

func (m *mockReports) GenerateBlockReportPDF(ctx context.Context, blockID uuid.UUID, period models.Period) ([]byte, error) {
	args := m.Called(ctx, blockID, period)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockReports) GenerateRenterReportCSV(ctx context.Context, blockID uuid.UUID, period models.Period) ([]byte, error) {
	args := m.Called(ctx, blockID, period)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) ListBlocks(ctx context.Context) ([]models.BlockSummary, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]models.BlockSummary)
	return b, args.Error(1)
}

func (m *mockDirectory) CreateBlock(ctx context.Context, name string) (*models.Block, error) {
	args := m.Called(ctx, name)
	b, _ := args.Get(0).(*models.Block)
	return b, args.Error(1)
}

func (m *mockDirectory) UpdateBlock(ctx context.Context, id uuid.UUID, name string) (*models.Block, error) {
	args := m.Called(ctx, id, name)
	b, _ := args.Get(0).(*models.Block)
	return b, args.Error(1)
}

func (m *mockDirectory) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDirectory) ListRenters(ctx context.Context, blockID uuid.UUID) ([]models.Renter, error) {
	args := m.Called(ctx, blockID)
	r, _ := args.Get(0).([]models.Renter)
	return r, args.Error(1)
}

func (m *mockDirectory) CreateRenter(ctx context.Context, blockID uuid.UUID, req *models.RenterRequest) (*models.Renter, error) {
	args := m.Called(ctx, blockID, req)
	r, _ := args.Get(0).(*models.Renter)
	return r, args.Error(1)
}

func (m *mockDirectory) UpdateRenter(ctx context.Context, id uuid.UUID, req *models.RenterRequest) (*models.Renter, error) {
	args := m.Called(ctx, id, req)
	r, _ := args.Get(0).(*models.Renter)
	return r, args.Error(1)
}

func (m *mockDirectory) DeleteRenter(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockReceipts struct{ mock.Mock }

func (m *mockReceipts) CreateReceipt(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType) (*models.Receipt, error) {
	args := m.Called(ctx, renterID, period, t)
	r, _ := args.Get(0).(*models.Receipt)
	return r, args.Error(1)
}

func (m *mockReceipts) OpenReceipt(ctx context.Context, id string) (io.ReadCloser, error) {
	args := m.Called(ctx, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Status() models.WhatsAppStatus {
	return m.Called().Get(0).(models.WhatsAppStatus)
}

func (m *mockNotifier) SendReceipt(ctx context.Context, renterID uuid.UUID, period models.Period, message, receiptURL string) (*models.NotificationResult, error) {
	args := m.Called(ctx, renterID, period, message, receiptURL)
	r, _ := args.Get(0).(*models.NotificationResult)
	return r, args.Error(1)
}

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*models.AuthResponse)
	return r, args.Error(1)
}

func (m *mockAuth) GetUser(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}
