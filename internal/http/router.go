package http

import (
	"log/slog"
	"net/http"
	"time"

	"rental-backend/internal/handlers"
	"rental-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Payments  *handlers.PaymentHandler
	Reports   *handlers.ReportHandler
	Directory *handlers.DirectoryHandler
	Receipts  *handlers.ReceiptHandler
	WhatsApp  *handlers.WhatsAppHandler
	Health    *handlers.HealthHandler
	Realtime  http.HandlerFunc
}

type Options struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

func NewRouter(hs Handlers, authMiddleware *middleware.AuthMiddleware, opts Options) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	if opts.Logger != nil {
		r.Use(middleware.NewStructuredLogger(opts.Logger))
	}
	// Inside the router so metrics see the matched route template.
	r.Use(middleware.MetricsMiddleware)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	// Public routes
	r.HandleFunc("/health", hs.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", hs.Health.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/auth/login", hs.Auth.Login).Methods("POST")
	// Receipt links are opened from WhatsApp without a token.
	r.HandleFunc("/api/receipts/{id}", hs.Receipts.Download).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/me", hs.Auth.Me).Methods("GET")

	// Blocks
	api.HandleFunc("/blocks", hs.Directory.ListBlocks).Methods("GET")
	api.HandleFunc("/blocks", hs.Directory.CreateBlock).Methods("POST")
	api.HandleFunc("/blocks/{blockID}", hs.Directory.UpdateBlock).Methods("PUT")
	api.HandleFunc("/blocks/{blockID}", hs.Directory.DeleteBlock).Methods("DELETE")
	api.HandleFunc("/blocks/{blockID}/renters", hs.Directory.ListRenters).Methods("GET")
	api.HandleFunc("/blocks/{blockID}/renters", hs.Directory.CreateRenter).Methods("POST")

	// Ledger views and reports
	api.HandleFunc("/blocks/{blockID}/payments", hs.Payments.ListBlockPayments).Methods("GET")
	api.HandleFunc("/blocks/{blockID}/summary", hs.Reports.GetBlockReport).Methods("GET")
	api.HandleFunc("/blocks/{blockID}/report", hs.Reports.GetRenterReport).Methods("GET")
	api.HandleFunc("/blocks/{blockID}/report.pdf", hs.Reports.DownloadPDF).Methods("GET")
	api.HandleFunc("/blocks/{blockID}/report.csv", hs.Reports.DownloadCSV).Methods("GET")
	api.HandleFunc("/blocks/{blockID}/history", hs.Reports.GetMonthlyHistory).Methods("GET")
	api.HandleFunc("/reports/summary", hs.Reports.GetReportSummary).Methods("GET")

	// Renters and their payments
	api.HandleFunc("/renters/{renterID}", hs.Directory.UpdateRenter).Methods("PUT")
	api.HandleFunc("/renters/{renterID}", hs.Directory.DeleteRenter).Methods("DELETE")
	api.HandleFunc("/renters/{renterID}/payments/amount", hs.Payments.SetAmount).Methods("PUT")
	api.HandleFunc("/renters/{renterID}/payments/status", hs.Payments.SetPaidStatus).Methods("PUT")
	api.HandleFunc("/renters/{renterID}/payments/sync", hs.Payments.SyncToggle).Methods("PUT")
	api.HandleFunc("/renters/{renterID}/receipts", hs.Receipts.CreateReceipt).Methods("POST")

	// WhatsApp
	api.HandleFunc("/whatsapp/status", hs.WhatsApp.Status).Methods("GET")
	api.HandleFunc("/whatsapp/send-receipt", hs.WhatsApp.SendReceipt).Methods("POST")

	if hs.Realtime != nil {
		api.HandleFunc("/ws", hs.Realtime).Methods("GET")
	}

	return r
}

// Wrap adds the outer layers that must also cover unmatched routes.
func Wrap(router http.Handler, cors func(http.Handler) http.Handler) http.Handler {
	return middleware.PanicRecovery(cors(router))
}
