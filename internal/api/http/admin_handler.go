package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rentalhub-backend/internal/jobs"
	"rentalhub-backend/internal/logger"
)

// AdminHandler exposes administrative triggers for the reconciliation
// jobs plus health and metrics endpoints. It is not a public API; the
// rental-facing API layer lives elsewhere.
type AdminHandler struct {
	jobs *jobs.JobRunner
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(jobRunner *jobs.JobRunner) *AdminHandler {
	return &AdminHandler{jobs: jobRunner}
}

// Router builds the admin mux router.
func (h *AdminHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/admin/jobs/{job}/run", h.HandleRunJob).Methods(http.MethodPost)
	return r
}

// HandleHealth reports liveness.
func (h *AdminHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleRunJob triggers one reconciliation job synchronously.
func (h *AdminHandler) HandleRunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["job"]

	run, ok := h.jobByName(name)
	if !ok {
		http.Error(w, "Unknown job", http.StatusNotFound)
		return
	}

	logger.Info("Admin job trigger received", "job", name)
	run()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"job": name, "status": "completed"})
}

func (h *AdminHandler) jobByName(name string) (func(), bool) {
	switch name {
	case "auto-cancel-stale-pending":
		return h.jobs.AutoCancelStalePending, true
	case "mark-overdue-rentals":
		return h.jobs.MarkOverdueRentals, true
	case "send-return-delivery-alerts":
		return h.jobs.SendReturnDeliveryAlerts, true
	case "send-daily-summary":
		return h.jobs.SendReturnDeliverySummary, true
	case "all-nightly":
		return h.jobs.RunAllNightlyJobs, true
	case "all-daily-alerts":
		return h.jobs.RunAllDailyAlertJobs, true
	default:
		return nil, false
	}
}
