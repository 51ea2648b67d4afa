package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/karbadigital/leads-api/internal/notify"
	"github.com/karbadigital/leads-api/internal/observability/metrics"
	"github.com/karbadigital/leads-api/internal/recaptcha"
	"github.com/karbadigital/leads-api/pkg/logging"
)

// Mailer delivers an accepted lead to the operator.
type Mailer interface {
	Deliver(ctx context.Context, lead notify.Lead) (notify.Result, error)
}

// Handler runs the intake pipeline for one submission: validate, verify the
// bot-score token, then notify the operator. Each request is independent;
// the handler holds no mutable state.
type Handler struct {
	verifier recaptcha.Checker
	mailer   Mailer
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(verifier recaptcha.Checker, mailer Mailer, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		verifier: verifier,
		mailer:   mailer,
		metrics:  m,
		logger:   logger,
	}
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// Create handles POST /api/leads.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.logger.Error("failed to decode submission", "error", err)
		h.metrics.ObserveSubmission("invalid")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := sub.Validate(); err != nil {
		h.logger.Info("submission rejected", "reason", err.Error())
		h.metrics.ObserveSubmission("invalid")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	verdict := h.verifier.Check(r.Context(), sub.RecaptchaToken)
	if !verdict.Allowed {
		// Detail stays in the logs; the caller only learns the check failed.
		h.logger.Info("submission failed verification", "detail", verdict.Detail, "name", sub.Name)
		h.metrics.ObserveVerification("rejected")
		h.metrics.ObserveSubmission("rejected")
		writeError(w, http.StatusForbidden, "verification failed")
		return
	}
	h.metrics.ObserveVerification("allowed")

	// A lead that passed verification should be delivered even if the
	// browser disconnects before we finish sending.
	sendCtx := context.WithoutCancel(r.Context())
	result, err := h.mailer.Deliver(sendCtx, notify.Lead{
		Name:    sub.Name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Service: sub.Service,
		Message: sub.Message,
	})
	if err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			h.metrics.ObserveNotification("misconfigured")
		} else {
			h.metrics.ObserveNotification("failed")
		}
		h.metrics.ObserveSubmission("error")
		writeError(w, http.StatusInternalServerError, "failed to process lead")
		return
	}

	if result.Delivered {
		h.metrics.ObserveNotification("delivered")
	} else {
		h.metrics.ObserveNotification("skipped")
	}
	h.metrics.ObserveSubmission("accepted")
	h.logger.Info("lead accepted", "name", sub.Name, "service", sub.Service, "notified", result.Delivered)

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"message":  "lead received",
		"notified": result.Delivered,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
