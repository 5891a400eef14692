/**
 * @description
 * This file contains the HTTP handlers for the instruction-service. The
 * evaluation handler is a thin bridge: it decodes the request body, runs
 * the evaluation pipeline, and writes the outcome verbatim with the HTTP
 * status the pipeline decided.
 *
 * @notes
 * - The body decode is deliberately tolerant: an unreadable or non-JSON
 *   body evaluates as a missing instruction and surfaces as a coded SY03
 *   outcome rather than a bare transport error, keeping the response
 *   shape uniform for every caller mistake.
 */

package api

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ledgerline/instruction-service/internal/app"
	"github.com/ledgerline/instruction-service/internal/domain"
)

const rateLimitScopeEvaluate = "evaluate"

// PaymentHandlers holds the evaluation service and the optional rate
// limiter the handlers use.
type PaymentHandlers struct {
	service        *app.Service
	limiter        *app.RedisEvaluationRateLimiter
	limitPerMinute int
}

// NewPaymentHandlers creates a new instance of PaymentHandlers. A nil
// limiter or a non-positive limit disables rate limiting.
func NewPaymentHandlers(service *app.Service, limiter *app.RedisEvaluationRateLimiter, limitPerMinute int) *PaymentHandlers {
	return &PaymentHandlers{
		service:        service,
		limiter:        limiter,
		limitPerMinute: limitPerMinute,
	}
}

// PaymentInstructionsHandler evaluates one payment instruction against
// the account snapshot supplied in the request body.
func (h *PaymentHandlers) PaymentInstructionsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.allowRequest(w, r) {
		return
	}

	var req domain.EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = domain.EvaluationRequest{}
	}

	result := h.service.Evaluate(req)
	h.writeJSON(w, result.HTTPCode, result.Outcome)
}

// allowRequest consumes one rate-limit token for the caller's address.
// Limiter backend errors fail open: evaluation is pure and cheap, so
// availability wins over strict limiting.
func (h *PaymentHandlers) allowRequest(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil || h.limitPerMinute <= 0 {
		return true
	}

	count, retryAfter, err := h.limiter.ConsumeRateLimit(r.Context(), rateLimitScopeEvaluate, clientAddr(r), h.limitPerMinute, time.Minute)
	if err != nil {
		log.Printf("level=warn component=api msg=\"rate limiter unavailable; allowing request\" err=%v", err)
		return true
	}
	if count > h.limitPerMinute {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		h.writeError(w, http.StatusTooManyRequests, "Too many evaluation requests. Please wait and try again.")
		return false
	}
	return true
}

// clientAddr returns the caller's address without the port. The router's
// RealIP middleware has already rewritten RemoteAddr for proxied calls.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *PaymentHandlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
	}
}

func (h *PaymentHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
