package payment

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/http/render"
	"github.com/MrJamesThe3rd/wandura/internal/payment"
)

const signatureHeader = "Stripe-Signature"

type Handler struct {
	svc          *payment.Service
	maxBodyBytes int64
}

func NewHandler(svc *payment.Service, maxBodyBytes int64) *Handler {
	return &Handler{svc: svc, maxBodyBytes: maxBodyBytes}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/intents", h.createIntent)
}

// WebhookRoutes mounts the gateway callback. It authenticates by signature,
// not by bearer token.
func (h *Handler) WebhookRoutes(r chi.Router) {
	r.Post("/stripe", h.webhook)
}

type createIntentRequest struct {
	BookingID uuid.UUID `json:"booking_id"`
}

type intentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
}

func (h *Handler) createIntent(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, err.Error())
		return
	}

	if req.BookingID == uuid.Nil {
		render.BadRequest(w, "booking_id is required")
		return
	}

	intent, err := h.svc.CreateIntent(r.Context(), caller, req.BookingID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, intentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Status:       intent.Status,
	})
}

type receivedResponse struct {
	Received bool `json:"received"`
}

func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload too large"})
			return
		}

		slog.Warn("reading webhook body", "error", err)
		render.BadRequest(w, "unreadable body")

		return
	}

	if err := h.svc.HandleEvent(r.Context(), payload, r.Header.Get(signatureHeader)); err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, receivedResponse{Received: true})
}
