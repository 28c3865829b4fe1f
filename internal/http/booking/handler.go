package booking

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/booking"
	"github.com/MrJamesThe3rd/wandura/internal/http/render"
	"github.com/MrJamesThe3rd/wandura/internal/worker"
)

type Handler struct {
	svc *booking.Service
}

func NewHandler(svc *booking.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
}

type createBookingRequest struct {
	WorkerID    uuid.UUID    `json:"worker_id"`
	ProjectID   *uuid.UUID   `json:"project_id,omitempty"`
	Skill       worker.Skill `json:"skill,omitempty"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	City        string       `json:"city"`
	State       string       `json:"state"`
	ZipCode     string       `json:"zip_code"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, err.Error())
		return
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		render.BadRequest(w, "start_date must be YYYY-MM-DD")
		return
	}

	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		render.BadRequest(w, "end_date must be YYYY-MM-DD")
		return
	}

	b, err := h.svc.Create(r.Context(), caller, booking.CreateParams{
		WorkerID:    req.WorkerID,
		ProjectID:   req.ProjectID,
		Skill:       req.Skill,
		StartDate:   start,
		EndDate:     end,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var status *booking.Status
	if s := r.URL.Query().Get("status"); s != "" {
		status = new(booking.Status(s))
	}

	bookings, err := h.svc.List(r.Context(), caller, status)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(bookings))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, "invalid id")
		return
	}

	b, err := h.svc.Get(r.Context(), caller, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(b))
}

type updateStatusRequest struct {
	Status booking.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromContext(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, "invalid id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, err.Error())
		return
	}

	b, err := h.svc.Transition(r.Context(), caller, id, req.Status)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(b))
}
