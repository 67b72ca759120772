package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
	"github.com/turnilab/turni-backend-go/internal/handler/http/response"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetMyShifts(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Transitions(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	ForceComplete(w http.ResponseWriter, r *http.Request)
	EmergencyStop(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// Create implements ShiftHandler.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.shiftService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shifts assigned successfully", results)
}

func parseShiftFilter(r *http.Request) shift.ShiftFilter {
	filter := shift.ShiftFilter{}

	if collaboratorID := r.URL.Query().Get("collaborator_id"); collaboratorID != "" {
		filter.CollaboratorID = &collaboratorID
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	if month := r.URL.Query().Get("month"); month != "" {
		filter.Month = &month
	}

	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}

	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	// Pagination
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	filter.Page = page

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	filter.Limit = limit

	return filter
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseShiftFilter(r)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.shiftService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetMyShifts implements ShiftHandler.
func (h *shiftHandlerImpl) GetMyShifts(w http.ResponseWriter, r *http.Request) {
	filter := parseShiftFilter(r)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.shiftService.GetMy(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	result, err := h.shiftService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements ShiftHandler.
func (h *shiftHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	var req shift.UpdateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated successfully", result)
}

// Delete implements ShiftHandler.
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	if err := h.shiftService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}

// Transitions implements ShiftHandler.
func (h *shiftHandlerImpl) Transitions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	events, err := h.shiftService.Transitions(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"transitions": events})
}

// Accept implements ShiftHandler.
func (h *shiftHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Shift accepted successfully", h.shiftService.Accept)
}

// Reject implements ShiftHandler.
func (h *shiftHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Shift rejected successfully", h.shiftService.Reject)
}

// CheckIn implements ShiftHandler.
func (h *shiftHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	var req shift.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Check-in decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked in successfully", result)
}

// CheckOut implements ShiftHandler.
func (h *shiftHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Checked out successfully", h.shiftService.CheckOut)
}

// ForceComplete implements ShiftHandler.
func (h *shiftHandlerImpl) ForceComplete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Shift completed successfully", h.shiftService.ForceComplete)
}

// EmergencyStop implements ShiftHandler.
func (h *shiftHandlerImpl) EmergencyStop(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Shift stopped successfully", h.shiftService.EmergencyStop)
}

func (h *shiftHandlerImpl) transition(w http.ResponseWriter, r *http.Request, message string, fn func(ctx context.Context, id string) (shift.ShiftResponse, error)) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	result, err := fn(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}
