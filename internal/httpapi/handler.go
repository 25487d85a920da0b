package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmuigai-sys/hosq/internal/models"
	"github.com/pmuigai-sys/hosq/internal/store"
)

type Handler struct {
	store store.QueueStore
}

type registerRequest struct {
	PhoneNumber string `json:"phone_number"`
	FullName    string `json:"full_name"`
	Age         *int   `json:"age"`
	VisitReason string `json:"visit_reason"`
}

type completeRequest struct {
	Advance *bool `json:"advance"`
}

type flagRequest struct {
	FlagID string `json:"flag_id"`
}

type createStageRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	OrderNumber int    `json:"order_number"`
}

type createFlagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createStaffRequest struct {
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Secret     string `json:"secret"`
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewHandler(store store.QueueStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/register", h.handleRegister)
	mux.HandleFunc("/api/entries", h.handleEntries)
	mux.HandleFunc("/api/entries/", h.handleEntrySubroutes)
	mux.HandleFunc("/api/stages", h.handleStages)
	mux.HandleFunc("/api/stages/", h.handleStageActions)
	mux.HandleFunc("/api/flags", h.handleFlags)
	mux.HandleFunc("/api/flags/", h.handleFlagActions)
	mux.HandleFunc("/api/staff", h.handleStaff)
	mux.HandleFunc("/api/staff/", h.handleStaffActions)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.FullName = strings.TrimSpace(req.FullName)
	req.VisitReason = strings.TrimSpace(req.VisitReason)

	if req.PhoneNumber == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "phone_number and full_name are required")
		return
	}
	if !isValidPhone(req.PhoneNumber) {
		writeError(w, http.StatusBadRequest, "invalid_request", "phone_number must be 8-16 digits")
		return
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		writeError(w, http.StatusBadRequest, "invalid_request", "age is out of range")
		return
	}

	entry, err := h.store.Register(r.Context(), store.RegisterInput{
		PhoneNumber: req.PhoneNumber,
		FullName:    req.FullName,
		Age:         req.Age,
		VisitReason: req.VisitReason,
		CheckedInAt: time.Now().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireActor(w, r); !ok {
		return
	}

	stageID := strings.TrimSpace(r.URL.Query().Get("stage_id"))
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if stageID != "" && !isValidUUID(stageID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "stage_id must be a UUID")
		return
	}
	if status != "" && status != models.StatusWaiting && status != models.StatusInService && status != models.StatusCompleted {
		writeError(w, http.StatusBadRequest, "invalid_request", "status must be waiting, in_service, or completed")
		return
	}

	entries, err := h.store.ListEntries(r.Context(), stageID, status)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleEntrySubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	parts := strings.Split(rest, "/")

	entryID := parts[0]
	if !isValidUUID(entryID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "entry id must be a UUID")
		return
	}

	switch {
	case len(parts) == 1:
		h.handleGetEntry(w, r, entryID)
	case len(parts) == 2 && parts[1] == "history":
		h.handleEntryHistory(w, r, entryID)
	case len(parts) == 2 && parts[1] == "sms-logs":
		h.handleEntrySmsLogs(w, r, entryID)
	case len(parts) == 3 && parts[1] == "actions":
		h.handleEntryAction(w, r, entryID, parts[2])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGetEntry(w http.ResponseWriter, r *http.Request, entryID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entry, err := h.store.GetEntry(r.Context(), entryID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleEntryHistory(w http.ResponseWriter, r *http.Request, entryID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	records, err := h.store.ListHistory(r.Context(), entryID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleEntrySmsLogs(w http.ResponseWriter, r *http.Request, entryID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireActor(w, r); !ok {
		return
	}

	logs, err := h.store.ListSmsLogs(r.Context(), entryID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

func (h *Handler) handleEntryAction(w http.ResponseWriter, r *http.Request, entryID, action string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	switch action {
	case "call":
		entry, err := h.store.CallNext(r.Context(), store.CallInput{
			EntryID:     entryID,
			ActorUserID: actor.UserID,
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, entry)

	case "complete":
		var req completeRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		advance := true
		if req.Advance != nil {
			advance = *req.Advance
		}
		entry, err := h.store.CompleteStage(r.Context(), store.CompleteInput{
			EntryID:     entryID,
			Advance:     advance,
			ActorUserID: actor.UserID,
			OccurredAt:  time.Now().UTC(),
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, entry)

	case "flag":
		var req flagRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		req.FlagID = strings.TrimSpace(req.FlagID)
		if !isValidUUID(req.FlagID) {
			writeError(w, http.StatusBadRequest, "invalid_request", "flag_id must be a UUID")
			return
		}
		if err := h.store.AddEmergencyFlag(r.Context(), store.FlagInput{
			EntryID:     entryID,
			FlagID:      req.FlagID,
			ActorUserID: actor.UserID,
			NotedAt:     time.Now().UTC(),
		}); err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		entry, err := h.store.GetEntry(r.Context(), entryID)
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, entry)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleStages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		activeOnly := true
		if r.URL.Query().Get("include_inactive") == "true" {
			if _, ok := requireAdmin(w, r); !ok {
				return
			}
			activeOnly = false
		}
		stages, err := h.store.ListStages(r.Context(), activeOnly)
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, stages)

	case http.MethodPost:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var req createStageRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.DisplayName = strings.TrimSpace(req.DisplayName)
		if req.Name == "" || req.OrderNumber <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "name and a positive order_number are required")
			return
		}
		if req.DisplayName == "" {
			req.DisplayName = req.Name
		}
		stage, err := h.store.CreateStage(r.Context(), models.Stage{
			Name:        req.Name,
			DisplayName: req.DisplayName,
			OrderNumber: req.OrderNumber,
			IsActive:    true,
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusCreated, stage)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleStageActions(w http.ResponseWriter, r *http.Request) {
	stageID, ok := setActiveTarget(w, r, "/api/stages/")
	if !ok {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	active, ok := decodeSetActive(w, r)
	if !ok {
		return
	}
	if err := h.store.SetStageActive(r.Context(), stageID, active); err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

func (h *Handler) handleFlags(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := requireActor(w, r); !ok {
			return
		}
		activeOnly := r.URL.Query().Get("include_inactive") != "true"
		flags, err := h.store.ListFlags(r.Context(), activeOnly)
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, flags)

	case http.MethodPost:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var req createFlagRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
			return
		}
		flag, err := h.store.CreateFlag(r.Context(), models.EmergencyFlag{
			Name:        req.Name,
			Description: strings.TrimSpace(req.Description),
			IsActive:    true,
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusCreated, flag)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleFlagActions(w http.ResponseWriter, r *http.Request) {
	flagID, ok := setActiveTarget(w, r, "/api/flags/")
	if !ok {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	active, ok := decodeSetActive(w, r)
	if !ok {
		return
	}
	if err := h.store.SetFlagActive(r.Context(), flagID, active); err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

func (h *Handler) handleStaff(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		staff, err := h.store.ListStaff(r.Context())
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, staff)

	case http.MethodPost:
		var req createStaffRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		req.UserID = strings.TrimSpace(req.UserID)
		req.Role = strings.TrimSpace(req.Role)
		if req.UserID == "" {
			req.UserID = uuid.NewString()
		}
		if !isValidUUID(req.UserID) {
			writeError(w, http.StatusBadRequest, "invalid_request", "user_id must be a UUID")
			return
		}
		if !models.ValidRole(req.Role) {
			writeError(w, http.StatusBadRequest, "invalid_request", "role must be receptionist, doctor, billing, pharmacist, or admin")
			return
		}
		if len(req.Secret) < 8 {
			writeError(w, http.StatusBadRequest, "invalid_request", "secret must be at least 8 characters")
			return
		}
		staff, err := h.store.CreateStaff(r.Context(), store.CreateStaffInput{
			UserID:     req.UserID,
			Role:       req.Role,
			Department: strings.TrimSpace(req.Department),
			Secret:     req.Secret,
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusCreated, staff)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleStaffActions(w http.ResponseWriter, r *http.Request) {
	userID, ok := setActiveTarget(w, r, "/api/staff/")
	if !ok {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	active, ok := decodeSetActive(w, r)
	if !ok {
		return
	}
	if err := h.store.SetStaffActive(r.Context(), userID, active); err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

// setActiveTarget parses "<prefix>{id}/actions/set-active" and
// validates the method and id.
func setActiveTarget(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[1] != "actions" || parts[2] != "set-active" {
		w.WriteHeader(http.StatusNotFound)
		return "", false
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return "", false
	}
	if !isValidUUID(parts[0]) {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return "", false
	}
	return parts[0], true
}

func decodeSetActive(w http.ResponseWriter, r *http.Request) (bool, bool) {
	var req setActiveRequest
	if !decodeRequest(w, r, &req) {
		return false, false
	}
	if req.Active == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "active is required")
		return false, false
	}
	return *req.Active, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func isValidPhone(value string) bool {
	digits := value
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}
	if len(digits) < 8 || len(digits) > 16 {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrEntryNotFound):
		return http.StatusNotFound, "entry_not_found", "queue entry not found"
	case errors.Is(err, store.ErrStageNotFound):
		return http.StatusNotFound, "stage_not_found", "stage not found"
	case errors.Is(err, store.ErrFlagNotFound):
		return http.StatusNotFound, "flag_not_found", "emergency flag not found"
	case errors.Is(err, store.ErrPatientNotFound):
		return http.StatusNotFound, "patient_not_found", "patient not found"
	case errors.Is(err, store.ErrStaffNotFound):
		return http.StatusNotFound, "staff_not_found", "staff member not found"
	case errors.Is(err, store.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition", "entry state does not allow this action"
	case errors.Is(err, store.ErrNoStagesConfigured):
		return http.StatusConflict, "no_stages_configured", "no active stages are configured"
	case errors.Is(err, store.ErrDuplicateStage):
		return http.StatusConflict, "duplicate_stage", "a stage with this name or order already exists"
	case errors.Is(err, store.ErrAccessDenied):
		return http.StatusForbidden, "access_denied", "access denied"
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthorized", "invalid credentials"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
