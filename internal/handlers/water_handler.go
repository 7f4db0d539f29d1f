package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/Dias221467/Hydration_Tracker/internal/services"
	"github.com/Dias221467/Hydration_Tracker/internal/suggestions"
	"github.com/Dias221467/Hydration_Tracker/internal/units"
	"github.com/Dias221467/Hydration_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WaterHandler handles HTTP requests for the intake ledger and event log.
type WaterHandler struct {
	Ledger      *services.LedgerService
	Log         *services.WaterLogService
	UserService *services.UserService
}

// NewWaterHandler creates a new instance of WaterHandler.
func NewWaterHandler(ledger *services.LedgerService, logSvc *services.WaterLogService, userService *services.UserService) *WaterHandler {
	return &WaterHandler{
		Ledger:      ledger,
		Log:         logSvc,
		UserService: userService,
	}
}

type intakeRequest struct {
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit,omitempty"`
	Source   string  `json:"source"`
	BottleID string  `json:"bottle_id,omitempty"`
}

type intakeResponse struct {
	DateKey      string  `json:"date_key"`
	TotalML      int     `json:"total_ml"`
	TotalDisplay float64 `json:"total_display"`
	Unit         string  `json:"unit"`
	Changed      bool    `json:"changed"`
}

// writeServiceError maps the service error taxonomy onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrUnauthenticated):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrConflictRetryExhausted), errors.Is(err, services.ErrStoreUnavailable):
		http.Error(w, "Temporary failure, please retry", http.StatusServiceUnavailable)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// IntakeHandler applies a signed water delta for today. Amounts arrive in the
// caller's display unit and are stored as milliliters.
func (h *WaterHandler) IntakeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized intake attempt")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Invalid intake payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = user.Preferences.PreferredUnit
	}
	if unit != models.UnitML && unit != models.UnitOz {
		http.Error(w, "Unknown unit", http.StatusBadRequest)
		return
	}
	if req.Amount == 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		http.Error(w, "Amount must be a non-zero finite number", http.StatusBadRequest)
		return
	}

	var bottleID *primitive.ObjectID
	if req.BottleID != "" {
		id, err := primitive.ObjectIDFromHex(req.BottleID)
		if err != nil {
			http.Error(w, "Invalid bottle ID", http.StatusBadRequest)
			return
		}
		bottleID = &id
	}

	deltaML := units.ToMilliliters(req.Amount, unit)
	newTotal, changed, err := h.Ledger.ApplyDelta(r.Context(), userID, deltaML, req.Source, bottleID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to apply water delta")
		writeServiceError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID":   claims.UserID,
		"delta_ml": deltaML,
		"total_ml": newTotal,
		"changed":  changed,
	}).Info("Intake processed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(intakeResponse{
		DateKey:      units.DateKey(time.Now()),
		TotalML:      newTotal,
		TotalDisplay: units.ToDisplayUnit(newTotal, user.Preferences.PreferredUnit),
		Unit:         user.Preferences.PreferredUnit,
		Changed:      changed,
	})
}

type todayResponse struct {
	DateKey         string              `json:"date_key"`
	TotalML         int                 `json:"total_ml"`
	TotalDisplay    float64             `json:"total_display"`
	Unit            string              `json:"unit"`
	GoalML          int                 `json:"goal_ml"`
	ProgressPercent int                 `json:"progress_percent"`
	RemainingML     int                 `json:"remaining_ml"`
	RemainingOz     float64             `json:"remaining_oz"`
	Suggestions     []models.Suggestion `json:"suggestions"`
}

// TodayHandler returns the full dashboard view: total, progress, remaining
// and freshly computed suggestions.
func (h *WaterHandler) TodayHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	total, err := h.Ledger.TotalForToday(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	events, err := h.Log.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	goal := user.Preferences.DailyGoalML
	percent := services.ProgressPercent(total, goal)
	remainingML, remainingOz := services.Remaining(total, goal)

	hints := suggestions.Generate(suggestions.Input{
		Events:          events,
		TotalTodayML:    total,
		ProgressPercent: float64(percent),
		RemainingML:     remainingML,
		RemainingOz:     remainingOz,
		Unit:            user.Preferences.PreferredUnit,
		Now:             time.Now(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(todayResponse{
		DateKey:         units.DateKey(time.Now()),
		TotalML:         total,
		TotalDisplay:    units.ToDisplayUnit(total, user.Preferences.PreferredUnit),
		Unit:            user.Preferences.PreferredUnit,
		GoalML:          goal,
		ProgressPercent: percent,
		RemainingML:     remainingML,
		RemainingOz:     remainingOz,
		Suggestions:     hints,
	})
}

// ListEventsHandler returns the caller's event log, newest first.
func (h *WaterHandler) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	events, err := h.Log.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

// DeleteEventHandler removes one of the caller's events. Today's aggregate is
// reconciled automatically; a missing event succeeds silently.
func (h *WaterHandler) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	eventID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	if err := h.Log.Remove(r.Context(), userID, eventID); err != nil {
		logrus.WithError(err).Warn("Failed to delete water event")
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}

// SuggestionsHandler returns only the suggestion list, for surfaces that
// poll it independently of the dashboard.
func (h *WaterHandler) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	total, err := h.Ledger.TotalForToday(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	events, err := h.Log.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	goal := user.Preferences.DailyGoalML
	remainingML, remainingOz := services.Remaining(total, goal)

	hints := suggestions.Generate(suggestions.Input{
		Events:          events,
		TotalTodayML:    total,
		ProgressPercent: float64(services.ProgressPercent(total, goal)),
		RemainingML:     remainingML,
		RemainingOz:     remainingOz,
		Unit:            user.Preferences.PreferredUnit,
		Now:             time.Now(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hints)
}
