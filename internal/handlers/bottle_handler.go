package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/Dias221467/Hydration_Tracker/internal/services"
	"github.com/Dias221467/Hydration_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BottleHandler handles HTTP requests related to bottle presets.
type BottleHandler struct {
	Service *services.BottleService
	Ledger  *services.LedgerService
}

// NewBottleHandler creates a new instance of BottleHandler.
func NewBottleHandler(service *services.BottleService, ledger *services.LedgerService) *BottleHandler {
	return &BottleHandler{
		Service: service,
		Ledger:  ledger,
	}
}

// CreateBottleHandler handles the creation of a new bottle preset.
func (h *BottleHandler) CreateBottleHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized access attempt during bottle creation")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var bottle models.Bottle
	if err := json.NewDecoder(r.Body).Decode(&bottle); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during bottle creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}
	bottle.UserID = userID

	created, err := h.Service.CreateBottle(r.Context(), &bottle)
	if err != nil {
		logrus.WithError(err).Warn("Failed to create bottle")
		writeServiceError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID":   claims.UserID,
		"bottleID": created.ID.Hex(),
	}).Info("Bottle successfully created")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

// ListBottlesHandler returns the caller's catalog, ranked for quick-add.
func (h *BottleHandler) ListBottlesHandler(w http.ResponseWriter, r *http.Request) {
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

	bottles, err := h.Service.ListBottles(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bottles)
}

// GetBottleHandler fetches a single bottle by its ID.
func (h *BottleHandler) GetBottleHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bottleID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid bottle ID", http.StatusBadRequest)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	bottle, err := h.Service.GetBottle(r.Context(), userID, bottleID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bottle)
}

// UpdateBottleHandler applies a partial update to a bottle.
func (h *BottleHandler) UpdateBottleHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bottleID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid bottle ID", http.StatusBadRequest)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	var update services.BottleUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	bottle, err := h.Service.UpdateBottle(r.Context(), userID, bottleID, update)
	if err != nil {
		logrus.WithError(err).Warn("Failed to update bottle")
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bottle)
}

// DeleteBottleHandler removes a bottle preset. Deleting a missing bottle
// succeeds silently.
func (h *BottleHandler) DeleteBottleHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bottleID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid bottle ID", http.StatusBadRequest)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	if err := h.Service.DeleteBottle(r.Context(), userID, bottleID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}

// PourBottleHandler logs one pour of the bottle's volume as a bottle-sourced
// intake. The use counter increments exactly once per successful pour.
func (h *BottleHandler) PourBottleHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bottleID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid bottle ID", http.StatusBadRequest)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	bottle, err := h.Service.GetBottle(r.Context(), userID, bottleID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	newTotal, changed, err := h.Ledger.ApplyDelta(r.Context(), userID, bottle.AmountML, models.SourceBottle, &bottleID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to pour bottle")
		writeServiceError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID":   claims.UserID,
		"bottleID": bottleID.Hex(),
		"total_ml": newTotal,
	}).Info("Bottle pour logged")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_ml": newTotal,
		"changed":  changed,
	})
}
