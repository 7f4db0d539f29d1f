package handlers

import (
	"net/http"
	"sync"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	jwtutil "github.com/Dias221467/Hydration_Tracker/pkg/jwt"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// One user can have several open sessions (phone + browser); each committed
// aggregate change is pushed to all of them.
var (
	liveClients   = make(map[string][]*websocket.Conn)
	liveClientsMu sync.Mutex
)

// WaterSocketHandler upgrades an authenticated connection and keeps it
// registered until the client goes away. The socket is one-way: the client
// only listens for aggregate updates and re-renders.
type WaterSocketHandler struct {
	JWTSecret string
}

func NewWaterSocketHandler(jwtSecret string) *WaterSocketHandler {
	return &WaterSocketHandler{JWTSecret: jwtSecret}
}

func (h *WaterSocketHandler) LiveUpdatesHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	liveClientsMu.Lock()
	liveClients[userID] = append(liveClients[userID], conn)
	liveClientsMu.Unlock()
	logrus.WithField("userID", userID).Info("Live updates socket connected")

	defer func() {
		liveClientsMu.Lock()
		conns := liveClients[userID]
		for i, c := range conns {
			if c == conn {
				liveClients[userID] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(liveClients[userID]) == 0 {
			delete(liveClients, userID)
		}
		liveClientsMu.Unlock()
		conn.Close()
		logrus.WithField("userID", userID).Info("Live updates socket disconnected")
	}()

	// Drain control frames until the client disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// PushAggregateUpdate fans the committed total out to every open session of
// the user. Wired into the ledger as its publish hook.
func PushAggregateUpdate(userID string, agg models.DailyAggregate) {
	liveClientsMu.Lock()
	defer liveClientsMu.Unlock()

	for _, conn := range liveClients[userID] {
		err := conn.WriteJSON(map[string]interface{}{
			"type":     "aggregate_updated",
			"date_key": agg.DateKey,
			"total_ml": agg.TotalML,
			"source":   agg.LastSource,
		})
		if err != nil {
			logrus.WithError(err).WithField("userID", userID).Warn("Failed to push aggregate update")
		}
	}
}
