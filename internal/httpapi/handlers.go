package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/tactile-board-backend/internal/hub"
	"github.com/DoyleJ11/tactile-board-backend/internal/types"
	wire "github.com/DoyleJ11/tactile-board-backend/pkg/types"
)

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 6
	maxAttempts = 16
)

func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}

type roomCode struct {
	Code string `json:"code"`
}

type roomList struct {
	Rooms []string `json:"rooms"`
}

type roomInfo struct {
	Code             string         `json:"code"`
	Occupancy        int            `json:"occupancy"`
	Version          int            `json:"version"`
	Inventory        wire.Inventory `json:"inventory"`
	InventoryEnabled bool           `json:"inventoryEnabled"`
}

// CreateRoom reserves a fresh random code. Clients may also join any code
// they make up; this is only a convenience for sharing links.
func CreateRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < maxAttempts; i++ {
			code, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			if h.Get(code) != nil {
				log.Debug("collision on code, regenerating", zap.String("code", code))
				continue
			}
			if h.Ensure(code) == nil {
				http.Error(w, "failed to create room", http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, http.StatusCreated, roomCode{Code: code})
			return
		}
		http.Error(w, "failed to create room", http.StatusInternalServerError)
	}
}

func ListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes := h.List()
		if codes == nil {
			codes = []string{}
		}
		writeJSON(w, http.StatusOK, roomList{Rooms: codes})
	}
}

func GetRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := h.Get(chi.URLParam(r, "roomID"))
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		view, ok := rm.Snapshot(r.Context())
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, roomInfo{
			Code:             view.ID,
			Occupancy:        view.NumClients,
			Version:          view.Version,
			Inventory:        types.WireInventory(view.State.Inventory),
			InventoryEnabled: view.State.InventoryEnabled,
		})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
