package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"kbc-quiz-game/internal/app"
	"kbc-quiz-game/internal/domain"
	"kbc-quiz-game/internal/infra/sound"
)

type ladderRung struct {
	Number    int   `json:"number"`
	Amount    int64 `json:"amount"`
	SafeHaven bool  `json:"safeHaven"`
}

// NewRouter mounts the REST endpoints and the websocket entry point.
func NewRouter(service *app.GameService, sounds *sound.Catalog, ws *WSHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ladder", func(w http.ResponseWriter, _ *http.Request) {
		ladder := service.Ladder()
		rungs := make([]ladderRung, ladder.Len())
		for i := range rungs {
			rungs[i] = ladderRung{Number: i + 1, Amount: ladder.Amount(i), SafeHaven: ladder.IsSafeHaven(i)}
		}
		writeJSON(w, http.StatusOK, rungs)
	}).Methods(http.MethodGet)

	api.HandleFunc("/sounds", func(w http.ResponseWriter, _ *http.Request) {
		urls := make(map[domain.Cue]string)
		for _, cue := range sounds.Cues() {
			urls[cue] = sounds.URL(cue)
		}
		writeJSON(w, http.StatusOK, urls)
	}).Methods(http.MethodGet)

	api.HandleFunc("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := service.Session(mux.Vars(r)["id"])
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, errorPayload{Message: domain.PlayerMessage(err)})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorPayload{Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, ctrl.Snapshot())
	}).Methods(http.MethodGet)

	r.HandleFunc("/ws", ws.ServeWS)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
