package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/yerlan-k/league-system/live"
	"github.com/yerlan-k/league-system/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin once the frontend domain is fixed.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub               *live.Hub
	tournamentService services.TournamentService
	logger            *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, tournamentService services.TournamentService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: tournamentService,
		logger:            logger,
	}
}

// ServeWs subscribes the client to live events for one tournament.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.tournamentService.GetByID(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("websocket upgrade failed",
			slog.Int("tournament_id", tournamentID),
			slog.String("error", err.Error()),
		)
		return
	}

	roomID := "tournament_" + strconv.Itoa(tournamentID)
	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("websocket client connected", slog.String("room", roomID))
}
