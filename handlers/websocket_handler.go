package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/matchday-dev/cup-manager/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeScores subscribes the caller to the live scores room. Subscribers only
// receive; all mutations go through the REST API.
func (h *WebSocketHandler) ServeScores(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Printf("failed to upgrade scores connection: %v", err)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.ScoresRoom,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
