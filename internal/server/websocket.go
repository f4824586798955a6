package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"telestrations/internal/game"
)

const wsWriteTimeout = 5 * time.Second

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// lobbyHub fans lobby events out to every websocket subscribed to the lobby.
// It is the engine's game.Notifier.
type lobbyHub struct {
	mu     sync.Mutex
	groups map[string]map[*wsClient]struct{}
}

func newLobbyHub() *lobbyHub {
	return &lobbyHub{
		groups: make(map[string]map[*wsClient]struct{}),
	}
}

func (h *lobbyHub) Add(lobbyID string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[lobbyID]
	if group == nil {
		group = make(map[*wsClient]struct{})
		h.groups[lobbyID] = group
	}
	group[client] = struct{}{}
}

func (h *lobbyHub) Remove(lobbyID string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[lobbyID]
	if group == nil {
		return
	}
	if _, ok := group[client]; !ok {
		return
	}
	delete(group, client)
	_ = client.conn.Close()
	if len(group) == 0 {
		delete(h.groups, lobbyID)
	}
}

func (h *lobbyHub) Subscribers(lobbyID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.groups[lobbyID])
}

func (h *lobbyHub) Send(client *wsClient, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = client.write(data)
}

func (h *lobbyHub) Broadcast(lobbyID string, payload any) {
	h.mu.Lock()
	group := h.groups[lobbyID]
	clients := make([]*wsClient, 0, len(group))
	for client := range group {
		clients = append(clients, client)
	}
	h.mu.Unlock()
	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("lobby_id", lobbyID).Msg("ws payload encode failed")
		return
	}
	for _, client := range clients {
		if err := client.write(data); err != nil {
			h.Remove(lobbyID, client)
		}
	}
}

func (h *lobbyHub) Notify(lobbyID, event string, payload any) {
	h.Broadcast(lobbyID, wsMessage{Event: event, Payload: payload})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebsocket(c *gin.Context) {
	var uri lobbyURI
	if !bindURI(c, &uri) {
		return
	}
	lobby, err := s.engine.GetLobby(c.Request.Context(), uri.LobbyID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{conn: conn}
	log.Info().Str("lobby_id", lobby.ID).Str("remote", c.Request.RemoteAddr).Msg("ws connected")
	s.hub.Add(lobby.ID, client)
	s.hub.Send(client, wsMessage{Event: game.EventUpdateLobby, Payload: lobby})
	go s.readWS(lobby.ID, client)
}

// readWS relays the lobby-level requests clients may send and drops the
// subscription when the socket closes.
func (s *Server) readWS(lobbyID string, client *wsClient) {
	defer s.hub.Remove(lobbyID, client)
	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("lobby_id", lobbyID).Msg("ws disconnected")
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Event {
		case game.EventStarting:
			s.hub.Notify(lobbyID, game.EventStarting, nil)
		case game.EventUpdateLobby:
			s.broadcastLobby(lobbyID)
		}
	}
}

func (s *Server) broadcastLobby(lobbyID string) {
	lobby, err := s.engine.GetLobby(context.Background(), lobbyID)
	if err != nil {
		log.Warn().Err(err).Str("lobby_id", lobbyID).Msg("lobby broadcast skipped")
		return
	}
	s.hub.Notify(lobbyID, game.EventUpdateLobby, lobby)
}
