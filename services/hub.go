package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Hub fans live game updates out to websocket clients. Each client watches
// exactly one game; board and roster changes reach every client of that game.
type Hub struct {
	clients     map[*Client]bool
	broadcast   chan []byte
	register    chan *Client
	unregister  chan *Client
	mutex       sync.RWMutex
	gameService *GameService
}

type Client struct {
	hub        *Hub
	id         string
	socket     *websocket.Conn
	send       chan []byte
	gameID     uint
	playerID   uint
	playerName string
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub(gameService *GameService) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		broadcast:   make(chan []byte),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		gameService: gameService,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client registered: %s for game %d (player %d: %s) - Total clients: %d", client.id, client.gameID, client.playerID, client.playerName, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client unregistered: %s for game %d (player %d: %s) - Total clients: %d", client.id, client.gameID, client.playerID, client.playerName, len(h.clients))
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) BroadcastToGame(gameID uint, messageType string, payload interface{}) {
	message := Message{
		Type:    messageType,
		Payload: payload,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	for client := range h.clients {
		if client.gameID == gameID {
			select {
			case client.send <- data:
			default:
				close(client.send)
				delete(h.clients, client)
			}
		}
	}
	h.mutex.Unlock()
}

// BroadcastScoreboard pushes a freshly computed board to every client
// watching the game.
func (h *Hub) BroadcastScoreboard(gameID uint, scoreboard *Scoreboard) {
	h.BroadcastToGame(gameID, "scoreboard_update", map[string]interface{}{
		"scoreboard": scoreboard,
	})
}

// SendScoreboardSync answers a single client's state request with the current
// board.
func (h *Hub) SendScoreboardSync(client *Client) {
	if h.gameService == nil {
		return
	}

	scoreboard, err := h.gameService.GetScoreboard(client.gameID)
	if err != nil {
		log.Printf("Error getting scoreboard for client %s: %v", client.id, err)
		return
	}

	message := Message{
		Type: "scoreboard_sync",
		Payload: map[string]interface{}{
			"scoreboard": scoreboard,
		},
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling scoreboard sync message: %v", err)
		return
	}

	select {
	case client.send <- data:
	default:
		log.Printf("Client %s send buffer full, dropping scoreboard sync", client.id)
	}
}

func (h *Hub) GetConnectedPlayers(gameID uint) []uint {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var playerIDs []uint
	for client := range h.clients {
		if client.gameID == gameID {
			playerIDs = append(playerIDs, client.playerID)
		}
	}
	return playerIDs
}

func (h *Hub) IsPlayerConnected(gameID, playerID uint) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.gameID == gameID && client.playerID == playerID {
			return true
		}
	}
	return false
}

func (h *Hub) RegisterClient(conn *websocket.Conn, gameID, playerID uint, playerName string) *Client {
	client := &Client{
		hub:        h,
		id:         generateClientID(),
		socket:     conn,
		send:       make(chan []byte, 256),
		gameID:     gameID,
		playerID:   playerID,
		playerName: playerName,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer func() {
		c.socket.Close()
	}()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}

		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}

	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		response := Message{
			Type:    "pong",
			Payload: "pong",
		}
		data, _ := json.Marshal(response)
		c.send <- data

	case "request_scoreboard":
		log.Printf("Player %d (%s) requesting scoreboard for game %d via WebSocket", c.playerID, c.playerName, c.gameID)
		c.hub.SendScoreboardSync(c)

	default:
		log.Printf("Unknown message type: %s from player %d (%s) in game %d", msg.Type, c.playerID, c.playerName, c.gameID)
	}
}

var clientCounter uint64

func generateClientID() string {
	return fmt.Sprintf("client_%d", atomic.AddUint64(&clientCounter, 1))
}
