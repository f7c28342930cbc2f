package ws

import (
	"go.uber.org/zap"
)

type roomMessage struct {
	room    string
	payload []byte
}

// Hub maintains the set of active clients and delivers notification
// payloads to the clients subscribed to a room. Delivery is at-most-once:
// a room with no connected client drops the message.
type Hub struct {
	clients map[*Client]bool

	// room name -> members
	rooms map[string]map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	deliver chan roomMessage

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		deliver:    make(chan roomMessage, 256),
		logger:     logger,
	}
}

// Run owns all hub state; it must be started once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			for _, room := range client.Rooms {
				if h.rooms[room] == nil {
					h.rooms[room] = make(map[*Client]bool)
				}
				h.rooms[room][client] = true
			}
			h.logger.Debug("Websocket client connected",
				zap.String("user_id", client.UserID),
				zap.Strings("rooms", client.Rooms),
			)
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case msg := <-h.deliver:
			for client := range h.rooms[msg.room] {
				select {
				case client.Send <- msg.payload:
				default:
					// Slow consumer; disconnect rather than block fan-out.
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	for _, room := range client.Rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	close(client.Send)
	h.logger.Debug("Websocket client disconnected", zap.String("user_id", client.UserID))
}

// Deliver hands a payload to every client in the room. It never blocks the
// caller: if the hub's queue is full the message is dropped.
func (h *Hub) Deliver(room string, payload []byte) {
	select {
	case h.deliver <- roomMessage{room: room, payload: payload}:
	default:
		h.logger.Warn("Notification dropped, hub delivery queue full", zap.String("room", room))
	}
}
