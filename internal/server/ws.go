package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket streams live-reload events to a connected preview page.
// The client never sends anything meaningful; the read loop only detects
// the connection closing.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	events := make(chan string, 8)
	s.clientsMu.Lock()
	s.clients[events] = true
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, events)
		s.clientsMu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("server: websocket read: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event := <-events:
			if err := conn.WriteMessage(websocket.TextMessage, []byte(event)); err != nil {
				log.Printf("server: websocket write: %v", err)
				return
			}
		}
	}
}

// broadcast queues an event for every connected client. Slow clients drop
// events rather than block the sender.
func (s *Server) broadcast(event string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for events := range s.clients {
		select {
		case events <- event:
		default:
		}
	}
}
