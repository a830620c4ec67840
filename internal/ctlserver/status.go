package ctlserver

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// runStatusServer serves the /ws/status endpoint, upgrading each
// connection and holding it open in statusConn until the client
// disconnects. The STATUS:* lines the server produces are broadcast
// here for monitoring tools; they are not written to the control
// connections.
func (s *Server) runStatusServer() {
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/status", s.handleStatusWS)

	s.console.Info("status websocket listening", "addr", s.cfg.StatusAddr)
	if err := http.ListenAndServe(s.cfg.StatusAddr, mux); err != nil {
		s.console.Error("status server stopped", "err", err)
	}
}

func (s *Server) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.console.Error("status websocket upgrade failed", "err", err)
		return
	}

	s.statusMu.Lock()
	s.statusConn = append(s.statusConn, conn)
	s.statusMu.Unlock()

	// Block reading so we notice when the client goes away; status
	// clients aren't expected to send anything.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.statusMu.Lock()
	for i, c := range s.statusConn {
		if c == conn {
			s.statusConn = append(s.statusConn[:i], s.statusConn[i+1:]...)
			break
		}
	}
	s.statusMu.Unlock()
	conn.Close()
}

// broadcastStatus mirrors one STATUS:* line to every connected
// websocket monitor.
func (s *Server) broadcastStatus(line string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	for _, c := range s.statusConn {
		_ = c.WriteMessage(websocket.TextMessage, []byte(line))
	}
}
