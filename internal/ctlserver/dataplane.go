package ctlserver

import (
	"net"

	"github.com/hfdsp/msdmt110a/internal/pcmfile"
)

// runDataServer accepts connections on the data-plane socket: each
// connected client is fed the most recently rendered TX waveform, kept
// separate from the line-oriented control socket so a radio-interface
// bridge can stream raw PCM without parsing control syntax.
func (s *Server) runDataServer() {
	ln, err := net.Listen("tcp", s.cfg.DataAddr)
	if err != nil {
		s.console.Error("data server listen failed", "err", err)
		return
	}
	s.console.Info("data server listening", "addr", s.cfg.DataAddr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go s.streamDataConn(conn)
	}
}

func (s *Server) streamDataConn(conn net.Conn) {
	defer conn.Close()

	s.mu.Lock()
	samples := s.lastTXWaveform
	s.mu.Unlock()
	if samples != nil {
		_ = pcmfile.WriteRaw(conn, samples)
	}
}
