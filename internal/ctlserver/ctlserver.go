// Package ctlserver is the line-oriented control-plane server: a TCP
// socket accepting "CMD:..." lines and a second TCP socket carrying
// raw decoded/encoded PCM, plus a websocket status mirror. Grounded on
// appserver.go session-table shape (one struct per
// connection, tracked in a slice) generalized from AX.25 connect-mode
// sessions to control-protocol clients, and on its pflag-driven
// command-line wiring carried up into cmd/msdmtd.
package ctlserver

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hfdsp/msdmt110a/internal/modem"
	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/hfdsp/msdmt110a/internal/pcmfile"
	"github.com/hfdsp/msdmt110a/internal/reclog"
)

// Config holds everything a Server needs at startup.
type Config struct {
	ControlAddr string // e.g. "127.0.0.1:8500"
	DataAddr    string // e.g. "127.0.0.1:8501"
	StatusAddr  string // websocket status endpoint, e.g. "127.0.0.1:8502"
	RecordDir   string // directory RECORD PREFIX captures are written under
	AuditLogPath string

	ModemOptions modem.Options

	// CapturePruneAge removes RECORD PREFIX capture files older than
	// this on the periodic cron sweep.
	CapturePruneAge time.Duration
}

// session is one connected control client, tracked the way
// appserver.go's session_s tracks one connected AX.25 station.
type session struct {
	conn       net.Conn
	mode       string
	recording  bool
	recordName string
}

// Server owns both TCP listeners, the websocket status mirror, the
// audit log, and the periodic capture-pruning cron.
type Server struct {
	cfg Config

	console *log.Logger
	audit   *zap.Logger
	csv     *reclog.CSVWriter

	cron *cron.Cron

	mu             sync.Mutex
	sessions       []*session
	txBuffer       []byte    // CMD:SENDBUFFER payload staged for the next transmit
	lastTXWaveform []float32 // most recently rendered TX waveform, streamed to data-plane clients

	upgrader websocket.Upgrader

	statusMu   sync.Mutex
	statusConn []*websocket.Conn
}

// New builds a Server from cfg. It does not start listening; call Run.
func New(cfg Config) (*Server, error) {
	console := log.NewWithOptions(os.Stderr, log.Options{Prefix: "msdmtd"})

	zapCfg := zap.NewProductionConfig()
	if cfg.AuditLogPath != "" {
		zapCfg.OutputPaths = []string{cfg.AuditLogPath}
	}
	auditCore, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("ctlserver: audit logger: %w", err)
	}

	var csvWriter *reclog.CSVWriter
	if cfg.RecordDir != "" {
		csvWriter, err = reclog.NewCSVWriter(cfg.RecordDir)
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		cfg:     cfg,
		console: console,
		audit:   auditCore,
		csv:     csvWriter,
		cron:    cron.New(),
	}

	if cfg.CapturePruneAge > 0 && cfg.RecordDir != "" {
		_, err := s.cron.AddFunc("@hourly", s.pruneOldCaptures)
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// pruneOldCaptures deletes RECORD PREFIX capture files older than
// cfg.CapturePruneAge from cfg.RecordDir.
func (s *Server) pruneOldCaptures() {
	entries, err := os.ReadDir(s.cfg.RecordDir)
	if err != nil {
		s.console.Error("prune: read record dir failed", "err", err)
		return
	}
	cutoff := time.Now().Add(-s.cfg.CapturePruneAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pcm") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := s.cfg.RecordDir + string(os.PathSeparator) + e.Name()
			if err := os.Remove(path); err == nil {
				s.console.Info("prune: removed stale capture", "file", e.Name())
			}
		}
	}
}

// Run starts the prune cron and the control, data, and status
// listeners, then blocks accepting control connections. It returns
// when the control listener fails to listen or to accept; it has no
// shutdown hook of its own (callers typically run this in its own
// goroutine).
func (s *Server) Run() error {
	s.cron.Start()

	ctlLn, err := net.Listen("tcp", s.cfg.ControlAddr)
	if err != nil {
		return fmt.Errorf("ctlserver: control listen: %w", err)
	}
	s.console.Info("control server listening", "addr", s.cfg.ControlAddr)

	if s.cfg.StatusAddr != "" {
		go s.runStatusServer()
	}
	if s.cfg.DataAddr != "" {
		go s.runDataServer()
	}

	for {
		conn, err := ctlLn.Accept()
		if err != nil {
			return err
		}
		sess := &session{conn: conn, mode: "M1200L"}
		s.mu.Lock()
		s.sessions = append(s.sessions, sess)
		s.mu.Unlock()
		go s.handleSession(sess)
	}
}

func (s *Server) handleSession(sess *session) {
	defer sess.conn.Close()
	fmt.Fprintln(sess.conn, "MODEM READY")

	scanner := bufio.NewScanner(sess.conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		resp := s.dispatch(sess, line)
		if resp != "" {
			fmt.Fprintln(sess.conn, resp)
		}
	}
}

// dispatch handles one command line, returning the response line to
// send back (empty means no line is sent, used by CMD:KILL TX which
// closes the connection instead).
func (s *Server) dispatch(sess *session, line string) string {
	s.audit.Info("command received", zap.String("line", line))

	switch {
	case strings.HasPrefix(line, "CMD:DATA RATE:"):
		name := strings.TrimPrefix(line, "CMD:DATA RATE:")
		mode, ok := modetable.ByName(name)
		if !ok {
			// The control protocol names rates without the "M" prefix
			// the mode table keys use internally (e.g. "2400S" rather
			// than "M2400S").
			mode, ok = modetable.ByName("M" + name)
		}
		if !ok {
			return "ERROR:UNKNOWN MODE"
		}
		sess.mode = mode.Name
		return "OK:DATA RATE:" + name

	case strings.HasPrefix(line, "CMD:RECORD TX:"):
		val := strings.TrimPrefix(line, "CMD:RECORD TX:")
		sess.recording = strings.EqualFold(val, "ON")
		return "OK:RECORD TX:" + val

	case strings.HasPrefix(line, "CMD:RECORD PREFIX:"):
		sess.recordName = strings.TrimPrefix(line, "CMD:RECORD PREFIX:")
		return "OK:RECORD PREFIX:" + sess.recordName

	case line == "CMD:SENDBUFFER":
		return s.handleSendBuffer(sess)

	case strings.HasPrefix(line, "CMD:RXAUDIOINJECT:"):
		path := strings.TrimPrefix(line, "CMD:RXAUDIOINJECT:")
		go s.handleRXAudioInject(sess, path)
		return ""

	case line == "CMD:KILL TX":
		sess.conn.Close()
		return ""

	default:
		return "ERROR:UNRECOGNIZED COMMAND"
	}
}

func (s *Server) handleSendBuffer(sess *session) string {
	s.mu.Lock()
	payload := s.txBuffer
	s.txBuffer = nil
	s.mu.Unlock()

	mode, ok := modetable.ByName(sess.mode)
	if !ok {
		return "ERROR:UNKNOWN MODE"
	}
	samples, ok := modem.Encode(mode.Name, payload, s.cfg.ModemOptions)
	if !ok {
		return "ERROR:ENCODE FAILED"
	}
	s.mu.Lock()
	s.lastTXWaveform = samples
	s.mu.Unlock()

	if sess.recording && sess.recordName != "" && s.cfg.RecordDir != "" {
		s.writeCapture(sess.recordName, samples)
	}
	s.broadcastStatus(fmt.Sprintf("STATUS:TX:%s:%d SAMPLES", mode.Name, len(samples)))
	return fmt.Sprintf("OK:SENDBUFFER:%d BYTES", len(payload))
}

// writeCapture saves a raw PCM capture under RecordDir, named by the
// session's RECORD PREFIX plus a timestamp, the way CMD:RECORD PREFIX
// names a file family rather than one fixed path.
func (s *Server) writeCapture(prefix string, samples []float32) {
	name := prefix + "_" + strconv.FormatInt(time.Now().UnixNano(), 10) + ".pcm"
	path := s.cfg.RecordDir + string(os.PathSeparator) + name
	f, err := os.Create(path)
	if err != nil {
		s.console.Error("capture write failed", "err", err)
		return
	}
	defer f.Close()
	if err := pcmfile.WriteRaw(f, samples); err != nil {
		s.console.Error("capture write failed", "err", err)
	}
}

// handleRXAudioInject streams a captured WAV file (or, when it has no
// WAV header, raw PCM) into the decode chain in 2000-symbol chunks. On
// the control connection it writes RXAUDIOINJECT:STARTED, one
// RXDATA:<payload> line per chunk that decodes, and a final
// RXAUDIOINJECT:COMPLETE, or ERROR:FILE NOT FOUND when the file cannot
// be read. The STATUS:RX:* lines go only to the websocket monitors.
func (s *Server) handleRXAudioInject(sess *session, path string) {
	samples, _, err := pcmfile.ReadWaveFile(path)
	if err != nil {
		raw, rerr := pcmfile.ReadRawFile(path)
		if rerr != nil {
			fmt.Fprintln(sess.conn, "ERROR:FILE NOT FOUND")
			return
		}
		samples = raw
	}

	fmt.Fprintln(sess.conn, "RXAUDIOINJECT:STARTED")
	s.broadcastStatus("STATUS:RX:NO DCD")

	const chunkSymbols = 2000
	chunk := chunkSymbols * s.cfg.ModemOptions.SamplesPerSymbol
	if chunk <= 0 {
		chunk = 8000
	}

	for start := 0; start < len(samples); start += chunk {
		end := min(start+chunk, len(samples))
		window := samples[start:end]
		res := modem.Decode(window, s.cfg.ModemOptions)
		if res.Sync.Found && res.Mode.OK {
			s.broadcastStatus("STATUS:RX:" + res.Mode.Mode.Name)
			fmt.Fprintln(sess.conn, "RXDATA:"+string(res.Payload))
			s.logDecode(res)
		}
		time.Sleep(time.Millisecond) // yield between chunks, mirrors streamed playback pacing
	}

	fmt.Fprintln(sess.conn, "RXAUDIOINJECT:COMPLETE")
}

func (s *Server) logDecode(res modem.DecodeResult) {
	if s.csv == nil {
		return
	}
	preview := res.Payload
	if len(preview) > 8 {
		preview = preview[:8]
	}
	_ = s.csv.Write(reclog.Entry{
		Time:        time.Now(),
		Mode:        res.Mode.Mode.Name,
		Accuracy:    res.Sync.Accuracy,
		Correlation: res.Mode.Margin,
		ByteLength:  len(res.Payload),
		FirstBytes:  fmt.Sprintf("%x", preview),
	})
}

// SetTXBuffer stages payload for the next CMD:SENDBUFFER call.
func (s *Server) SetTXBuffer(payload []byte) {
	s.mu.Lock()
	s.txBuffer = payload
	s.mu.Unlock()
}
