package overlay

import (
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/subcast/subcast/internal/logging"
	"github.com/subcast/subcast/internal/track"
)

//go:embed static/index.html
var overlayPage []byte

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // overlay pages load from OBS and file:// origins
	},
}

// Event is a message pushed to connected overlay pages. Cue events
// carry the cue bounds in seconds so pages can animate or log them.
type Event struct {
	Type     string   `json:"type"`
	Index    int      `json:"index,omitempty"`
	Text     string   `json:"text,omitempty"`
	Lines    []string `json:"lines,omitempty"`
	Start    float64  `json:"start,omitempty"`
	End      float64  `json:"end,omitempty"`
	State    string   `json:"state,omitempty"`
	Position string   `json:"position,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Volume   int      `json:"volume,omitempty"`
	Muted    bool     `json:"muted,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// PlaybackStatus mirrors the player's transport line for overlay
// pages. Volume is the 0..1 scale the player holds.
type PlaybackStatus struct {
	State    string
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Source   string
}

// Server pushes caption updates to browser overlay pages over a
// websocket and serves the loaded track as WebVTT. A page connecting
// mid-playback is caught up with the latest status and caption before
// live events reach it.
type Server struct {
	log *logging.Logger

	mu         sync.RWMutex // guards clients, trackFn and replay state
	writeMu    sync.Mutex   // gorilla/websocket isn't concurrent-write safe
	clients    map[*websocket.Conn]string
	trackFn    func() *track.Track
	lastCue    Event
	lastStatus Event
}

// New creates an overlay server. A nil logger disables logging.
func New(log *logging.Logger) *Server {
	if log == nil {
		log = logging.NewNop()
	}
	return &Server{
		log:     log,
		clients: make(map[*websocket.Conn]string),
	}
}

// Handler returns the overlay routes: the embedded page at /, the
// event websocket at /ws and the loaded track at /track.vtt.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/track.vtt", s.handleTrack)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

// ListenAndServe serves the overlay on addr until the process exits.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Infow("Overlay server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// SetTrackSource registers the provider behind /track.vtt. The
// player's Track method fits directly, so the endpoint stays current
// across live reloads.
func (s *Server) SetTrackSource(fn func() *track.Track) {
	s.mu.Lock()
	s.trackFn = fn
	s.mu.Unlock()
}

// ShowCue broadcasts a cue to every connected page. Callers are
// expected to dedupe; the caption pump already delivers transitions
// only.
func (s *Server) ShowCue(c track.Cue) {
	ev := Event{
		Type:  "cue",
		Index: c.Index,
		Text:  c.Text,
		Lines: track.SplitLines(c.Text),
		Start: c.Start.Seconds(),
		End:   c.End.Seconds(),
	}

	s.mu.Lock()
	s.lastCue = ev
	s.mu.Unlock()

	s.broadcast(ev)
}

// Clear blanks the caption on every connected page.
func (s *Server) Clear() {
	ev := Event{Type: "clear"}

	s.mu.Lock()
	s.lastCue = ev
	s.mu.Unlock()

	s.broadcast(ev)
}

// SetStatus broadcasts playback state so pages can show a pause badge
// or progress line.
func (s *Server) SetStatus(st PlaybackStatus) {
	ev := Event{
		Type:     "status",
		State:    st.State,
		Position: track.FormatTimestamp(st.Position),
		Duration: track.FormatTimestamp(st.Duration),
		Volume:   int(st.Volume*100 + 0.5),
		Muted:    st.Muted,
		Source:   st.Source,
	}

	s.mu.Lock()
	s.lastStatus = ev
	s.mu.Unlock()

	s.broadcast(ev)
}

// ClientCount returns the number of connected overlay pages.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(overlayPage)
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	fn := s.trackFn
	s.mu.RUnlock()

	var tr *track.Track
	if fn != nil {
		tr = fn()
	}

	w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
	if tr == nil {
		_, _ = io.WriteString(w, "WEBVTT\n\n")
		return
	}
	_, _ = io.WriteString(w, track.RenderVTT(tr))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("Overlay upgrade failed", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	s.addClient(conn)
	defer s.removeClient(conn)

	// catch the new page up before live events reach it
	s.mu.RLock()
	replay := make([]Event, 0, 2)
	if s.lastStatus.Type != "" {
		replay = append(replay, s.lastStatus)
	}
	if s.lastCue.Type != "" {
		replay = append(replay, s.lastCue)
	}
	s.mu.RUnlock()

	for _, ev := range replay {
		if err := s.send(conn, ev); err != nil {
			return
		}
	}

	// pages only ever send pings; anything else is ignored
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			if err := s.send(conn, Event{Type: "pong"}); err != nil {
				return
			}
		}
	}
}

func (s *Server) addClient(conn *websocket.Conn) {
	id := uuid.New().String()

	s.mu.Lock()
	s.clients[conn] = id
	total := len(s.clients)
	s.mu.Unlock()

	s.log.Infow("Overlay client connected", "client", id[:8], "total", total)
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	id, ok := s.clients[conn]
	delete(s.clients, conn)
	total := len(s.clients)
	s.mu.Unlock()

	if ok {
		s.log.Infow("Overlay client disconnected", "client", id[:8], "total", total)
	}
}

func (s *Server) broadcast(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for conn, id := range s.clients {
		if err := conn.WriteJSON(ev); err != nil {
			// the read loop notices the dead conn and unregisters it
			s.log.Debugw("Overlay write failed", "client", id[:8], "error", err)
		}
	}
}

func (s *Server) send(conn *websocket.Conn, ev Event) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(ev)
}
