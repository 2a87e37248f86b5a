package player

import (
	"context"
	"sync"
	"time"

	"github.com/subcast/subcast/internal/loader"
	"github.com/subcast/subcast/internal/logging"
	"github.com/subcast/subcast/internal/track"
)

// State is the playback lifecycle position.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Fetcher supplies raw subtitle text for a source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
}

// Status is a point-in-time snapshot of the player.
type Status struct {
	State    State
	Position time.Duration
	Duration time.Duration
	Offset   time.Duration
	Volume   float64
	Muted    bool
	Source   string
	CueCount int
	LoadErr  error
}

// Player models playback against a wall clock and holds the active
// subtitle track. The track is an immutable snapshot: loading a new
// source swaps the whole pointer, and a load that was superseded by a
// newer one is dropped instead of installed. All methods are safe for
// concurrent use.
type Player struct {
	fetch   Fetcher
	log     *logging.Logger
	session loader.Session

	mu        sync.Mutex
	state     State
	track     *track.Track
	source    string
	loadErr   error
	duration  time.Duration
	fixedDur  bool
	anchor    time.Duration
	resumedAt time.Time
	offset    time.Duration
	volume    float64
	muted     bool

	now func() time.Time
}

func New(fetch Fetcher, log *logging.Logger) *Player {
	if log == nil {
		log = logging.NewNop()
	}
	return &Player{
		fetch:  fetch,
		log:    log,
		state:  StateIdle,
		volume: 1.0,
		now:    time.Now,
	}
}

// Load fetches source and installs the parsed track, replacing the
// current one. The load generation is claimed before the fetch
// starts, so when loads overlap only the newest installs its result.
// A fetch failure logs a warning and installs an empty track; the
// player keeps running with no captions rather than failing.
//
// Load blocks until the fetch finishes. Run it in a goroutine when
// that is unacceptable; supersession makes overlapping calls safe.
func (p *Player) Load(ctx context.Context, source string) {
	gen := p.session.Begin()

	p.mu.Lock()
	if p.state == StateIdle {
		p.state = StateLoading
	}
	p.mu.Unlock()

	raw, err := p.fetch.Fetch(ctx, source)

	var tr *track.Track
	if err != nil {
		p.log.Warnw("Failed to load subtitles",
			"source", source,
			"error", err,
		)
		tr = track.New(nil)
	} else {
		tr = track.Parse(raw)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.session.Current(gen) {
		p.log.Debugw("Dropping superseded subtitle load", "source", source)
		return
	}

	p.track = tr
	p.source = source
	p.loadErr = err
	if !p.fixedDur {
		p.duration = tr.Duration()
	}
	if p.state == StateLoading {
		p.state = StateReady
	}

	p.log.Debugw("Installed subtitle track",
		"source", source,
		"cues", tr.Len(),
	)
}

// SetDuration pins the media duration, overriding the track-derived
// fallback. Zero unpins it.
func (p *Player) SetDuration(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d <= 0 {
		p.fixedDur = false
		if p.track != nil {
			p.duration = p.track.Duration()
		}
		return
	}
	p.fixedDur = true
	p.duration = d
}

// Play starts or resumes playback. Before the first load finishes it
// does nothing.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateReady && p.state != StatePaused {
		return
	}
	p.resumedAt = p.now()
	p.state = StatePlaying
}

// Pause freezes the position. Only meaningful while playing.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePlaying {
		return
	}
	p.anchor = p.positionLocked()
	p.state = StatePaused
}

// Toggle flips between playing and paused.
func (p *Player) Toggle() {
	p.mu.Lock()
	playing := p.state == StatePlaying
	p.mu.Unlock()

	if playing {
		p.Pause()
	} else {
		p.Play()
	}
}

// Seek jumps to pos, clamped to the valid range. Ignored until the
// first load finishes.
func (p *Player) Seek(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekLocked(pos)
}

// SeekBy jumps relative to the current position.
func (p *Player) SeekBy(delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekLocked(p.positionLocked() + delta)
}

func (p *Player) seekLocked(pos time.Duration) {
	if p.state == StateIdle || p.state == StateLoading {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	p.anchor = pos
	p.resumedAt = p.now()
}

// Position returns the current playback position. Running past the
// end of known media pauses the player at the boundary.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	if p.state != StatePlaying {
		return p.anchor
	}
	pos := p.anchor + p.now().Sub(p.resumedAt)
	if p.duration > 0 && pos >= p.duration {
		p.anchor = p.duration
		p.state = StatePaused
		return p.duration
	}
	return pos
}

// SetOffset shifts caption lookup against the clock. A positive
// offset delays captions; a negative one shows them early. Positions
// that shift below zero resolve to no cue.
func (p *Player) SetOffset(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = d
}

func (p *Player) Offset() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset
}

// ActiveCue returns the cue covering the current position, offset
// applied.
func (p *Player) ActiveCue() (track.Cue, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track.CueAt(p.positionLocked() - p.offset)
}

// ActiveText returns the caption text for the current position, or
// "" when no cue covers it.
func (p *Player) ActiveText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track.ActiveText(p.positionLocked() - p.offset)
}

// Track returns the active track snapshot, which may be nil before
// the first load.
func (p *Player) Track() *track.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetVolume sets the volume, clamped to [0,1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
}

func (p *Player) ToggleMute() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
}

// Status snapshots the whole player under one lock acquisition.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		State:    p.state,
		Position: p.positionLocked(),
		Duration: p.duration,
		Offset:   p.offset,
		Volume:   p.volume,
		Muted:    p.muted,
		Source:   p.source,
		CueCount: p.track.Len(),
		LoadErr:  p.loadErr,
	}
}
