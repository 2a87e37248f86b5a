package player

import (
	"context"
	"time"

	"github.com/subcast/subcast/internal/track"
)

// Sink receives caption transitions. active is false when no cue
// covers the position, in which case cue is the zero value.
type Sink func(cue track.Cue, active bool)

// Pump drives a caption sink from the player clock. The sink is only
// invoked when the resolved text changes, so consumers never see
// redundant updates for the same cue.
type Pump struct {
	player *Player
	sink   Sink
	last   string
}

// NewPump wires a sink to the player. The sink starts from the empty
// caption, matching an initially blank display.
func NewPump(p *Player, sink Sink) *Pump {
	return &Pump{player: p, sink: sink}
}

// Step resolves the cue at the current position and forwards it to
// the sink if its text differs from the previous delivery.
func (pu *Pump) Step() {
	cue, active := pu.player.ActiveCue()

	text := ""
	if active {
		text = cue.Text
	}
	if text == pu.last {
		return
	}
	pu.last = text
	pu.sink(cue, active)
}

// Run steps on a ticker until ctx is cancelled. An interval of zero
// or less defaults to 100ms.
func (pu *Pump) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pu.Step()
		}
	}
}
