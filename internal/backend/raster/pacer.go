package raster

import "time"

// Pacer limits how often frames are presented on backends without vsync.
type Pacer struct {
	interval time.Duration
	last     time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewPacer creates a pacer for fps frames per second. A non-positive fps
// disables pacing.
func NewPacer(fps int) *Pacer {
	p := &Pacer{now: time.Now, sleep: time.Sleep}
	if fps > 0 {
		p.interval = time.Second / time.Duration(fps)
	}
	return p
}

// Interval returns the target time between frames.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks until at least one interval has passed since the previous Wait.
func (p *Pacer) Wait() {
	if p.interval == 0 {
		return
	}
	if !p.last.IsZero() {
		if d := p.last.Add(p.interval).Sub(p.now()); d > 0 {
			p.sleep(d)
		}
	}
	p.last = p.now()
}
