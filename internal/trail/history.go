// Package trail keeps an age-stamped record of recent ball positions.
package trail

import "github.com/verte-zerg/flagball/internal/model"

// Sample is a recorded position and how long ago it was recorded.
type Sample struct {
	Pos model.Vec2
	Age float64
}

// History stores samples oldest-first. At most one sample older than the
// lifetime is kept so lookups at the lifetime boundary can interpolate.
type History struct {
	lifetime float64
	samples  []Sample
}

// New returns a history seeded at pos.
func New(lifetime float64, pos model.Vec2) *History {
	h := &History{lifetime: lifetime}
	h.Reset(pos)
	return h
}

// Lifetime returns the configured trail length in seconds.
func (h *History) Lifetime() float64 {
	return h.lifetime
}

// Reset makes the history look as if the ball had always been at pos.
func (h *History) Reset(pos model.Vec2) {
	h.samples = append(h.samples[:0],
		Sample{Pos: pos, Age: h.lifetime},
		Sample{Pos: pos, Age: 0},
	)
}

// Tick ages the stored samples by dt, appends pos at age zero and then
// trims, so the newest sample is always within the lifetime.
func (h *History) Tick(dt float64, pos model.Vec2) {
	h.Age(dt)
	h.Record(pos)
	h.Trim()
}

// Age adds dt to every stored sample.
func (h *History) Age(dt float64) {
	for i := range h.samples {
		h.samples[i].Age += dt
	}
}

// Record appends a fresh sample.
func (h *History) Record(pos model.Vec2) {
	h.samples = append(h.samples, Sample{Pos: pos})
}

// Trim drops the oldest sample while the one after it is already past the
// lifetime.
func (h *History) Trim() {
	drop := 0
	for len(h.samples)-drop >= 2 && h.samples[drop+1].Age > h.lifetime {
		drop++
	}
	if drop > 0 {
		h.samples = append(h.samples[:0], h.samples[drop:]...)
	}
}

// Len returns the number of stored samples.
func (h *History) Len() int {
	return len(h.samples)
}

// Samples returns a copy of the stored samples, oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Lookup interpolates the position the ball had age seconds ago. It also
// returns the age of the newer bracketing sample. ok is false when no
// adjacent pair brackets age.
func (h *History) Lookup(age float64) (pos model.Vec2, sampleAge float64, ok bool) {
	for i := 1; i < len(h.samples); i++ {
		a := h.samples[i-1]
		b := h.samples[i]
		if b.Age > age {
			continue
		}
		if a.Age < age {
			return model.Vec2{}, 0, false
		}
		if a.Age == b.Age {
			return b.Pos, b.Age, true
		}
		t := (age - a.Age) / (b.Age - a.Age)
		return a.Pos.Lerp(b.Pos, t), b.Age, true
	}
	return model.Vec2{}, 0, false
}
