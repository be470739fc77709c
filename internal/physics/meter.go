package physics

// ChargeState is the phase of the charge meter.
type ChargeState int

const (
	// ChargeIdle means the charge key is up and the fill is zero.
	ChargeIdle ChargeState = iota
	// ChargeCharging means the fill is rising.
	ChargeCharging
	// ChargeDischarging means the fill is falling after touching 1.
	ChargeDischarging
)

// String implements fmt.Stringer.
func (s ChargeState) String() string {
	switch s {
	case ChargeCharging:
		return "charging"
	case ChargeDischarging:
		return "discharging"
	default:
		return "idle"
	}
}

// Meter is a triangle-wave power gauge in [0, 1].
type Meter struct {
	Fill  float64
	State ChargeState
}

// Increasing reports whether the next hold raises the fill.
func (m Meter) Increasing() bool {
	return m.State != ChargeDischarging
}

// Hold advances the fill by rate*dt in the current direction. Hitting either
// end clamps and flips direction within the same call.
func (m *Meter) Hold(dt, rate float64) {
	if m.State == ChargeIdle {
		m.State = ChargeCharging
	}
	if m.State == ChargeCharging {
		m.Fill += dt * rate
	} else {
		m.Fill -= dt * rate
	}
	if m.Fill >= 1 {
		m.Fill = 1
		m.State = ChargeDischarging
	} else if m.Fill <= 0 {
		m.Fill = 0
		m.State = ChargeCharging
	}
}

// Release returns the current fill and resets the meter to idle.
func (m *Meter) Release() float64 {
	fill := m.Fill
	m.Fill = 0
	m.State = ChargeIdle
	return fill
}
