// Package stats collects per-frame observations of a running
// simulation into summary metrics for run metadata and the live
// preview sidebar.
package stats

import "github.com/LaboratoryZero/matrixrain/internal/rain"

// Metric accumulates one summary value over repeated observations.
type Metric interface {
	Name() string
	Observe(sim *rain.Simulator)
	Value() float64
	Reset()
}

// ActiveColumns tracks the mean number of on-screen columns.
type ActiveColumns struct {
	name    string
	sum     float64
	samples int
	last    float64
}

func NewActiveColumns() *ActiveColumns {
	return &ActiveColumns{name: "active_columns"}
}

func (a *ActiveColumns) Name() string { return a.name }

func (a *ActiveColumns) Observe(sim *rain.Simulator) {
	rows := sim.Rows()
	count := 0
	for _, col := range sim.Columns() {
		if col.Visible(rows) {
			count++
		}
	}
	a.last = float64(count)
	a.sum += a.last
	a.samples++
}

func (a *ActiveColumns) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

// Last returns the most recent observation, used for live plots.
func (a *ActiveColumns) Last() float64 { return a.last }

func (a *ActiveColumns) Reset() {
	a.sum = 0
	a.samples = 0
	a.last = 0
}

// MeanSpeed tracks the mean column fall speed in rows per second.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(sim *rain.Simulator) {
	cols := sim.Columns()
	if len(cols) == 0 {
		return
	}
	total := 0.0
	for _, col := range cols {
		total += col.Speed
	}
	m.sum += total / float64(len(cols))
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// DrainedFraction reports what share of columns was off screen at the
// last observation. Reaches 1.0 once a completion phase has drained
// the screen.
type DrainedFraction struct {
	name string
	last float64
}

func NewDrainedFraction() *DrainedFraction {
	return &DrainedFraction{name: "drained_fraction"}
}

func (d *DrainedFraction) Name() string { return d.name }

func (d *DrainedFraction) Observe(sim *rain.Simulator) {
	cols := sim.Columns()
	if len(cols) == 0 {
		d.last = 0
		return
	}
	rows := sim.Rows()
	drained := 0
	for _, col := range cols {
		if !col.Visible(rows) && col.HeadRow >= rows {
			drained++
		}
	}
	d.last = float64(drained) / float64(len(cols))
}

func (d *DrainedFraction) Value() float64 { return d.last }

func (d *DrainedFraction) Reset() { d.last = 0 }

// Collector runs a set of metrics together.
type Collector struct {
	metrics []Metric
}

func NewCollector(metrics ...Metric) *Collector {
	if len(metrics) == 0 {
		metrics = []Metric{NewActiveColumns(), NewMeanSpeed(), NewDrainedFraction()}
	}
	return &Collector{metrics: metrics}
}

func (c *Collector) Observe(sim *rain.Simulator) {
	for _, m := range c.metrics {
		m.Observe(sim)
	}
}

func (c *Collector) Values() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (c *Collector) Reset() {
	for _, m := range c.metrics {
		m.Reset()
	}
}
