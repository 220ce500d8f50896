package build

import (
	"fmt"
	"sync"
	"time"
)

// Metrics counts builds run by a Builder.
type Metrics struct {
	TotalBuilds      int64
	SuccessfulBuilds int64
	FailedBuilds     int64
	// UnchangedBuilds counts successful builds whose output already matched.
	UnchangedBuilds int64
	AverageDuration time.Duration
	TotalDuration   time.Duration
	LastError       string
	mutex           sync.RWMutex
}

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordBuild records one build. res is nil for failed builds.
func (m *Metrics) RecordBuild(res *Result, err error, d time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalBuilds++
	m.TotalDuration += d

	if err != nil {
		m.FailedBuilds++
		m.LastError = err.Error()
	} else {
		m.SuccessfulBuilds++
		m.LastError = ""
		if res != nil && res.Unchanged {
			m.UnchangedBuilds++
		}
	}

	m.AverageDuration = m.TotalDuration / time.Duration(m.TotalBuilds)
}

// Stats is a point-in-time copy of the build counters.
type Stats struct {
	TotalBuilds      int64         `json:"totalBuilds"`
	SuccessfulBuilds int64         `json:"successfulBuilds"`
	FailedBuilds     int64         `json:"failedBuilds"`
	UnchangedBuilds  int64         `json:"unchangedBuilds"`
	AverageDuration  time.Duration `json:"averageDurationNs"`
	TotalDuration    time.Duration `json:"totalDurationNs"`
	LastError        string        `json:"lastError,omitempty"`
}

// String formats the counters as a one-line summary.
func (s Stats) String() string {
	line := fmt.Sprintf("%d builds (%d ok, %d failed, %d unchanged), average %s",
		s.TotalBuilds, s.SuccessfulBuilds, s.FailedBuilds, s.UnchangedBuilds,
		s.AverageDuration.Round(time.Millisecond))
	if s.LastError != "" {
		line += ", last error: " + s.LastError
	}
	return line
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return Stats{
		TotalBuilds:      m.TotalBuilds,
		SuccessfulBuilds: m.SuccessfulBuilds,
		FailedBuilds:     m.FailedBuilds,
		UnchangedBuilds:  m.UnchangedBuilds,
		AverageDuration:  m.AverageDuration,
		TotalDuration:    m.TotalDuration,
		LastError:        m.LastError,
	}
}

// SuccessRate returns the success rate as a percentage
func (m *Metrics) SuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalBuilds == 0 {
		return 0.0
	}
	return float64(m.SuccessfulBuilds) / float64(m.TotalBuilds) * 100.0
}
