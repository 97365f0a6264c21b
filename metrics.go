package rotlog

import (
	smerrors "github.com/Station-Manager/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the engine writes. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	linesWritten *prometheus.CounterVec
	bytesWritten prometheus.Counter
	rotations    prometheus.Counter
	writeErrors  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg:
//   - rotlog_lines_written_total{level}
//   - rotlog_bytes_written_total
//   - rotlog_rotations_total
//   - rotlog_write_errors_total
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	const op smerrors.Op = "rotlog.NewMetrics"
	m := &Metrics{
		linesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ServiceName,
				Name:      "lines_written_total",
				Help:      "Total number of lines written, by level name",
			},
			[]string{"level"},
		),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ServiceName,
			Name:      "bytes_written_total",
			Help:      "Total number of bytes written to log destinations",
		}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ServiceName,
			Name:      "rotations_total",
			Help:      "Total number of switches to a new rotation slot",
		}),
		writeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ServiceName,
			Name:      "write_errors_total",
			Help:      "Total number of failed writes, rotations included",
		}),
	}

	if reg == nil {
		return m, nil
	}
	collectors := []prometheus.Collector{m.linesWritten, m.bytesWritten, m.rotations, m.writeErrors}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, configError(op, err, errMsgRegisterMetric)
		}
	}
	return m, nil
}

func (m *Metrics) lineWritten(level Level, n int) {
	if m == nil {
		return
	}
	m.linesWritten.WithLabelValues(level.String()).Inc()
	m.bytesWritten.Add(float64(n))
}

func (m *Metrics) rotated() {
	if m == nil {
		return
	}
	m.rotations.Inc()
}

func (m *Metrics) writeFailed() {
	if m == nil {
		return
	}
	m.writeErrors.Inc()
}
