package server

import (
	"github.com/dekarrin/notea/internal/game"
	"github.com/prometheus/client_golang/prometheus"
)

// Command results counted by notea_commands_total.
const (
	CommandHandled   = "handled"
	CommandCancelled = "cancelled"
	CommandUnhandled = "unhandled"
	CommandFailed    = "failed"
)

// Metrics holds Prometheus metric descriptors for the server. Each Server has
// its own registry so several can run in one process.
type Metrics struct {
	registry *prometheus.Registry

	playersConnected prometheus.Gauge
	connectionsTotal prometheus.Counter
	sessionsCreated  prometheus.Counter
	commandsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the server metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		playersConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notea_players_connected",
			Help: "Number of currently connected players.",
		}),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notea_connections_total",
			Help: "Total websocket connections since server start.",
		}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notea_sessions_created_total",
			Help: "Total saved sessions created since server start.",
		}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notea_commands_total",
			Help: "Total commands dispatched since server start, by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.playersConnected,
		m.connectionsTotal,
		m.sessionsCreated,
		m.commandsTotal,
	)

	return m
}

// Registry returns the registry the metrics are in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// observe is the game.Observer of every game on the server.
func (m *Metrics) observe(o game.Outcome, err error) {
	m.commandsTotal.WithLabelValues(commandResult(o, err)).Inc()
}

func commandResult(o game.Outcome, err error) string {
	switch {
	case err != nil:
		return CommandFailed
	case o.Cancelled:
		return CommandCancelled
	case o.NoHandler:
		return CommandUnhandled
	default:
		return CommandHandled
	}
}
