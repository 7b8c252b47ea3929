// Package metrics exposes the bot's Prometheus collectors on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	eventsTotal     *prometheus.CounterVec
	messagesTotal   *prometheus.CounterVec
	replyFailures   prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry: reg,

		commandsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_commands_total",
				Help: "Bot commands handled, by command and outcome.",
			}, []string{"command", "outcome"},
		),
		commandDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roster_command_duration_seconds",
				Help:    "Time spent executing a bot command.",
				Buckets: prometheus.DefBuckets,
			}, []string{"command"},
		),
		eventsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_events_total",
				Help: "Roster domain events published, by topic.",
			}, []string{"topic"},
		),
		messagesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_chat_messages_total",
				Help: "Chat messages received, by disposition.",
			}, []string{"disposition"},
		),
		replyFailures: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "roster_reply_failures_total",
				Help: "Replies that could not be delivered to the chat.",
			},
		),
	}
}

func (m *Metrics) ObserveCommand(command, outcome string, took time.Duration) {
	m.commandsTotal.WithLabelValues(command, outcome).Inc()
	m.commandDuration.WithLabelValues(command).Observe(took.Seconds())
}

func (m *Metrics) ObserveEvent(topic string) {
	m.eventsTotal.WithLabelValues(topic).Inc()
}

// ObserveMessage counts an inbound chat message; disposition is "directive"
// or "ignored".
func (m *Metrics) ObserveMessage(disposition string) {
	m.messagesTotal.WithLabelValues(disposition).Inc()
}

func (m *Metrics) ObserveReplyFailure() {
	m.replyFailures.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
