package service

import "github.com/prometheus/client_golang/prometheus"

var (
	teamRegistrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "makarapreneur",
		Name:      "team_registrations_total",
		Help:      "Teams registered per competition.",
	}, []string{"competition"})

	participantRegistrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "makarapreneur",
		Name:      "participant_registrations_total",
		Help:      "Networking and business class registrations.",
	}, []string{"program"})

	paymentEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "makarapreneur",
		Name:      "payment_events_total",
		Help:      "Invoice lifecycle events by resulting status.",
	}, []string{"status"})
)

// RegisterMetrics adds the domain counters to r.
func RegisterMetrics(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{teamRegistrations, participantRegistrations, paymentEvents} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
