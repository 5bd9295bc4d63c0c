package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TeamRegistrations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "league_team_registrations_total", Help: "Total accepted team registrations"},
	)
	RegistrationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "league_registrations_rejected_total", Help: "Rejected registrations by reason"},
		[]string{"reason"},
	)
	PhaseAdvances = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "league_phase_advances_total", Help: "Total successful phase advancements"},
	)
	MatchesFinished = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "league_matches_finished_total", Help: "Total matches recorded as finished"},
	)
)

func Register() {
	prometheus.MustRegister(TeamRegistrations, RegistrationsRejected, PhaseAdvances, MatchesFinished)
}
