package planner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeLabel = "outcome"
	reasonLabel  = "reason"

	outcomeReached      = "reached"
	outcomeInvalid      = "invalid"
	outcomeNotConverged = "not_converged"
	outcomeCanceled     = "canceled"

	reasonSampleBlocked = "sample_blocked"
	reasonSampleOnNode  = "sample_on_node"
	reasonStepBlocked   = "step_blocked"
)

var (
	plansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrt_plans_total",
		Help: "The number of planning runs by outcome.",
	}, []string{outcomeLabel})

	planIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rrt_plan_iterations",
		Help:    "The number of loop iterations of finished planning runs.",
		Buckets: prometheus.ExponentialBuckets(100, 4, 9),
	})

	treeNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rrt_tree_nodes",
		Help:    "The number of nodes of the trees returned by planning runs.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 9),
	})

	rejectedSamples = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrt_rejected_samples_total",
		Help: "The number of samples discarded while growing trees.",
	}, []string{reasonLabel})
)

type rejectCounter struct {
	sampleBlocked int
	sampleOnNode  int
	stepBlocked   int
}

func instrumentPlan(outcome string, iterations int, nodes int, rejected rejectCounter) {
	plansTotal.
		With(prometheus.Labels{outcomeLabel: outcome}).
		Inc()

	if outcome == outcomeInvalid {
		return
	}

	planIterations.Observe(float64(iterations))
	treeNodes.Observe(float64(nodes))

	rejectedSamples.
		With(prometheus.Labels{reasonLabel: reasonSampleBlocked}).
		Add(float64(rejected.sampleBlocked))
	rejectedSamples.
		With(prometheus.Labels{reasonLabel: reasonSampleOnNode}).
		Add(float64(rejected.sampleOnNode))
	rejectedSamples.
		With(prometheus.Labels{reasonLabel: reasonStepBlocked}).
		Add(float64(rejected.stepBlocked))
}
