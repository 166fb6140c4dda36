package attack

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attackRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boolattack_runs_total",
		Help: "Finished attacks by result kind",
	}, []string{"result"})

	attackIterations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boolattack_iterations_total",
		Help: "Search iterations across all attacks",
	})

	attackDuplicateBranches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boolattack_duplicate_branches_total",
		Help: "Branches discarded because their constraint set was already known",
	})

	resolvePasses = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "boolattack_resolve_passes",
		Help:    "Fixpoint passes needed to resolve one branch",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})

	branchFreeInputs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "boolattack_branch_free_inputs",
		Help:    "Free input parameters left after resolving a branch",
		Buckets: prometheus.ExponentialBuckets(1, 2, 11),
	})

	attackDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "boolattack_run_duration_seconds",
		Help:    "Wall time of one attack",
		Buckets: []float64{0.001, 0.01, 0.1, 1, 10, 60, 600},
	})
)

func observeBranch(passes, free int) {
	resolvePasses.Observe(float64(passes))
	branchFreeInputs.Observe(float64(free))
}

func observeResult(kind ResultKind, iterations int, elapsed time.Duration) {
	attackRuns.WithLabelValues(kind.String()).Inc()
	attackIterations.Add(float64(iterations))
	attackDuration.Observe(elapsed.Seconds())
}
