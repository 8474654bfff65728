/* metrics.go
 * Prometheus counters for the operations worth watching in production:
 * completed matches, scored predictions and cascade deletions.
 */

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracketpool_matches_completed_total",
		Help: "Number of match results recorded, including corrections.",
	})
	predictionsScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracketpool_predictions_scored_total",
		Help: "Number of prediction point values computed and stored.",
	})
	predictionsCascadeDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracketpool_predictions_cascade_deleted_total",
		Help: "Number of downstream predictions removed by a cascade.",
	})
)
