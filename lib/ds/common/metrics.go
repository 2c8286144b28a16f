package common

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// Observe records one operation of a structure: a call counter, an error counter and
// the duration. Use it with defer:
//
//	defer common.Observe("list", "push_left", time.Now(), &err)
func Observe(structure, op string, start time.Time, err *error) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`dstruct_ops_total{structure=%q,op=%q}`, structure, op)).Inc()
	metrics.GetOrCreateHistogram(fmt.Sprintf(`dstruct_op_duration_seconds{structure=%q,op=%q}`, structure, op)).UpdateDuration(start)
	if err != nil && *err != nil {
		metrics.GetOrCreateCounter(fmt.Sprintf(`dstruct_op_errors_total{structure=%q,op=%q}`, structure, op)).Inc()
	}
}
