// Package common holds what all data structures share: the configuration, the
// logger setup (a dragonboat logger.ILogger factory printing "LEVEL | name | message")
// and the operation metrics exported through VictoriaMetrics/metrics.
package common
