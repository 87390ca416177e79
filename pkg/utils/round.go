package utils

import "math"

// Round2 rounds a value to two decimal places, the precision used by
// every derived figure in metrics summaries and health reports.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BytesToMB converts a byte count to megabytes
func BytesToMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}

// BytesToGB converts a byte count to gigabytes
func BytesToGB(bytes uint64) float64 {
	return float64(bytes) / (1024 * 1024 * 1024)
}
