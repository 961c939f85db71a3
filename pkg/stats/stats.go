package stats

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

// EnableMemoryStatistics enables go routine that periodically logs memory
// usage of the go process. The default prometheus metrics are dumped to
// the given file once the context is canceled, if a path is given.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration, dumpPath string,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
			case <-ctx.Done():
				if len(dumpPath) <= 0 {
					return
				}
				if err := DumpPrometheusDefaults(dumpPath); err != nil {
					log.WithError(err).Warn("failed to dump prometheus metrics")
				}
				return
			}
		}
	}()
}

// toMegabytes returns given memory in bytes to megabytes.
func toMegabytes(bytes uint64) float64 {
	return float64(bytes) / MEGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.WithFields(log.Fields{
		"total_alloc_mb": toMegabytes(memStats.TotalAlloc),
		"heap_alloc_mb":  toMegabytes(memStats.HeapAlloc),
		"mallocs":        memStats.Mallocs,
		"frees":          memStats.Frees,
	}).Info("memory statistics")
}

// DumpPrometheusDefaults appends the default Prometheus metrics to a file.
func DumpPrometheusDefaults(path string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	metricFamily, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.WithField("goroutines", runtime.NumGoroutine()).Info("go routines")
}
