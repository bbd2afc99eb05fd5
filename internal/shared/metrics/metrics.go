package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	analysesCreatedTotal atomic.Uint64
	analysesFailedTotal  atomic.Uint64
	roadmapsCreatedTotal atomic.Uint64
	roadmapsFailedTotal  atomic.Uint64

	extractionsMu sync.Mutex
	extractions   = map[string]uint64{}

	generationDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncAnalysisCreated counts a persisted analysis.
func IncAnalysisCreated() { analysesCreatedTotal.Add(1) }

// IncAnalysisFailed counts an analysis that failed after its preconditions passed.
func IncAnalysisFailed() { analysesFailedTotal.Add(1) }

// IncRoadmapCreated counts a persisted roadmap.
func IncRoadmapCreated() { roadmapsCreatedTotal.Add(1) }

// IncRoadmapFailed counts a roadmap generation that failed.
func IncRoadmapFailed() { roadmapsFailedTotal.Add(1) }

// IncExtraction counts an extraction by the method that produced its text.
func IncExtraction(method string) {
	extractionsMu.Lock()
	extractions[method]++
	extractionsMu.Unlock()
}

// ObserveGenerationDurationMs records a generation round-trip in milliseconds.
func ObserveGenerationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	generationDuration.Observe(value)
}

// SinceMillis returns the elapsed milliseconds since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "analyses_created_total", "Total analyses persisted", analysesCreatedTotal.Load())
	writeCounter(&buf, "analyses_failed_total", "Total analyses failed", analysesFailedTotal.Load())
	writeCounter(&buf, "roadmaps_created_total", "Total roadmaps persisted", roadmapsCreatedTotal.Load())
	writeCounter(&buf, "roadmaps_failed_total", "Total roadmaps failed", roadmapsFailedTotal.Load())
	writeLabeledCounter(&buf, "extractions_total", "Extractions by method", "method", snapshotExtractions())
	writeHistogram(&buf, "generation_duration_ms", "Generation duration in milliseconds", generationDuration.Snapshot())
	return buf.String()
}

func snapshotExtractions() map[string]uint64 {
	extractionsMu.Lock()
	defer extractionsMu.Unlock()
	out := make(map[string]uint64, len(extractions))
	for k, v := range extractions {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// counts are already cumulative; Observe bumps every bucket at or above the value.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
