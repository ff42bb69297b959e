package metrics

import (
	"testing"
	"time"

	"hunterhq/relay/pkg/routing"

	"github.com/prometheus/client_golang/prometheus"
)

// Benchmark_Collector_ObserveGenerate benchmarks report recording
func Benchmark_Collector_ObserveGenerate(b *testing.B) {
	collector := NewCollector(testConfig(true), prometheus.NewRegistry())
	report := routing.Report{
		Operation:      "generate",
		ActualProvider: "openai",
		Model:          "gpt-4o-mini",
		Duration:       time.Second,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.ObserveGenerate(report)
	}
}

// Benchmark_Collector_ObserveGenerate_Parallel benchmarks parallel report
// recording
func Benchmark_Collector_ObserveGenerate_Parallel(b *testing.B) {
	collector := NewCollector(testConfig(true), prometheus.NewRegistry())
	report := routing.Report{
		Operation:      "generate",
		ActualProvider: "openai",
		Model:          "gpt-4o-mini",
		Duration:       time.Second,
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			collector.ObserveGenerate(report)
		}
	})
}

// Benchmark_Collector_RecordCacheHit benchmarks cache hit recording
func Benchmark_Collector_RecordCacheHit(b *testing.B) {
	collector := NewCollector(testConfig(true), prometheus.NewRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordCacheHit("analysis")
	}
}

// Benchmark_CardinalityLimiter_Allow benchmarks limiter lookups on the
// hot (already admitted) path
func Benchmark_CardinalityLimiter_Allow(b *testing.B) {
	limiter := NewCardinalityLimiter(10000)
	limiter.Allow("http:GET:/api/ai/providers")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("http:GET:/api/ai/providers")
	}
}
