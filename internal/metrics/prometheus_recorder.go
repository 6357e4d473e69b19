package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	gatherer       prom.Gatherer
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcome   *prom.CounterVec
	pluginDuration *prom.HistogramVec
	pluginResults  *prom.CounterVec
	documents      prom.Gauge
	navNodes       prom.Gauge
	verifyProblems *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{gatherer: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.pluginDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "plugin_duration_seconds",
			Help:      "Duration of individual plugin executions",
			Buckets:   prom.DefBuckets,
		}, []string{"plugin", "result"})
		pr.pluginResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "plugin_results_total",
			Help:      "Plugin results by success/failure",
		}, []string{"plugin", "result"})
		pr.documents = prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "content_documents",
			Help:      "Documents found in the content directory by the last build",
		})
		pr.navNodes = prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "sidebar_nodes",
			Help:      "Sidebar nodes after autogenerated groups were expanded",
		})
		pr.verifyProblems = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "verify_problems",
			Help:      "Verification problems found by the last build, by kind",
		}, []string{"kind"})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
			pr.pluginDuration, pr.pluginResults, pr.documents, pr.navNodes, pr.verifyProblems)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObservePluginDuration(plugin string, d time.Duration, success bool) {
	if p == nil || p.pluginDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.pluginDuration.WithLabelValues(plugin, res).Observe(d.Seconds())
	p.pluginResults.WithLabelValues(plugin, res).Inc()
}

func (p *PrometheusRecorder) SetDocuments(n int) {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.Set(float64(n))
}

func (p *PrometheusRecorder) SetNavNodes(n int) {
	if p == nil || p.navNodes == nil {
		return
	}
	p.navNodes.Set(float64(n))
}

func (p *PrometheusRecorder) SetVerifyProblems(kind string, n int) {
	if p == nil || p.verifyProblems == nil {
		return
	}
	p.verifyProblems.WithLabelValues(kind).Set(float64(n))
}

// WriteTextfile writes the recorder's registry in the Prometheus text
// exposition format, replacing path atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if p == nil || p.gatherer == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, p.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
