package luckbook

import (
	"sync"
	"sync/atomic"
	"time"
)

// GenerationOutcome classifies how a single-set generation finished
type GenerationOutcome int

const (
	// GenerationUnvalidated: variant without special rules, first sample returned
	GenerationUnvalidated GenerationOutcome = iota
	// GenerationValidated: a candidate passed the special rules
	GenerationValidated
	// GenerationFallback: retry budget exhausted, unvalidated candidate returned
	GenerationFallback
)

// PerformanceMetrics 性能指标
type PerformanceMetrics struct {
	// 单组生成统计
	TotalGenerations       int64 `json:"total_generations"`
	ValidatedGenerations   int64 `json:"validated_generations"`
	UnvalidatedGenerations int64 `json:"unvalidated_generations"`
	FallbackGenerations    int64 `json:"fallback_generations"`
	CandidateAttempts      int64 `json:"candidate_attempts"` // 候选总数, 含被规则拒绝的
	TotalGenerationTime    int64 `json:"total_generation_time"`

	// 多组生成统计
	BatchRequests  int64 `json:"batch_requests"`
	SetsProduced   int64 `json:"sets_produced"`
	DuplicateSets  int64 `json:"duplicate_sets"`
	PartialBatches int64 `json:"partial_batches"`
	TotalBatchTime int64 `json:"total_batch_time"`

	// 存储统计
	StoreErrors int64 `json:"store_errors"`

	StartTime      int64 `json:"start_time"`
	LastUpdateTime int64 `json:"last_update_time"`
}

// GetFallbackRate returns the share of special-rule generations that fell back, in percent
func (pm *PerformanceMetrics) GetFallbackRate() float64 {
	validated := atomic.LoadInt64(&pm.ValidatedGenerations)
	fallback := atomic.LoadInt64(&pm.FallbackGenerations)
	if validated+fallback == 0 {
		return 0.0
	}
	return float64(fallback) / float64(validated+fallback) * 100.0
}

// GetAverageAttempts returns candidates drawn per generation
func (pm *PerformanceMetrics) GetAverageAttempts() float64 {
	total := atomic.LoadInt64(&pm.TotalGenerations)
	if total == 0 {
		return 0.0
	}
	return float64(atomic.LoadInt64(&pm.CandidateAttempts)) / float64(total)
}

// GetAverageGenerationTime 获取平均生成时间
func (pm *PerformanceMetrics) GetAverageGenerationTime() time.Duration {
	total := atomic.LoadInt64(&pm.TotalGenerations)
	if total == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&pm.TotalGenerationTime) / total)
}

// GetThroughput 获取吞吐量(每秒生成次数)
func (pm *PerformanceMetrics) GetThroughput() float64 {
	startTime := atomic.LoadInt64(&pm.StartTime)
	lastUpdate := atomic.LoadInt64(&pm.LastUpdateTime)
	if startTime == 0 || lastUpdate <= startTime {
		return 0.0
	}

	duration := time.Duration(lastUpdate - startTime)
	return float64(atomic.LoadInt64(&pm.TotalGenerations)) / duration.Seconds()
}

// Reset 重置性能指标
func (pm *PerformanceMetrics) Reset() {
	atomic.StoreInt64(&pm.TotalGenerations, 0)
	atomic.StoreInt64(&pm.ValidatedGenerations, 0)
	atomic.StoreInt64(&pm.UnvalidatedGenerations, 0)
	atomic.StoreInt64(&pm.FallbackGenerations, 0)
	atomic.StoreInt64(&pm.CandidateAttempts, 0)
	atomic.StoreInt64(&pm.TotalGenerationTime, 0)
	atomic.StoreInt64(&pm.BatchRequests, 0)
	atomic.StoreInt64(&pm.SetsProduced, 0)
	atomic.StoreInt64(&pm.DuplicateSets, 0)
	atomic.StoreInt64(&pm.PartialBatches, 0)
	atomic.StoreInt64(&pm.TotalBatchTime, 0)
	atomic.StoreInt64(&pm.StoreErrors, 0)
	atomic.StoreInt64(&pm.StartTime, time.Now().UnixNano())
	atomic.StoreInt64(&pm.LastUpdateTime, time.Now().UnixNano())
}

// ================================================================================

// PerformanceMonitor 性能监控器
type PerformanceMonitor struct {
	metrics *PerformanceMetrics
	mu      sync.RWMutex
	enabled bool
}

// NewPerformanceMonitor 创建新的性能监控器
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		metrics: &PerformanceMetrics{},
		enabled: true,
	}
	pm.metrics.Reset()
	return pm
}

// Enable 启用性能监控
func (pm *PerformanceMonitor) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = true
}

// Disable 禁用性能监控
func (pm *PerformanceMonitor) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = false
}

// IsEnabled 检查是否启用了性能监控
func (pm *PerformanceMonitor) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.enabled
}

// RecordGeneration records one single-set generation and the candidates it drew
func (pm *PerformanceMonitor) RecordGeneration(outcome GenerationOutcome, attempts int, duration time.Duration) {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.TotalGenerations, 1)
	atomic.AddInt64(&pm.metrics.CandidateAttempts, int64(attempts))
	atomic.AddInt64(&pm.metrics.TotalGenerationTime, int64(duration))

	switch outcome {
	case GenerationValidated:
		atomic.AddInt64(&pm.metrics.ValidatedGenerations, 1)
	case GenerationFallback:
		atomic.AddInt64(&pm.metrics.FallbackGenerations, 1)
	default:
		atomic.AddInt64(&pm.metrics.UnvalidatedGenerations, 1)
	}

	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordBatch records one multi-set request
func (pm *PerformanceMonitor) RecordBatch(result *BatchResult, duration time.Duration) {
	if !pm.IsEnabled() || result == nil {
		return
	}

	atomic.AddInt64(&pm.metrics.BatchRequests, 1)
	atomic.AddInt64(&pm.metrics.SetsProduced, int64(result.Produced))
	atomic.AddInt64(&pm.metrics.DuplicateSets, int64(result.Duplicates))
	atomic.AddInt64(&pm.metrics.TotalBatchTime, int64(duration))
	if result.Partial {
		atomic.AddInt64(&pm.metrics.PartialBatches, 1)
	}

	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordStoreError 记录存储错误
func (pm *PerformanceMonitor) RecordStoreError() {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.StoreErrors, 1)
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// GetMetrics 获取性能指标的副本
func (pm *PerformanceMonitor) GetMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		TotalGenerations:       atomic.LoadInt64(&pm.metrics.TotalGenerations),
		ValidatedGenerations:   atomic.LoadInt64(&pm.metrics.ValidatedGenerations),
		UnvalidatedGenerations: atomic.LoadInt64(&pm.metrics.UnvalidatedGenerations),
		FallbackGenerations:    atomic.LoadInt64(&pm.metrics.FallbackGenerations),
		CandidateAttempts:      atomic.LoadInt64(&pm.metrics.CandidateAttempts),
		TotalGenerationTime:    atomic.LoadInt64(&pm.metrics.TotalGenerationTime),
		BatchRequests:          atomic.LoadInt64(&pm.metrics.BatchRequests),
		SetsProduced:           atomic.LoadInt64(&pm.metrics.SetsProduced),
		DuplicateSets:          atomic.LoadInt64(&pm.metrics.DuplicateSets),
		PartialBatches:         atomic.LoadInt64(&pm.metrics.PartialBatches),
		TotalBatchTime:         atomic.LoadInt64(&pm.metrics.TotalBatchTime),
		StoreErrors:            atomic.LoadInt64(&pm.metrics.StoreErrors),
		StartTime:              atomic.LoadInt64(&pm.metrics.StartTime),
		LastUpdateTime:         atomic.LoadInt64(&pm.metrics.LastUpdateTime),
	}
}

// ResetMetrics 重置性能指标
func (pm *PerformanceMonitor) ResetMetrics() { pm.metrics.Reset() }
