package logging

import "strings"

// ProgressSampler suppresses repetitive per-item progress output on long
// batches while preserving signal when the operation or percentage bucket changes.
type ProgressSampler struct {
	bucketSize    float64
	lastOperation string
	lastBucket    int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 5%) or when the operation changes.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be emitted. Percent can be
// negative to indicate "unknown"; operation is trimmed before comparison.
func (s *ProgressSampler) ShouldLog(percent float64, operation string) bool {
	if s == nil {
		return true
	}
	operation = strings.TrimSpace(operation)
	emit := false
	if operation != "" && operation != s.lastOperation {
		s.lastOperation = operation
		emit = true
		s.lastBucket = -1
	}
	if percent >= 0 {
		bucket := int(percent / s.bucketSize)
		if percent >= 100 {
			bucket = int(100 / s.bucketSize)
		}
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}
	return emit
}

// ShouldLogItem is ShouldLog for a 1-based index out of total items. The final
// item always emits.
func (s *ProgressSampler) ShouldLogItem(index, total int, operation string) bool {
	if total <= 0 {
		return s.ShouldLog(-1, operation)
	}
	emit := s.ShouldLog(float64(index)*100/float64(total), operation)
	return emit || index >= total
}

