package progress

// sampler suppresses repetitive progress logs, emitting only when the
// completed percentage crosses a bucket boundary.
type sampler struct {
	bucketSize float64
	lastBucket int
}

// newSampler constructs a sampler with the given bucket size in percent
// (default 10).
func newSampler(bucketSize float64) *sampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &sampler{bucketSize: bucketSize, lastBucket: -1}
}

// shouldLog reports whether done/total lands in a new bucket. The final item
// always logs.
func (s *sampler) shouldLog(done, total int) bool {
	if total <= 0 {
		return false
	}
	percent := float64(done) / float64(total) * 100
	bucket := int(percent / s.bucketSize)
	if done >= total {
		bucket = int(100 / s.bucketSize)
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

func (s *sampler) reset() {
	s.lastBucket = -1
}
