package services

import (
	"traffic-route-service/internal/domain"
)

// Segmenter splits a raw path into a handful of segments with their own congestion.
type Segmenter struct {
	cfg        SegmentConfig
	congestion *CongestionModel
}

func NewSegmenter(cfg SegmentConfig, congestion *CongestionModel) *Segmenter {
	return &Segmenter{cfg: cfg, congestion: congestion}
}

// SegmentSize returns the number of points per segment for a path of n points.
func (s *Segmenter) SegmentSize(n int) int {
	size := 0
	if s.cfg.TargetSegments > 0 {
		size = n / s.cfg.TargetSegments
	}
	if size < s.cfg.MinSegmentPoints {
		size = s.cfg.MinSegmentPoints
	}
	if size < 1 {
		size = 1
	}
	return size
}

// SpeedKmh returns the travel speed under the given congestion.
func (s *Segmenter) SpeedKmh(congestion float64) float64 {
	return s.cfg.BaseSpeedKmh * (1 - (congestion/100)*s.cfg.MaxSlowdown)
}

// Segment slices path into consecutive chunks that share their boundary point,
// so the segment distances add up to the full path distance.
// Paths with fewer than two points yield no segments.
func (s *Segmenter) Segment(path []domain.Coordinates, hour int, variant domain.Variant) []domain.RouteSegment {
	n := len(path)
	if n < 2 {
		return []domain.RouteSegment{}
	}

	size := s.SegmentSize(n)
	segments := make([]domain.RouteSegment, 0, s.cfg.TargetSegments+1)

	for start := 0; start < n-1; start += size {
		end := start + size
		if end > n-1 {
			end = n - 1
		}

		chunk := make([]domain.Coordinates, end-start+1)
		copy(chunk, path[start:end+1])

		distance := PathDistanceKm(chunk)
		congestion := s.congestion.CongestionFor(hour, variant)

		duration := 0.0
		if speed := s.SpeedKmh(congestion); speed > 0 {
			duration = distance / speed * 60
		}

		segments = append(segments, domain.RouteSegment{
			Coordinates:     chunk,
			CongestionLevel: congestion,
			DistanceKm:      distance,
			DurationMin:     duration,
		})
	}

	return segments
}
