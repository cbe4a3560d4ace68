package boundary

import (
	"fmt"
	"math"
)

// Refresh implements the host-driven streaming contract of spec
// section 4.7/6: when floor(t/IntervalSec) advances past the raster
// currently resident, the next slab is pulled from Stream and copied
// into the single device-resident buffer before the next kernel that
// reads it is enqueued. It is a no-op when the timestep index has not
// advanced.
func (s *StreamingGridded) Refresh(t float64) error {
	idx := int(math.Floor(t / s.IntervalSec))
	if idx == s.currentIndex && s.current != nil {
		return nil
	}
	raster, err := s.Stream.NextRaster(idx)
	if err != nil {
		return fmt.Errorf("streaming boundary %q: raster for interval %d: %w", s.Name, idx, err)
	}
	if len(raster) != s.Cols*s.Rows {
		return fmt.Errorf("streaming boundary %q: raster size %d does not match %dx%d grid", s.Name, len(raster), s.Cols, s.Rows)
	}
	s.current = raster
	s.currentIndex = idx
	return nil
}

// Current returns the resident raster slab, or nil if Refresh has
// never succeeded.
func (s *StreamingGridded) Current() []float64 {
	return s.current
}
