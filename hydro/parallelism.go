package hydro

import (
	"runtime"
	"sync"
)

// PartitionMap splits the row range [0, R) of the grid into
// ParallelDegree contiguous buckets of near-equal size, each bucket
// dispatched to its own goroutine. This is the CPU stand-in for the
// GPU's 2-D workgroup grid described in spec section 5: rows are the
// dimension split across "workgroups" (goroutines), columns are
// processed serially within a workgroup the way a work-item strides a
// single row.
//
// Adapted directly from the teacher's utils.PartitionMap
// (Notargets/gocfd), which splits a 1-D element range for its
// DG solver in exactly this fashion; the split algorithm itself is
// domain-agnostic index arithmetic, kept close to verbatim.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	buckets        [][2]int
}

// NewPartitionMap builds a PartitionMap dividing [0, maxIndex) into
// degree buckets with a maximum imbalance of one row.
func NewPartitionMap(degree, maxIndex int) *PartitionMap {
	if degree < 1 {
		degree = 1
	}
	if degree > maxIndex {
		degree = maxIndex
	}
	if degree < 1 {
		degree = 1
	}
	pm := &PartitionMap{MaxIndex: maxIndex, ParallelDegree: degree, buckets: make([][2]int, degree)}
	base := maxIndex / degree
	remainder := maxIndex % degree
	start := 0
	for n := 0; n < degree; n++ {
		size := base
		if n < remainder {
			size++
		}
		pm.buckets[n] = [2]int{start, start + size}
		start += size
	}
	return pm
}

// Range returns the half-open [min, max) row range owned by bucket n.
func (pm *PartitionMap) Range(n int) (min, max int) {
	return pm.buckets[n][0], pm.buckets[n][1]
}

// DefaultParallelDegree picks a partition count for rowCount rows:
// one goroutine per logical CPU, capped so no partition is empty.
func DefaultParallelDegree(rowCount int) int {
	np := runtime.NumCPU()
	if np > rowCount {
		np = 1
	}
	if np < 1 {
		np = 1
	}
	return np
}

// Dispatch runs fn(rowMin, rowMax) once per partition, concurrently,
// and blocks until every partition has finished -- the goroutine
// analogue of enqueuing a 2-D kernel across workgroups and waiting on
// the command queue to drain before the next kernel is issued (spec
// section 5: "kernels on the same queue serialise"). Grounded on the
// teacher's Euler2D.RungeKutta4SSP.Step, which fans out identically
// with a sync.WaitGroup over c.Partitions.ParallelDegree goroutines.
func (pm *PartitionMap) Dispatch(fn func(rowMin, rowMax int)) {
	var wg sync.WaitGroup
	wg.Add(pm.ParallelDegree)
	for n := 0; n < pm.ParallelDegree; n++ {
		rowMin, rowMax := pm.Range(n)
		go func(rowMin, rowMax int) {
			defer wg.Done()
			fn(rowMin, rowMax)
		}(rowMin, rowMax)
	}
	wg.Wait()
}

// DispatchReduce runs fn(rowMin, rowMax) -> partial once per partition
// concurrently (the workgroup-local reduction, spec section 4.6 phase
// 1), then combines the partials on the calling goroutine with combine
// (phase 2, a single scalar kernel).
func DispatchReduce[T any](pm *PartitionMap, fn func(rowMin, rowMax int) T, zero T, combine func(a, b T) T) T {
	partials := make([]T, pm.ParallelDegree)
	var wg sync.WaitGroup
	wg.Add(pm.ParallelDegree)
	for n := 0; n < pm.ParallelDegree; n++ {
		rowMin, rowMax := pm.Range(n)
		go func(n, rowMin, rowMax int) {
			defer wg.Done()
			partials[n] = fn(rowMin, rowMax)
		}(n, rowMin, rowMax)
	}
	wg.Wait()
	acc := zero
	for _, p := range partials {
		acc = combine(acc, p)
	}
	return acc
}
