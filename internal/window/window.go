// Package window provides a fixed-capacity rolling window with O(1) updates.
package window

import (
	"math"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

const varianceNoiseFloor = 1e-13

// RollingWindow keeps the last Cap() values in a preallocated circular buffer
// together with a running sum and sum of squares.
type RollingWindow struct {
	buf   []float64
	idx   int // next write position
	count int // values held, at most len(buf)
	sum   float64
	sumSq float64
	// evictions since the running sums were last rebuilt from the buffer
	evictions int
	// values held that are not exactly zero
	nonZero int
}

// New creates an empty window holding at most capacity values.
func New(capacity int) (*RollingWindow, error) {
	if capacity <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "window capacity must be positive, got %d", capacity)
	}

	return &RollingWindow{
		buf: make([]float64, capacity),
	}, nil
}

// Push appends x, evicting the oldest value once the window is full.
func (w *RollingWindow) Push(x float64) {
	if w.count == len(w.buf) {
		old := w.buf[w.idx]
		w.sum -= old
		w.sumSq -= old * old
		w.evictions++

		if old != 0 {
			w.nonZero--
		}
	} else {
		w.count++
	}

	w.buf[w.idx] = x
	w.sum += x
	w.sumSq += x * x
	w.idx = (w.idx + 1) % len(w.buf)

	if x != 0 {
		w.nonZero++
	} else if w.nonZero == 0 {
		// an all-zero window sums to exactly zero whatever drift the subtractions left
		w.sum, w.sumSq = 0, 0
	}

	// Rebuild the running sums once per full rotation so subtraction drift stays bounded.
	if w.evictions >= len(w.buf) {
		w.resum()
	}
}

func (w *RollingWindow) resum() {
	w.sum, w.sumSq = 0, 0
	for _, v := range w.buf[:w.count] {
		w.sum += v
		w.sumSq += v * v
	}

	w.evictions = 0
}

// Len returns the number of values currently held.
func (w *RollingWindow) Len() int { return w.count }

// Cap returns the window capacity.
func (w *RollingWindow) Cap() int { return len(w.buf) }

// Full reports whether the window holds Cap() values.
func (w *RollingWindow) Full() bool { return w.count == len(w.buf) }

// NonZero returns the number of held values that are not exactly zero.
func (w *RollingWindow) NonZero() int { return w.nonZero }

// Sum returns the sum of the values currently held.
func (w *RollingWindow) Sum() float64 { return w.sum }

// Mean returns the arithmetic mean of a full window.
func (w *RollingWindow) Mean() (float64, error) {
	if err := w.requireFull(); err != nil {
		return 0, err
	}

	return w.sum / float64(len(w.buf)), nil
}

// Variance returns the population variance of a full window.
func (w *RollingWindow) Variance() (float64, error) {
	mean, err := w.Mean()
	if err != nil {
		return 0, err
	}

	n := float64(len(w.buf))
	variance := w.sumSq/n - mean*mean
	// Below this floor the difference is cancellation noise, so a flat window reads exactly zero.
	if variance <= varianceNoiseFloor*mean*mean {
		variance = 0
	}

	return variance, nil
}

// StdDev returns the population standard deviation of a full window.
func (w *RollingWindow) StdDev() (float64, error) {
	variance, err := w.Variance()
	if err != nil {
		return 0, err
	}

	return math.Sqrt(variance), nil
}

// Oldest returns the value that the next Push on a full window will evict.
func (w *RollingWindow) Oldest() (float64, error) {
	if w.count == 0 {
		return 0, errors.NewInsufficientDataError(1, 0, "", "window is empty")
	}

	return w.at(0), nil
}

// Newest returns the most recently pushed value.
func (w *RollingWindow) Newest() (float64, error) {
	if w.count == 0 {
		return 0, errors.NewInsufficientDataError(1, 0, "", "window is empty")
	}

	return w.at(w.count - 1), nil
}

// Min returns the smallest value held.
func (w *RollingWindow) Min() (float64, error) {
	if w.count == 0 {
		return 0, errors.NewInsufficientDataError(1, 0, "", "window is empty")
	}

	lowest := math.Inf(1)
	for _, v := range w.buf[:w.count] {
		lowest = math.Min(lowest, v)
	}

	return lowest, nil
}

// Max returns the largest value held.
func (w *RollingWindow) Max() (float64, error) {
	if w.count == 0 {
		return 0, errors.NewInsufficientDataError(1, 0, "", "window is empty")
	}

	highest := math.Inf(-1)
	for _, v := range w.buf[:w.count] {
		highest = math.Max(highest, v)
	}

	return highest, nil
}

// Values returns a copy of the held values ordered oldest to newest.
func (w *RollingWindow) Values() []float64 {
	values := make([]float64, w.count)
	for i := range values {
		values[i] = w.at(i)
	}

	return values
}

// Reset empties the window, keeping its capacity.
func (w *RollingWindow) Reset() {
	w.idx, w.count, w.evictions, w.nonZero = 0, 0, 0, 0
	w.sum, w.sumSq = 0, 0

	for i := range w.buf {
		w.buf[i] = 0
	}
}

// at returns the i-th held value counting from the oldest.
func (w *RollingWindow) at(i int) float64 {
	start := 0
	if w.count == len(w.buf) {
		start = w.idx
	}

	return w.buf[(start+i)%len(w.buf)]
}

func (w *RollingWindow) requireFull() error {
	if w.count < len(w.buf) {
		return errors.NewInsufficientDataErrorf(len(w.buf), w.count, "",
			"window needs %d values, has %d", len(w.buf), w.count)
	}

	return nil
}
