package renderer

import "fmt"

// stagingRing packs per-frame data into fixed-size slots of a CPU buffer that is flushed to one GPU
// buffer before submission. Each push occupies ceil(len/stride) consecutive slots.
type stagingRing struct {
	label    string
	stride   int
	capacity int
	data     []byte
	used     int
}

func newStagingRing(label string, stride, capacity int) *stagingRing {
	return &stagingRing{
		label:    label,
		stride:   stride,
		capacity: capacity,
		data:     make([]byte, stride*capacity),
	}
}

// Push copies b into the next free slots.
//
// Parameters:
//   - b: the bytes to stage
//
// Returns:
//   - int: the index of the first slot written
//   - error: ErrRingFull (wrapped) if the remaining slots cannot hold b
func (r *stagingRing) Push(b []byte) (int, error) {
	slots := (len(b) + r.stride - 1) / r.stride
	if slots == 0 {
		slots = 1
	}
	if r.used+slots > r.capacity {
		return 0, fmt.Errorf("%s: %d of %d slots used, %d requested: %w", r.label, r.used, r.capacity, slots, ErrRingFull)
	}
	first := r.used
	copy(r.data[first*r.stride:], b)
	r.used += slots
	return first, nil
}

// Offset returns the byte offset of a slot.
func (r *stagingRing) Offset(slot int) uint64 {
	return uint64(slot * r.stride)
}

// Bytes returns the staged prefix of the buffer.
func (r *stagingRing) Bytes() []byte {
	return r.data[:r.used*r.stride]
}

// Size returns the byte size of the backing GPU buffer.
func (r *stagingRing) Size() uint64 {
	return uint64(r.stride * r.capacity)
}

// Used returns the number of occupied slots.
func (r *stagingRing) Used() int {
	return r.used
}

// Reset drops all staged data for the next frame.
func (r *stagingRing) Reset() {
	r.used = 0
}
