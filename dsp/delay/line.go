// Package delay provides a fixed-capacity circular delay line.
package delay

// Line is a circular buffer of samples. After Write(x), Read(1) returns x,
// Read(2) the sample written before it, and so on up to the capacity.
type Line struct {
	buf  []float64
	mask int
	pos  int
}

// NewLine returns a line able to hold at least capacity samples. The
// internal buffer is rounded up to a power of two.
func NewLine(capacity int) *Line {
	if capacity < 1 {
		capacity = 1
	}

	size := 1
	for size < capacity {
		size <<= 1
	}

	return &Line{
		buf:  make([]float64, size),
		mask: size - 1,
	}
}

// Len returns the usable capacity in samples.
func (l *Line) Len() int { return len(l.buf) }

// Write pushes a sample into the line.
func (l *Line) Write(x float64) {
	l.pos = (l.pos + 1) & l.mask
	l.buf[l.pos] = x
}

// Read returns the sample written k calls ago. Read(1) is the most recent
// write. k outside [1, Len()] reads wrapped data.
func (l *Line) Read(k int) float64 {
	return l.buf[(l.pos-k+1)&(l.mask)]
}

// Reset zeroes the buffer contents.
func (l *Line) Reset() {
	for i := range l.buf {
		l.buf[i] = 0
	}

	l.pos = 0
}
