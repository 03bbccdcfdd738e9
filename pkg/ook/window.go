package ook

import (
	"time"

	"ookscan/pkg/port"
)

// windowSize is the number of edges needed to measure one pulse pair.
const windowSize = 3

// window is the fixed capacity edge buffer of the decoder, oldest edge first.
type window struct {
	buf [windowSize]port.Edge
	n   int
}

// push appends an edge. The decoder drains the window before it is full again.
func (w *window) push(e port.Edge) {
	if w.n == windowSize {
		panic("ook: edge window overflow")
	}
	w.buf[w.n] = e
	w.n++
}

// at returns the i-th oldest edge.
func (w *window) at(i int) port.Edge {
	return w.buf[i]
}

func (w *window) len() int {
	return w.n
}

// drop evicts the n oldest edges.
func (w *window) drop(n int) {
	copy(w.buf[:], w.buf[n:w.n])
	w.n -= n
}

// truncate keeps the n oldest edges.
func (w *window) truncate(n int) {
	w.n = n
}

func (w *window) reset() {
	w.n = 0
}

// high returns the duration of the first pulse in the window.
func (w *window) high() (hi time.Duration) {
	return w.buf[1].Timestamp - w.buf[0].Timestamp
}

// low returns the duration of the second pulse in the window.
func (w *window) low() (lo time.Duration) {
	return w.buf[2].Timestamp - w.buf[1].Timestamp
}
