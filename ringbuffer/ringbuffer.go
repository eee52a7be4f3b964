// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package ringbuffer implements a fixed-size circular byte buffer, used by
// the UART driver for its RX/TX queues.
package ringbuffer

// Buffer is a fixed-capacity circular byte queue. The zero value is not
// usable; construct one with New.
type Buffer struct {
	data       []byte
	writeIndex uint64
	readIndex  uint64
}

// New returns a Buffer with the given capacity.
func New(size int) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// Available returns the number of unread bytes currently queued.
func (b *Buffer) Available() int {
	return int(b.writeIndex - b.readIndex)
}

// Full reports whether the buffer has no room for another Enqueue.
func (b *Buffer) Full() bool {
	return b.Available() >= len(b.data)
}

// Empty reports whether Dequeue would fail.
func (b *Buffer) Empty() bool {
	return b.Available() == 0
}

// Enqueue appends a byte, failing with ok=false if the buffer is full.
func (b *Buffer) Enqueue(v byte) (ok bool) {
	if b.Full() {
		return false
	}

	b.data[b.writeIndex%uint64(len(b.data))] = v
	b.writeIndex++

	return true
}

// EnqueueOverwrite appends a byte, discarding the oldest queued byte first
// if the buffer is full.
func (b *Buffer) EnqueueOverwrite(v byte) {
	if b.Full() {
		b.Dequeue()
	}
	b.Enqueue(v)
}

// Dequeue removes and returns the oldest queued byte, failing with ok=false
// if the buffer is empty.
func (b *Buffer) Dequeue() (v byte, ok bool) {
	if b.Empty() {
		return 0, false
	}

	v = b.data[b.readIndex%uint64(len(b.data))]
	b.readIndex++

	return v, true
}
