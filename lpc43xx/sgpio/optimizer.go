// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sgpio

// maximumUsefulBufferDepthOrder returns the largest buffer chain depth (as
// a power-of-two order) this function's mode and caller-supplied buffer
// can ever use, bounding how far the optimizer is allowed to grow it.
func maximumUsefulBufferDepthOrder(f *Function) uint8 {
	var modeLimit uint8
	switch f.Mode {
	case ModeClockGeneration:
		modeLimit = 0
	case ModeFixedDataOut:
		// both the shadow and shift registers hold live data in fixed-out
		// mode, so only half as many slices are needed for a given byte
		// count as in the streaming modes.
		modeLimit = log2Floor(MaxSliceChainDepth) - 1
	case ModeStreamBidirectional:
		modeLimit = log2Floor(MaxSliceChainDepth) - 1
	default:
		modeLimit = log2Floor(MaxSliceChainDepth)
	}

	if uint8(f.BufferOrder) < modeLimit {
		return uint8(f.BufferOrder)
	}
	return modeLimit
}

func log2Floor(n int) uint8 {
	var order uint8
	for n > 1 {
		n >>= 1
		order++
	}
	return order
}

// sliceFree reports whether slice s is unclaimed by any function.
func (e *Engine) sliceFree(s Slice) bool {
	return e.slicesInUse&(1<<uint(s)) == 0
}

// attemptToDoubleBufferSize tries to grow one of a function's two buffers
// (data, or direction in bidirectional mode) by concatenating as many
// slices onto its chain as it already has, doubling it. It returns true if
// it grew the buffer, and changes nothing unless every needed slice is free.
func (e *Engine) attemptToDoubleBufferSize(f *Function, direction bool) bool {
	depthOrder := &f.bufferDepthOrder
	ioSlice := f.ioSlice
	if direction {
		depthOrder = &f.directionBufferDepthOrder
		ioSlice = f.directionSlice
	}

	maxOrder := maximumUsefulBufferDepthOrder(f)
	if *depthOrder >= maxOrder {
		return false
	}

	depth := 1 << *depthOrder
	for i := depth; i < 2*depth; i++ {
		next, err := sliceInConcatenation(ioSlice, i)
		if err != nil || !e.sliceFree(next) {
			return false
		}
	}

	for i := depth; i < 2*depth; i++ {
		next, _ := sliceInConcatenation(ioSlice, i)
		copySliceProperties(next, ioSlice)
		setConcatenation(next, true, uint8(depth-1)&shiftCfgConcatOrderMask)
		e.slicesInUse |= 1 << uint(next)
	}

	*depthOrder++
	return true
}

// attemptBufferOptimization makes one pass over every function, trying to
// double each buffer's slice chain. It reports whether every function was
// already at its maximum useful depth (i.e. nothing changed), matching
// sgpio_attempt_buffer_optimization's already_optimal return value.
func (e *Engine) attemptBufferOptimization() (alreadyOptimal bool) {
	alreadyOptimal = true

	for _, f := range e.Functions {
		if e.attemptToDoubleBufferSize(f, false) {
			alreadyOptimal = false
		}
		if f.hasDirectionSlice && e.attemptToDoubleBufferSize(f, true) {
			alreadyOptimal = false
		}
	}

	return alreadyOptimal
}

// optimizeBuffers repeatedly grows every function's slice chain until no
// function can grow any further, the same fixed-point loop
// sgpio_set_up_functions runs after configuring all functions individually.
func (e *Engine) optimizeBuffers() {
	for {
		if e.attemptBufferOptimization() {
			return
		}
	}
}
