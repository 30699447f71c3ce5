package raster

import "sync"

// channelPools maps buffer length -> *sync.Pool of []float64.
// Using sync.Map avoids a mutex on the hot path; a blend run only touches
// one buffer length per pyramid level, so the map stays tiny.
var channelPools sync.Map

// getChannel returns a zeroed []float64 of length n from the pool, or
// allocates a new one.
func getChannel(n int) []float64 {
	if p, ok := channelPools.Load(n); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			buf := v.([]float64)
			clear(buf)
			return buf
		}
	}
	return make([]float64, n)
}

// putChannel returns a buffer to the pool for reuse. Nil buffers are
// silently ignored.
func putChannel(buf []float64) {
	if buf == nil {
		return
	}
	p, _ := channelPools.LoadOrStore(len(buf), &sync.Pool{})
	p.(*sync.Pool).Put(buf)
}
