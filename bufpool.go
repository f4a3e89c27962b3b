package bson

import "sync"

// maxPooledBuffer keeps one oversized document from pinning its buffer in the pool.
const maxPooledBuffer = 64 * 1024

// encodeBufPool reuses encode buffers across Writer.Encode calls.
// This reduces GC pressure when streaming many small documents. We pool
// *[]byte so that Put does not allocate.
var encodeBufPool = sync.Pool{
	New: func() any {
		// A 4KB default is chosen to avoid re-allocations for common document sizes.
		b := make([]byte, 0, 4096)
		return &b
	},
}

func getEncodeBuf() *[]byte { return encodeBufPool.Get().(*[]byte) }

func putEncodeBuf(bp *[]byte) {
	if cap(*bp) > maxPooledBuffer {
		return
	}
	*bp = (*bp)[:0]
	encodeBufPool.Put(bp)
}
