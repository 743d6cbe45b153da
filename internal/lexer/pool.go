package lexer

import "sync"

// maxCachedScratch bounds the scratch buffers kept for reuse.
const maxCachedScratch = 8 << 10

var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 256)
		return &b
	},
}

func acquireScratch() *[]byte {
	return scratchPool.Get().(*[]byte)
}

func releaseScratch(holder *[]byte, buf []byte) {
	if cap(buf) > maxCachedScratch {
		return
	}
	*holder = buf[:0]
	scratchPool.Put(holder)
}
