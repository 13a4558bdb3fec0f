package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool recycles frame buffers by size so a long render does not
// allocate a fresh RGBA image per frame.
type ImagePool struct {
	pools     map[image.Point]*sync.Pool
	mu        sync.RWMutex
	allocated atomic.Int64
}

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

var globalPool = NewImagePool()

// GetImage returns a w×h buffer from the shared pool.
func GetImage(w, h int) *image.RGBA {
	return globalPool.Get(w, h)
}

// PutImage hands img back to the shared pool.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

// FrameBytes is the size of one w×h RGBA frame.
func FrameBytes(w, h int) uint64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	return uint64(w) * uint64(h) * 4
}

// Get returns a w×h buffer anchored at the origin. Its contents are
// whatever the previous user left behind.
func (p *ImagePool) Get(w, h int) *image.RGBA {
	key := image.Pt(w, h)
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					p.allocated.Add(1)
					return image.NewRGBA(image.Rect(0, 0, w, h))
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put returns img to the pool. Buffers of sizes never requested are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.Size()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// Allocated reports how many buffers the pool has created.
func (p *ImagePool) Allocated() int64 {
	return p.allocated.Load()
}
