package tiles

import (
	"image"
	"sync"
)

// ImageCache memoises decoded images by URL. One cache lives for the duration
// of a single snapshot and is dropped with it.
type ImageCache struct {
	cache map[string]image.Image
	mu    sync.RWMutex
}

func NewImageCache() *ImageCache {
	return &ImageCache{
		cache: make(map[string]image.Image),
	}
}

func (c *ImageCache) Get(key string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.cache[key]
	return val, ok
}

func (c *ImageCache) Set(key string, img image.Image) {
	if img == nil {
		return
	}
	c.mu.Lock()
	c.cache[key] = img
	c.mu.Unlock()
}
