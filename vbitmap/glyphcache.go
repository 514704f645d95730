package vbitmap

import (
	"container/list"
	"math"
	"sync"

	"github.com/escp2doc/escp2doc/font"
)

// glyphKey identifies one cached glyph rasterization: a (typeface, rune)
// pair at a specific pixel scale. Scale is quantized to 1/64th of a dot
// before use as a map key so two scales that differ only in float
// rounding noise collide into the same cache entry.
type glyphKey struct {
	typeface font.Typeface
	r        rune
	scaleX   int
	scaleY   int
}

// pixelOffset is one lit pixel within a rasterized glyph cell, relative to
// the cell's origin.
type pixelOffset struct{ dx, dy int }

// glyphLRU is a bounded, thread-safe cache of rasterized glyph pixel sets:
// a doubly-linked-list LRU eviction list plus a map for O(1) lookup, keyed
// by glyphKey and storing plain pixel offsets (this renderer has no
// vector font resource to close on eviction).
type glyphLRU struct {
	mu       sync.Mutex
	capacity int
	items    map[glyphKey]*list.Element
	order    *list.List
}

type glyphEntry struct {
	key    glyphKey
	pixels []pixelOffset
}

func newGlyphLRU(capacity int) *glyphLRU {
	if capacity < 1 {
		capacity = 1
	}
	return &glyphLRU{
		capacity: capacity,
		items:    make(map[glyphKey]*list.Element),
		order:    list.New(),
	}
}

func (c *glyphLRU) get(key glyphKey) ([]pixelOffset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToBack(el)
		return el.Value.(*glyphEntry).pixels, true
	}
	return nil, false
}

func (c *glyphLRU) put(key glyphKey, pixels []pixelOffset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToBack(el)
		el.Value.(*glyphEntry).pixels = pixels
		return
	}
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Front(); oldest != nil {
			delete(c.items, oldest.Value.(*glyphEntry).key)
			c.order.Remove(oldest)
		}
	}
	el := c.order.PushBack(&glyphEntry{key: key, pixels: pixels})
	c.items[key] = el
}

// defaultGlyphCacheCapacity bounds the process-wide glyph cache: three
// typefaces times a small ASCII+box-glyph repertoire times a handful of
// distinct CPI/DPI scale combinations comfortably fits well under this.
const defaultGlyphCacheCapacity = 512

var sharedGlyphCache = newGlyphLRU(defaultGlyphCacheCapacity)

func quantize(v float64) int {
	return int(math.Round(v * 64))
}

// glyphPixels returns the lit-pixel offsets for rune r in typeface tf at
// the given per-axis scale, rasterizing and caching on first use.
func glyphPixels(tf font.Typeface, r rune, scaleX, scaleY float64) []pixelOffset {
	key := glyphKey{typeface: tf, r: r, scaleX: quantize(scaleX), scaleY: quantize(scaleY)}
	if px, ok := sharedGlyphCache.get(key); ok {
		return px
	}
	g := font.TableFor(tf).Lookup(r)
	var out []pixelOffset
	for gy := 0; gy < font.Height; gy++ {
		for gx := 0; gx < font.Width; gx++ {
			if !g.Bit(gx, gy) {
				continue
			}
			out = append(out, pixelOffset{
				dx: int(math.Round(float64(gx) * scaleX)),
				dy: int(math.Round(float64(gy) * scaleY)),
			})
		}
	}
	sharedGlyphCache.put(key, out)
	return out
}
