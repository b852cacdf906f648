package fieldpath

import "container/list"

type lruEntry struct {
	path     string
	segments []Segment
}

// lruCache keeps the most recently parsed paths. Not safe for concurrent use.
type lruCache struct {
	items map[string]*list.Element
	order *list.List
	size  int
}

func newLruCache(size int) *lruCache {
	return &lruCache{
		items: make(map[string]*list.Element, size),
		order: list.New(),
		size:  size,
	}
}

func (c *lruCache) add(path string, segments []Segment) {
	if c.size <= 0 {
		return
	}
	if elem, ok := c.items[path]; ok {
		elem.Value = lruEntry{path: path, segments: segments}
		c.order.MoveToBack(elem)
		return
	}
	elem := c.order.PushBack(lruEntry{path: path, segments: segments})
	c.items[path] = elem
	if len(c.items) > c.size {
		front := c.order.Front()
		c.order.Remove(front)
		delete(c.items, front.Value.(lruEntry).path)
	}
}

func (c *lruCache) get(path string) ([]Segment, bool) {
	elem, ok := c.items[path]
	if !ok {
		return nil, false
	}
	c.order.MoveToBack(elem)
	return elem.Value.(lruEntry).segments, true
}

func (c *lruCache) len() int {
	return len(c.items)
}

func (c *lruCache) clear() {
	c.items = make(map[string]*list.Element, c.size)
	c.order.Init()
}
