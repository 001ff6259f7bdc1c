package server

import (
	"container/list"

	"github.com/ironsheep/quad-finder-mcp/internal/pipeline"
)

// maxPipelines bounds how many pipelines the server keeps warm. Each one holds
// several width×height buffers, so per-call overrides and varying image sizes
// must not accumulate.
const maxPipelines = 4

// pipelineCache keeps the most recently used pipelines, keyed by options.
// It is not safe for concurrent use; the server guards it with its mutex.
type pipelineCache struct {
	capacity int
	order    *list.List // front is most recently used
	entries  map[pipeline.Options]*list.Element
}

type pipelineEntry struct {
	opts pipeline.Options
	p    *pipeline.Pipeline
}

func newPipelineCache(capacity int) *pipelineCache {
	if capacity < 1 {
		capacity = 1
	}
	return &pipelineCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[pipeline.Options]*list.Element, capacity),
	}
}

// Get returns the pipeline for opts and marks it as recently used.
func (c *pipelineCache) Get(opts pipeline.Options) (*pipeline.Pipeline, bool) {
	el, ok := c.entries[opts]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*pipelineEntry).p, true
}

// Add stores p under opts and returns how many older pipelines were dropped to
// stay within capacity.
func (c *pipelineCache) Add(opts pipeline.Options, p *pipeline.Pipeline) int {
	if el, ok := c.entries[opts]; ok {
		el.Value.(*pipelineEntry).p = p
		c.order.MoveToFront(el)
		return 0
	}

	c.entries[opts] = c.order.PushFront(&pipelineEntry{opts: opts, p: p})

	evicted := 0
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*pipelineEntry).opts)
		evicted++
	}
	return evicted
}

// Len returns the number of cached pipelines.
func (c *pipelineCache) Len() int {
	return c.order.Len()
}
