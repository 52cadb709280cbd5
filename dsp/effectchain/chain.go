package effectchain

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-blockfx/dsp/core"
)

// ErrUnknownEffect is returned when a node references an unregistered effect type.
var ErrUnknownEffect = errors.New("effectchain: unknown effect type")

type nodeRuntime struct {
	params  Params
	runtime Runtime
}

// Chain applies an ordered list of effect runtimes to one block at a time.
// The output of each node is the input of the next. A Chain is not safe for
// concurrent use; calls must follow signal order.
type Chain struct {
	ctx      Context
	registry *Registry
	log      logrus.FieldLogger

	nodes []*nodeRuntime
	bufA  []float64
	bufB  []float64
}

// Option configures a Chain.
type Option func(*Chain)

// WithLogger sets the logger used for node lifecycle events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Chain) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates an empty Chain with the given context and registry.
func New(ctx Context, registry *Registry, opts ...Option) *Chain {
	c := &Chain{
		ctx:      ctx,
		registry: registry,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// NewFromPreset builds a chain for the preset's context and configures it.
func NewFromPreset(p Preset, registry *Registry, opts ...Option) (*Chain, error) {
	c := New(p.Context(), registry, opts...)
	if err := c.Configure(p.Params()); err != nil {
		return nil, err
	}

	return c, nil
}

// Context returns the current chain context.
func (c *Chain) Context() Context {
	return c.ctx
}

// SetContext updates the context and reconfigures every node. Runtimes
// whose sizing depends on the context rebuild their state. On error the
// previous context is kept.
func (c *Chain) SetContext(ctx Context) error {
	params := make([]Params, len(c.nodes))
	for i, n := range c.nodes {
		params[i] = n.params
	}

	prev := c.ctx
	c.ctx = ctx
	if err := c.Configure(params); err != nil {
		c.ctx = prev
		return err
	}

	return nil
}

// Configure synchronizes the chain with params. Nodes that keep their ID and
// type keep their runtime and only receive the new parameters; new or
// type-changed nodes are created; nodes that are no longer listed are
// dropped. On error the previous node list is kept.
func (c *Chain) Configure(params []Params) error {
	if err := (core.ProcessorConfig{SampleRate: c.ctx.SampleRate, BlockSize: c.ctx.BlockSize}).Validate(); err != nil {
		return fmt.Errorf("effectchain: %w", err)
	}

	existing := make(map[string]*nodeRuntime, len(c.nodes))
	for _, n := range c.nodes {
		existing[n.params.ID] = n
	}

	next := make([]*nodeRuntime, 0, len(params))
	seen := make(map[string]struct{}, len(params))

	for _, p := range params {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidPreset, p.ID)
		}
		seen[p.ID] = struct{}{}

		rt := existing[p.ID]
		if rt == nil || rt.params.Type != p.Type {
			runtime, err := c.newRuntime(p.Type)
			if err != nil {
				return fmt.Errorf("effectchain: node %q: %w", p.ID, err)
			}

			rt = &nodeRuntime{runtime: runtime}
			c.log.WithFields(logrus.Fields{"node": p.ID, "type": p.Type}).Debug("effect node created")
		}

		if err := rt.runtime.Configure(c.ctx, p); err != nil {
			return fmt.Errorf("effectchain: configure node %q (%s): %w", p.ID, p.Type, err)
		}

		rt.params = p
		next = append(next, rt)
	}

	for id := range existing {
		if _, ok := seen[id]; !ok {
			c.log.WithField("node", id).Debug("effect node removed")
		}
	}

	c.nodes = next
	c.bufA = make([]float64, c.ctx.BlockSize)
	c.bufB = make([]float64, c.ctx.BlockSize)

	return nil
}

// Len returns the number of nodes, bypassed ones included.
func (c *Chain) Len() int {
	return len(c.nodes)
}

// NodeRuntime returns the Runtime for the given node ID, or nil.
func (c *Chain) NodeRuntime(nodeID string) Runtime {
	for _, n := range c.nodes {
		if n.params.ID == nodeID {
			return n.runtime
		}
	}

	return nil
}

// SetBypassed toggles a node without touching its state.
func (c *Chain) SetBypassed(nodeID string, bypassed bool) bool {
	for _, n := range c.nodes {
		if n.params.ID == nodeID {
			n.params.Bypassed = bypassed
			return true
		}
	}

	return false
}

// Process runs one block through the chain and returns a new block.
func (c *Chain) Process(block []float64) (core.Block, error) {
	out := core.NewBlock(len(block))
	if err := c.ProcessTo(out, block); err != nil {
		return nil, err
	}

	return out, nil
}

// ProcessTo runs src through every active node and writes the result to dst.
// src must hold exactly BlockSize samples. dst may alias src. A node error
// stops processing and is returned; the block is then undefined.
func (c *Chain) ProcessTo(dst, src []float64) error {
	if err := core.Block(src).CheckLen(c.ctx.BlockSize); err != nil {
		return fmt.Errorf("effectchain: input: %w", err)
	}
	if err := core.Block(dst).CheckLen(c.ctx.BlockSize); err != nil {
		return fmt.Errorf("effectchain: output: %w", err)
	}

	cur, next := c.bufA, c.bufB
	copy(cur, src)

	for _, n := range c.nodes {
		if n.params.Bypassed {
			continue
		}

		if err := n.runtime.Process(next, cur); err != nil {
			return fmt.Errorf("effectchain: process node %q: %w", n.params.ID, err)
		}

		cur, next = next, cur
	}

	copy(dst, cur)

	return nil
}

// Reset clears the signal state of every node that supports it.
func (c *Chain) Reset() {
	for _, n := range c.nodes {
		if r, ok := n.runtime.(Resetter); ok {
			r.Reset()
		}
	}
}

func (c *Chain) newRuntime(effectType string) (Runtime, error) {
	factory := c.registry.Lookup(effectType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, effectType)
	}

	return factory(c.ctx)
}
