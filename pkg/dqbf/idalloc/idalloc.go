// Package idalloc allocates fresh propositional variable ids on top of
// a monotone watermark. It is the single writer of new ids consulted
// by every other component; see spec §4.1 and §5.
package idalloc

import "github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"

// Counter hands out strictly increasing variable ids. It never
// reclaims an id once issued.
type Counter struct {
	watermark prop.ID
}

// New returns a Counter whose first allocation is maxID+1.
func New(maxID prop.ID) *Counter {
	return &Counter{watermark: maxID}
}

// Next returns a fresh id and advances the watermark.
func (c *Counter) Next() prop.ID {
	c.watermark++
	return c.watermark
}

// Watermark returns the highest id issued so far (or the construction
// maximum if nothing has been allocated yet).
func (c *Counter) Watermark() prop.ID {
	return c.watermark
}
