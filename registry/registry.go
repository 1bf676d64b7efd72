/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package registry implements the reflection context: the mapping from
// structural type keys to type records.
//
// A Context deliberately carries no internal locking. The registry is
// optimized for a configure-once/read-many pattern: registration happens
// during an effectively single-threaded initialization phase, after which
// any number of readers may enumerate records concurrently. Callers that
// need to interleave writes with reads must wrap the Context externally.
package registry

import (
	"reflect"

	"go.uber.org/zap"

	"dirpx.dev/meta/apis"
	"dirpx.dev/meta/config"
	"dirpx.dev/meta/ident"
)

// Context is the default apis.Context implementation.
type Context struct {
	// keyer is the identifier service deriving structural keys.
	keyer apis.Keyer
	// log receives debug-level registration and reset events.
	log *zap.Logger
	// types maps structural keys to records.
	types map[apis.ID]*apis.TypeRecord
}

// Ensure Context implements apis.Context.
var _ apis.Context = (*Context)(nil)

// Option configures a Context during construction.
type Option func(*Context)

// WithKeyer replaces the default identifier service.
// Nil keyers are ignored.
func WithKeyer(k apis.Keyer) Option {
	return func(c *Context) {
		if k != nil {
			c.keyer = k
		}
	}
}

// WithLogger attaches a logger for debug-level registry events.
// Nil loggers are ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.log = l
		}
	}
}

// New constructs an empty Context. Without options it uses the default
// keyer configuration and a no-op logger.
func New(opts ...Option) *Context {
	c := &Context{
		keyer: ident.New(config.DefaultConfig()),
		log:   zap.NewNop(),
		types: make(map[apis.ID]*apis.TypeRecord),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Keyer returns the identifier service backing this context.
func (c *Context) Keyer() apis.Keyer {
	return c.keyer
}

// Ensure returns the record for t, creating an empty one on first use.
// The record's external id starts equal to its structural key and its
// descriptor is shared with every later Ensure call for the same type.
func (c *Context) Ensure(t reflect.Type) *apis.TypeRecord {
	key := c.keyer.KeyOf(t)
	if rec, ok := c.types[key]; ok {
		return rec
	}
	rec := &apis.TypeRecord{
		Key:  key,
		ID:   key,
		Type: c.keyer.Canon(t),
		Name: ident.DisplayName(t),
		Desc: apis.NewDescriptor(),
	}
	c.types[key] = rec
	c.log.Debug("meta: type record created",
		zap.Uint32("key", uint32(key)),
		zap.String("type", rec.Name),
	)
	return rec
}

// Lookup returns the record for t if present.
func (c *Context) Lookup(t reflect.Type) (*apis.TypeRecord, bool) {
	rec, ok := c.types[c.keyer.KeyOf(t)]
	return rec, ok
}

// LookupKey returns the record for a structural key if present.
func (c *Context) LookupKey(key apis.ID) (*apis.TypeRecord, bool) {
	rec, ok := c.types[key]
	return rec, ok
}

// Resolve returns a record by its externally visible id. The scan also
// matches records whose id was never overridden (id == key).
func (c *Context) Resolve(id apis.ID) (*apis.TypeRecord, bool) {
	for _, rec := range c.types {
		if rec.ID == id {
			return rec, true
		}
	}
	return nil, false
}

// Types returns a snapshot of all records (order is unspecified).
func (c *Context) Types() []*apis.TypeRecord {
	out := make([]*apis.TypeRecord, 0, len(c.types))
	for _, rec := range c.types {
		out = append(out, rec)
	}
	return out
}

// Count returns the number of records.
func (c *Context) Count() int {
	return len(c.types)
}

// ResetAll removes every record.
func (c *Context) ResetAll() {
	n := len(c.types)
	c.types = make(map[apis.ID]*apis.TypeRecord)
	c.log.Debug("meta: context reset", zap.Int("removed", n))
}

// ResetType removes only the record whose structural key matches t.
// Base links held by other records are not cleaned up: a dangling link's
// type resolver simply stops finding the removed record.
func (c *Context) ResetType(t reflect.Type) {
	key := c.keyer.KeyOf(t)
	if rec, ok := c.types[key]; ok {
		delete(c.types, key)
		c.log.Debug("meta: type record removed",
			zap.Uint32("key", uint32(key)),
			zap.String("type", rec.Name),
		)
	}
}

// ResetID removes every record whose external id equals id. Id uniqueness
// is enforced at assignment time, so at most one record matches in a
// well-formed context; the full scan stays as a safety net against a
// violated invariant.
func (c *Context) ResetID(id apis.ID) {
	removed := 0
	for key, rec := range c.types {
		if rec.ID == id {
			delete(c.types, key)
			removed++
		}
	}
	if removed > 0 {
		c.log.Debug("meta: records removed by id",
			zap.Uint32("id", uint32(id)),
			zap.Int("removed", removed),
		)
	}
}
