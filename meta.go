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

package meta

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/meta/apis"
	"dirpx.dev/meta/builder"
	"dirpx.dev/meta/config"
	"dirpx.dev/meta/factory"
	"dirpx.dev/meta/ident"
)

// init initializes the global snapshot state.
func init() {
	// Initialize state with default cfg, keyer, and ctx.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.key = b.BuildKeyer(s.cfg, nil)
	s.ctx = b.BuildContext(s.cfg, s.key, nil, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilKeyer is returned when a builder returns a nil keyer.
	ErrNilKeyer = errors.New("meta: builder returned nil keyer")
	// ErrNilContext is returned when a builder returns a nil context.
	ErrNilContext = errors.New("meta: builder returned nil context")
)

// ID returns the hashed id of a name. Ids produced here are the usual
// currency for external type ids, member ids, and property keys.
func ID(name string) apis.ID {
	return ident.Hash(name)
}

// Reflect opens a registration session for v's dynamic type against the
// default context, creating the type record on first use.
// This is a convenience wrapper around the global ctx.
func Reflect(v any) *factory.Factory {
	return factory.New(st.Load().ctx, reflect.TypeOf(v))
}

// ReflectType opens a registration session for the reflect.Type t against
// the default context.
// This is a convenience wrapper around the global ctx.
func ReflectType(t reflect.Type) *factory.Factory {
	return factory.New(st.Load().ctx, t)
}

// Of opens a registration session for the type parameter T against the
// default context.
func Of[T any]() *factory.Factory {
	return factory.Of[T](st.Load().ctx)
}

// Lookup returns the default context's record for t if present.
func Lookup(t reflect.Type) (*apis.TypeRecord, bool) {
	return st.Load().ctx.Lookup(t)
}

// Resolve returns the default context's record with the given external id.
func Resolve(id apis.ID) (*apis.TypeRecord, bool) {
	return st.Load().ctx.Resolve(id)
}

// ResolveName is Resolve with a hashed string id.
func ResolveName(name string) (*apis.TypeRecord, bool) {
	return st.Load().ctx.Resolve(ident.Hash(name))
}

// ResetAll removes every record from the default context.
func ResetAll() {
	st.Load().ctx.ResetAll()
}

// ResetType removes the default context's record for t, if any.
func ResetType(t reflect.Type) {
	st.Load().ctx.ResetType(t)
}

// ResetID removes every default-context record carrying the external id.
func ResetID(id apis.ID) {
	st.Load().ctx.ResetID(id)
}

// Config returns the global meta configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global meta configuration to cfg.
// It rebuilds the non-pinned keyer and context using the new configuration.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(derive(old, cfg, old.ext, old.bld))
}

// Keyer returns the global identifier service.
func Keyer() apis.Keyer {
	return st.Load().key
}

// SetKeyer sets the global identifier service to k and pins it.
// The non-pinned context is rebuilt against the new keyer.
func SetKeyer(k apis.Keyer) {
	if k == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	nctx := old.ctx
	if !old.pctx {
		nctx = old.bld.BuildContext(old.cfg, k, old.ctx, old.ext)
	}
	if nctx == nil {
		panic(ErrNilContext)
	}

	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			key:  k,
			ctx:  nctx,
			bld:  old.bld,
			pkey: true,
			pctx: old.pctx,
		},
	)
}

// Context returns the global default context.
func Context() apis.Context {
	return st.Load().ctx
}

// SetContext sets the global default context to ctx and pins it.
func SetContext(ctx apis.Context) {
	if ctx == nil {
		return
	}
	mutate(func(s *state) {
		s.ctx = ctx
		s.pctx = true
	})
}

// Builder returns the global meta builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global meta builder to b and rebuilds the non-pinned
// keyer and context through it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(derive(old, old.cfg, old.ext, b))
}

// SetExt replaces extension config and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(derive(old, old.cfg, ext, old.bld))
}

// ExtAs returns the global meta extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// SetAll explicitly sets all global meta state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced. Passing a nil keyer or context
// rebuilds (and unpins) that layer; passing one explicitly pins it.
func SetAll(cfg *apis.Config, ext any, key apis.Keyer, ctx apis.Context, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Keyer
	nkey := key
	npkey := false
	if nkey == nil {
		nkey = nbld.BuildKeyer(ncfg, ext)
	} else {
		npkey = true
	}

	// Context
	nctx := ctx
	npctx := false
	if nctx == nil {
		nctx = nbld.BuildContext(ncfg, nkey, old.ctx, ext)
	} else {
		npctx = true
	}

	// Ensure non-nil keyer and context.
	if nkey == nil {
		panic(ErrNilKeyer)
	}
	if nctx == nil {
		panic(ErrNilContext)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  ncfg,
			ext:  ext,
			key:  nkey,
			ctx:  nctx,
			bld:  nbld,
			pkey: npkey,
			pctx: npctx,
		},
	)
}

// IsKeyerPinned returns whether the global keyer is pinned (immutable).
func IsKeyerPinned() bool {
	return st.Load().pkey
}

// PinKeyer makes the global keyer immutable.
func PinKeyer() {
	mutate(func(s *state) { s.pkey = true })
}

// UnpinKeyer makes the global keyer rebuildable again.
func UnpinKeyer() {
	mutate(func(s *state) { s.pkey = false })
}

// IsContextPinned returns whether the global context is pinned (immutable).
func IsContextPinned() bool {
	return st.Load().pctx
}

// PinContext makes the global context immutable.
func PinContext() {
	mutate(func(s *state) { s.pctx = true })
}

// UnpinContext makes the global context rebuildable again.
func UnpinContext() {
	mutate(func(s *state) { s.pctx = false })
}

// derive builds a new snapshot from old with the given overrides,
// rebuilding non-pinned layers through the builder. Callers hold buildMu.
func derive(old *state, cfg apis.Config, ext any, bld apis.Builder) *state {
	nkey := old.key
	if !old.pkey {
		nkey = bld.BuildKeyer(cfg, ext)
	}
	nctx := old.ctx
	if !old.pctx {
		nctx = bld.BuildContext(cfg, nkey, old.ctx, ext)
	}

	// Ensure non-nil keyer and context.
	if nkey == nil {
		panic(ErrNilKeyer)
	}
	if nctx == nil {
		panic(ErrNilContext)
	}

	return &state{
		cfg:  cfg,
		ext:  ext,
		key:  nkey,
		ctx:  nctx,
		bld:  bld,
		pkey: old.pkey,
		pctx: old.pctx,
	}
}

// mutate copies the current snapshot, applies fn, and publishes the copy.
func mutate(fn func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	ns := *old
	fn(&ns)
	st.Store(&ns)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global meta state.
var st atomic.Pointer[state]

// state is the global meta state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global meta configuration.
	cfg apis.Config
	// ext is the global meta extension configuration.
	ext any
	// key is the global identifier service.
	key apis.Keyer
	// ctx is the global default context.
	ctx apis.Context
	// bld is the global meta builder.
	bld apis.Builder
	// pkey indicates whether the keyer is pinned (immutable).
	pkey bool
	// pctx indicates whether the context is pinned (immutable).
	pctx bool
}
