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

// Package meta provides a runtime reflection registry: a process- or
// context-scoped description of types — their bases, conversions,
// constructors, destructor, data members, functions, and free-form
// properties — that later code can enumerate and invoke without static
// knowledge of the type.
//
// # Design
//
// The registry is split into small layers:
//
//   - Keyer (package ident): derives a stable 32-bit structural key for
//     any Go type, and hashes caller-chosen names into external ids.
//     Wrapper shapes normalize first, so *T, []T and T converge on one key.
//
//   - Context (package registry): the mapping from structural keys to type
//     records. Each record owns a shared descriptor holding the extensible
//     parts; repeated registration sessions for the same type, from any
//     call site, converge on that one descriptor.
//
//   - Factory (package factory): a short-lived fluent session bound to one
//     type and one context. It populates the descriptor and tracks the
//     current property attachment target, so annotations land on the type,
//     data member, or function registered last.
//
//   - Adapters (package adapt): turn plain Go fields, methods, variables,
//     and callables into the type-erased operations the registry stores.
//     The registry itself only indexes these operations.
//
// This package ties the layers together around a process-wide default
// context, managed as a read-mostly snapshot behind an atomic pointer,
// exactly like other process-wide services in this codebase: readers load
// the snapshot without locks, writers assemble a new snapshot under a
// short build mutex and publish it atomically.
//
// # Usage
//
// A typical registration phase runs once at startup:
//
//	meta.Of[Point]().
//	    Named("point").
//	    Field(meta.ID("x"), "X").
//	    Field(meta.ID("y"), "Y").
//	    PropName("category", "geometry").
//	    CtorOf(NewPoint)
//
// after which consumers enumerate and invoke through the records:
//
//	rec, ok := meta.ResolveName("point")
//	entry := rec.Desc.Data[meta.ID("x")]
//	entry.Set(&p, 3)
//
// Overloading is supported: registering several callables under one
// function id builds a chain ordered most-recently-registered first, and
// re-registering a callable already in the chain updates it in place
// instead of growing the chain.
//
// # Concurrency model
//
// The global snapshot accessors (Reflect, Context, Resolve, ...) are
// wait-free reads of an atomic pointer. The Context they hand out, however,
// performs no internal locking by design: the registry assumes a
// configure-once/read-many pattern, where registration happens during an
// effectively single-threaded initialization phase and everything after is
// read-only. Concurrent reads with no writer are safe; interleaving writes
// with reads requires external synchronization around the Context.
//
// # Error handling
//
// Registration mistakes are programming errors and fail fast:
//
//   - assigning an external id that a different type already owns panics
//     (duplicate identifier);
//   - selecting a data or function entry that does not exist panics
//     (invalid identifier).
//
// Everything else overwrites silently: re-registering a base, conversion,
// constructor, destructor, data member, or property with the same key
// replaces the previous entry (functions chain as overloads instead).
// Adapter shape mismatches surface as errors from package adapt and panic
// when reached through the factory's sugar methods.
//
// # Resets
//
// ResetAll, ResetType, and ResetID support hot-reload and test-teardown
// scenarios. Removing a type does not clean up base links other types hold
// toward it; such links become inert — their target simply stops resolving —
// and downstream consumers must tolerate them.
//
// # Scope
//
// meta stores and indexes type-erased operations; it does not define their
// calling contract beyond the uniform signatures in package apis, does not
// parse source code, does not discover members automatically, and does not
// serialize anything. Those concerns belong to higher layers.
package meta
