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

// Package factory provides the fluent registration session that populates
// a type's descriptor inside a context.
//
// A Factory is short-lived: open one for a type, chain registration calls,
// drop it. Every call mutates the shared descriptor immediately and moves
// the property attachment target (the bucket): type-level operations point
// it back at the type, data/func registrations point it at the entry just
// touched, so a following Prop call lands on the right owner.
//
// Registration mistakes are programming errors, not runtime conditions:
// assigning an external id another type already owns, or selecting an entry
// that does not exist, panics immediately. Everything else overwrites
// silently, last write wins.
package factory

import (
	"fmt"
	"reflect"

	"dirpx.dev/meta/apis"
	"dirpx.dev/meta/ident"
)

// Factory is a registration session bound to one type and one context.
type Factory struct {
	// ctx is the context owning the record.
	ctx apis.Context
	// rec is the bound type's record.
	rec *apis.TypeRecord
	// desc is the record's shared descriptor.
	desc *apis.Descriptor
	// parent is the bound type's structural key, constant for the session.
	parent apis.ID
	// bucket is the current property attachment target.
	bucket apis.ID
	// isData tells whether bucket names a data or a function entry;
	// meaningless while bucket == parent.
	isData bool
}

// New opens a session for t against ctx, creating the record on first use.
func New(ctx apis.Context, t reflect.Type) *Factory {
	rec := ctx.Ensure(t)
	return &Factory{
		ctx:    ctx,
		rec:    rec,
		desc:   rec.Desc,
		parent: rec.Key,
		bucket: rec.Key,
	}
}

// Of opens a session for the type parameter T.
func Of[T any](ctx apis.Context) *Factory {
	return New(ctx, reflect.TypeOf((*T)(nil)))
}

// Record returns the record the session is bound to.
func (f *Factory) Record() *apis.TypeRecord {
	return f.rec
}

// Type assigns the record's externally visible id. Re-assigning the same id
// is a no-op; claiming an id another record already owns is a fatal
// registration error.
func (f *Factory) Type(id apis.ID) *Factory {
	if other, ok := f.ctx.Resolve(id); ok && other.Key != f.parent {
		panic(fmt.Sprintf("meta(factory): duplicate identifier %#x: already assigned to %s", uint32(id), other.Name))
	}
	f.rec.ID = id
	f.bucket = f.parent
	return f
}

// Named assigns the hashed name as the external id and keeps the name as
// the record's display name.
func (f *Factory) Named(name string) *Factory {
	f.Type(ident.Hash(name))
	f.rec.Name = name
	return f
}

// Base registers base as an ancestor of the bound type, keyed by the base's
// structural key. The ancestry itself is validated here: the registry
// stores whatever upcast it is handed. A nil upcast synthesizes the default
// embedded-field or interface adjustment.
func (f *Factory) Base(base reflect.Type, up apis.UpcastFunc) *Factory {
	if up == nil {
		synth, err := upcastFor(f.rec.Type, base)
		if err != nil {
			panic(err)
		}
		up = synth
	} else if !isAncestor(f.rec.Type, base) {
		panic(fmt.Sprintf("meta(factory): %v is not a base of %s", base, f.rec.Name))
	}
	key := f.ctx.Keyer().KeyOf(base)
	f.desc.Bases[key] = &apis.BaseEntry{
		Type:   apis.TypeResolver(base),
		Upcast: up,
	}
	f.bucket = f.parent
	return f
}

// Conv registers a conversion to the target type, keyed by that type.
func (f *Factory) Conv(to reflect.Type, op apis.ConvertFunc) *Factory {
	f.desc.Convs[f.ctx.Keyer().KeyOf(to)] = &apis.ConvEntry{Conv: op}
	f.bucket = f.parent
	return f
}

// Ctor registers a constructor keyed by its ordered argument-type list.
// A zero-argument registration is a silent no-op: intrinsic default
// construction needs no explicit entry.
func (f *Factory) Ctor(args []reflect.Type, op apis.ConstructFunc) *Factory {
	f.bucket = f.parent
	if len(args) == 0 {
		return f
	}
	key := f.ctx.Keyer().ArgsKey(args)
	f.desc.Ctors[key] = &apis.CtorEntry{
		Arity:     len(args),
		Arg:       apis.ArgResolver(args),
		Construct: op,
	}
	return f
}

// Dtor overwrites the single destructor slot; last registration wins.
func (f *Factory) Dtor(op apis.DestroyFunc) *Factory {
	f.desc.Dtor = &apis.DtorEntry{Destroy: op}
	f.bucket = f.parent
	return f
}

// Data inserts or overwrites a data entry and selects it for properties.
func (f *Factory) Data(id apis.ID, entry apis.DataEntry) *Factory {
	e := entry
	if e.Props == nil {
		e.Props = make(map[apis.ID]*apis.PropEntry)
	}
	f.desc.Data[id] = &e
	f.isData = true
	f.bucket = id
	return f
}

// DataMulti inserts a data entry whose setter tries each candidate in
// declaration order and succeeds on the first one that applies. The entry's
// arity is the number of candidates, not of value elements.
func (f *Factory) DataMulti(id apis.ID, setters []apis.SetFunc, entry apis.DataEntry) *Factory {
	e := entry
	e.Arity = len(setters)
	candidates := append([]apis.SetFunc(nil), setters...)
	e.Set = func(instance, value any) bool {
		for _, set := range candidates {
			if set(instance, value) {
				return true
			}
		}
		return false
	}
	return f.Data(id, e)
}

// Func inserts a function entry under id, chaining overloads.
//
// If a chain already exists and one of its nodes carries the same callable
// fingerprint, that node is updated in place, keeping its position and the
// rest of the chain: re-registering the same callable never grows the
// chain. Otherwise the new entry becomes the head and the previous head its
// tail, so overloads are ordered most-recently-registered first.
func (f *Factory) Func(id apis.ID, entry apis.FuncEntry) *Factory {
	f.isData = false
	f.bucket = id

	node := entry
	if node.Props == nil {
		node.Props = make(map[apis.ID]*apis.PropEntry)
	}
	if node.Fingerprint == 0 && node.Invoke != nil {
		node.Fingerprint = reflect.ValueOf(node.Invoke).Pointer()
	}

	if head, ok := f.desc.Funcs[id]; ok {
		for curr := head; curr != nil; curr = curr.Next {
			if curr.Fingerprint == node.Fingerprint {
				node.Next = curr.Next
				*curr = node
				return f
			}
		}
		// locally overloaded function
		node.Next = head
	}
	f.desc.Funcs[id] = &node
	return f
}

// SelectData moves the property target to an existing data entry without
// modifying it. Selecting an unknown id is a fatal registration error.
func (f *Factory) SelectData(id apis.ID) *Factory {
	if _, ok := f.desc.Data[id]; !ok {
		panic(fmt.Sprintf("meta(factory): invalid identifier %#x: no data entry on %s", uint32(id), f.rec.Name))
	}
	f.isData = true
	f.bucket = id
	return f
}

// SelectFunc moves the property target to an existing function entry
// without modifying it. Selecting an unknown id is a fatal registration error.
func (f *Factory) SelectFunc(id apis.ID) *Factory {
	if _, ok := f.desc.Funcs[id]; !ok {
		panic(fmt.Sprintf("meta(factory): invalid identifier %#x: no function entry on %s", uint32(id), f.rec.Name))
	}
	f.isData = false
	f.bucket = id
	return f
}

// Prop attaches a key/value annotation to the current bucket: the type
// itself, or the data/function entry selected last. Last write wins.
func (f *Factory) Prop(key apis.ID, value any) *Factory {
	var t apis.TypeOf = apis.Void
	if value != nil {
		t = apis.TypeResolver(reflect.TypeOf(value))
	}
	f.attach(key, &apis.PropEntry{Type: t, Value: value})
	return f
}

// PropName is Prop with a hashed string key.
func (f *Factory) PropName(name string, value any) *Factory {
	return f.Prop(ident.Hash(name), value)
}

// PropTag attaches a valueless marker property to the current bucket.
func (f *Factory) PropTag(key apis.ID) *Factory {
	f.attach(key, &apis.PropEntry{Type: apis.Void})
	return f
}

// attach routes a property entry to the bucket's property map.
func (f *Factory) attach(key apis.ID, p *apis.PropEntry) {
	switch {
	case f.bucket == f.parent:
		f.desc.Props[key] = p
	case f.isData:
		f.desc.Data[f.bucket].Props[key] = p
	default:
		f.desc.Funcs[f.bucket].Props[key] = p
	}
}
