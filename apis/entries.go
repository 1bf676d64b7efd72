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

package apis

import "reflect"

// PropEntry is a free-form key/value annotation attached to a type record,
// a data entry, or a function entry. A marker property carries no value and
// resolves to a void type.
type PropEntry struct {
	// Type resolves the property value type (Void for markers).
	Type TypeOf
	// Value is the owned copy of the property value, nil for markers.
	Value any
}

// BaseEntry links a type to one of its bases.
type BaseEntry struct {
	// Type resolves the base type.
	Type TypeOf
	// Upcast adjusts a derived instance to the base view.
	Upcast UpcastFunc
}

// ConvEntry describes a conversion from a type to a target type.
type ConvEntry struct {
	// Conv converts an instance into an erased value of the target type.
	Conv ConvertFunc
}

// CtorEntry describes one way to construct a type, keyed by its ordered
// argument-type list.
type CtorEntry struct {
	// Arity is the number of arguments the constructor takes.
	Arity int
	// Arg resolves per-argument types.
	Arg ArgOf
	// Construct produces an erased instance.
	Construct ConstructFunc
}

// DtorEntry holds the single optional cleanup operation of a type.
type DtorEntry struct {
	// Destroy is invoked before an instance is dropped.
	Destroy DestroyFunc
}

// DataEntry describes one reflected data member.
type DataEntry struct {
	// Traits carries the const/static classification.
	Traits Traits
	// Arity is 1 for plain members, 0 for read-only members, and the
	// number of candidate setters for the multi-setter form.
	Arity int
	// Type resolves the member value type.
	Type TypeOf
	// Arg resolves setter argument types.
	Arg ArgOf
	// Set assigns a value, reporting success. For the multi-setter form
	// it tries each candidate in declaration order.
	Set SetFunc
	// Get reads the member value.
	Get GetFunc
	// Props holds per-entry annotations.
	Props map[ID]*PropEntry
}

// FuncEntry describes one callable alternative of a reflected function.
// Entries sharing an id form a singly linked overload chain ordered
// most-recently-registered first.
type FuncEntry struct {
	// Traits carries the const/static classification.
	Traits Traits
	// Arity is the number of arguments the function takes, excluding
	// the instance.
	Arity int
	// Ret resolves the return type (Void when the function returns
	// nothing or the as-void policy applies).
	Ret TypeOf
	// Arg resolves per-argument types.
	Arg ArgOf
	// Invoke calls the function.
	Invoke InvokeFunc
	// Fingerprint identifies the underlying callable. Go function values
	// are not comparable, so adapters record the code pointer of the
	// source callable here; re-registering the same callable updates its
	// chain node in place instead of growing the chain.
	Fingerprint uintptr
	// Next links the rest of the overload chain.
	Next *FuncEntry
	// Props holds per-entry annotations.
	Props map[ID]*PropEntry
}

// Descriptor is the extensible part of a type record. It is shared: every
// builder session for the same type, in the same context, mutates one
// descriptor instance.
type Descriptor struct {
	// Bases maps base-type keys to base links.
	Bases map[ID]*BaseEntry
	// Convs maps target-type keys to conversions.
	Convs map[ID]*ConvEntry
	// Ctors maps argument-list keys to constructors.
	Ctors map[ID]*CtorEntry
	// Dtor is the single optional destructor; last registration wins.
	Dtor *DtorEntry
	// Data maps member ids to data entries.
	Data map[ID]*DataEntry
	// Funcs maps function ids to overload chain heads.
	Funcs map[ID]*FuncEntry
	// Props holds type-level annotations.
	Props map[ID]*PropEntry
}

// NewDescriptor returns an empty descriptor with all maps allocated.
func NewDescriptor() *Descriptor {
	return &Descriptor{
		Bases: make(map[ID]*BaseEntry),
		Convs: make(map[ID]*ConvEntry),
		Ctors: make(map[ID]*CtorEntry),
		Data:  make(map[ID]*DataEntry),
		Funcs: make(map[ID]*FuncEntry),
		Props: make(map[ID]*PropEntry),
	}
}

// TypeRecord is the per-type entry of a Context.
type TypeRecord struct {
	// Key is the structural key derived from Type by the context's Keyer.
	Key ID
	// ID is the externally visible identifier, equal to Key until a
	// builder session assigns a custom one.
	ID ID
	// Type is the reflected (normalized) Go type.
	Type reflect.Type
	// Name is a human-readable name for diagnostics and logging.
	Name string
	// Desc is the shared descriptor holding all extensible parts.
	Desc *Descriptor
}
