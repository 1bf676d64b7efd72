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

package factory

import (
	"reflect"

	"dirpx.dev/meta/adapt"
	"dirpx.dev/meta/apis"
)

// Adapter-backed registration: each method turns a plain Go field, method,
// variable, or callable into erased operations and delegates to the core
// operation. Adapter failures are registration errors and panic, matching
// the fail-fast contract of the core.

// Field registers an exported struct field as a data member.
func (f *Factory) Field(id apis.ID, name string) *Factory {
	entry, err := adapt.Field(f.rec.Type, name)
	if err != nil {
		panic(err)
	}
	return f.Data(id, entry)
}

// Var registers a package-level variable, addressed by pointer, as a static
// data member.
func (f *Factory) Var(id apis.ID, ptr any) *Factory {
	entry, err := adapt.Var(f.rec.Type, ptr)
	if err != nil {
		panic(err)
	}
	return f.Data(id, entry)
}

// ReadOnly registers a getter-only data member (arity 0, const).
func (f *Factory) ReadOnly(id apis.ID, getter any) *Factory {
	entry, err := adapt.ReadOnly(f.rec.Type, getter)
	if err != nil {
		panic(err)
	}
	return f.Data(id, entry)
}

// Accessors registers a data member through a setter/getter pair.
func (f *Factory) Accessors(id apis.ID, setter, getter any) *Factory {
	entry, err := adapt.Accessors(f.rec.Type, setter, getter)
	if err != nil {
		panic(err)
	}
	return f.Data(id, entry)
}

// AccessorsMulti registers a data member with several candidate setters
// tried in declaration order, and one getter.
func (f *Factory) AccessorsMulti(id apis.ID, setters []any, getter any) *Factory {
	ops, entry, err := adapt.AccessorsMulti(f.rec.Type, setters, getter)
	if err != nil {
		panic(err)
	}
	return f.DataMulti(id, ops, entry)
}

// Method registers a named method of the bound type as a function.
func (f *Factory) Method(id apis.ID, name string) *Factory {
	return f.MethodAs(id, name, apis.AsIs)
}

// MethodAs is Method with an explicit return policy.
func (f *Factory) MethodAs(id apis.ID, name string, p apis.Policy) *Factory {
	entry, err := adapt.Method(f.rec.Type, name, p)
	if err != nil {
		panic(err)
	}
	return f.Func(id, entry)
}

// FuncOf registers a free function. A first parameter of the bound type
// (by value or pointer) binds it to an instance; any other shape is static.
func (f *Factory) FuncOf(id apis.ID, fn any) *Factory {
	return f.FuncAs(id, fn, apis.AsIs)
}

// FuncAs is FuncOf with an explicit return policy.
func (f *Factory) FuncAs(id apis.ID, fn any, p apis.Policy) *Factory {
	entry, err := adapt.Func(f.rec.Type, fn, p)
	if err != nil {
		panic(err)
	}
	return f.Func(id, entry)
}

// CtorOf registers a factory function as a constructor, keyed by its
// argument list.
func (f *Factory) CtorOf(fn any) *Factory {
	return f.CtorAs(fn, apis.AsIs)
}

// CtorAs is CtorOf with an explicit return policy.
func (f *Factory) CtorAs(fn any, p apis.Policy) *Factory {
	op, args, err := adapt.Construct(f.rec.Type, fn, p)
	if err != nil {
		panic(err)
	}
	return f.Ctor(args, op)
}

// ConvTo registers a conversion callable, keyed by its result type.
func (f *Factory) ConvTo(fn any) *Factory {
	return f.ConvAs(fn, apis.AsIs)
}

// ConvAs is ConvTo with an explicit return policy.
func (f *Factory) ConvAs(fn any, p apis.Policy) *Factory {
	op, target, err := adapt.Convert(f.rec.Type, fn, p)
	if err != nil {
		panic(err)
	}
	return f.Conv(target, op)
}

// DtorOf registers a cleanup callable as the destructor.
func (f *Factory) DtorOf(fn any) *Factory {
	op, err := adapt.Destroy(f.rec.Type, fn)
	if err != nil {
		panic(err)
	}
	return f.Dtor(op)
}

// BaseOf registers base with the default synthesized upcast.
func (f *Factory) BaseOf(base reflect.Type) *Factory {
	return f.Base(base, nil)
}

// isAncestor reports whether base is a genuine ancestor of owner.
func isAncestor(owner, base reflect.Type) bool {
	return adapt.IsAncestor(owner, base)
}

// upcastFor synthesizes the default upcast from owner to base.
func upcastFor(owner, base reflect.Type) (apis.UpcastFunc, error) {
	return adapt.Upcast(owner, base)
}
