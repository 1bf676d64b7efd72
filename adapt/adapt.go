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

// Package adapt turns plain Go callables, struct fields, methods, and
// package-level variables into the type-erased operations the registry
// stores.
//
// Adapters validate shape and policy once, at registration time, and return
// an error on any mismatch; the erased operations they produce never
// allocate errors for shape problems again — a set that cannot apply simply
// reports false, an invoke with mismatched arguments returns an error value.
//
// Instances are passed to erased operations as any. Mutating operations
// (setters, destructors taking a pointer) require a pointer to the
// instance; handing them a value makes them report failure rather than
// mutate a hidden copy.
package adapt

import (
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrNotFunc is returned when a callable argument is not a func.
	ErrNotFunc = errors.New("meta(adapt): callable must be a func")
	// ErrVariadic is returned for variadic callables, which have no fixed arity.
	ErrVariadic = errors.New("meta(adapt): variadic callables are not supported")
	// ErrBadShape is returned when a callable's signature does not fit the
	// adapter's expected shape.
	ErrBadShape = errors.New("meta(adapt): callable signature does not fit")
)

// errorType is the reflect.Type of the error interface.
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// derefType strips pointer layers from a type.
func derefType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// funcValue validates that fn is a non-variadic func and returns its value
// and type.
func funcValue(fn any) (reflect.Value, reflect.Type, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return reflect.Value{}, nil, errors.Wrapf(ErrNotFunc, "got %T", fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return reflect.Value{}, nil, ErrVariadic
	}
	return v, t, nil
}

// acceptsOwner reports whether a parameter of type param can receive an
// instance of owner (by value or by pointer).
func acceptsOwner(param, owner reflect.Type) bool {
	if owner == nil || param == nil {
		return false
	}
	return param == owner || (param.Kind() == reflect.Ptr && param.Elem() == owner)
}

// coerce prepares value for a slot of type want, converting between
// compatible kinds. It reports failure instead of panicking.
func coerce(value any, want reflect.Type) (reflect.Value, bool) {
	if value == nil {
		switch want.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
			return reflect.Zero(want), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(want) {
		return v, true
	}
	if v.Type().ConvertibleTo(want) {
		return v.Convert(want), true
	}
	return reflect.Value{}, false
}

// receiver shapes instance into a value of type want (owner or *owner).
// When want is a pointer and only a value is available, a fresh addressable
// copy is taken: acceptable for reads, useless for writes.
func receiver(instance any, want reflect.Type) (reflect.Value, bool) {
	v := reflect.ValueOf(instance)
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if v.Type() == want {
		return v, true
	}
	if v.Kind() == reflect.Ptr && !v.IsNil() && v.Type().Elem() == want {
		return v.Elem(), true
	}
	if want.Kind() == reflect.Ptr && want.Elem() == v.Type() {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p, true
	}
	if v.Type().AssignableTo(want) {
		return v, true
	}
	return reflect.Value{}, false
}

// mutableReceiver is receiver without the copy fallback: when want is a
// pointer the caller must supply one, otherwise the write would land on a
// hidden copy.
func mutableReceiver(instance any, want reflect.Type) (reflect.Value, bool) {
	v := reflect.ValueOf(instance)
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if v.Type() == want {
		if want.Kind() == reflect.Ptr && v.IsNil() {
			return reflect.Value{}, false
		}
		return v, true
	}
	if v.Kind() == reflect.Ptr && !v.IsNil() && v.Type().Elem() == want {
		return v.Elem(), true
	}
	return reflect.Value{}, false
}
