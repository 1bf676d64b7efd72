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

// The registry stores type-erased operations behind a uniform calling
// convention and never inspects or constructs them itself; the adapt
// package (or any external adapter) produces them.
//
// Instances are passed as plain any values. Adapters that mutate an
// instance expect a pointer to it; read-only adapters accept either form.

// TypeOf lazily resolves the reflect.Type of a value, return, or property
// slot. A nil result means void (no type).
type TypeOf func() reflect.Type

// ArgOf resolves the reflect.Type of the i-th argument of an operation.
// It returns nil when i is out of range.
type ArgOf func(i int) reflect.Type

// UpcastFunc adjusts a derived instance to a view of one of its bases.
// The returned value is read-only from the registry's point of view.
type UpcastFunc func(instance any) any

// ConvertFunc converts an instance into an erased value of the target type.
type ConvertFunc func(instance any) any

// ConstructFunc produces an erased instance from erased arguments.
type ConstructFunc func(args ...any) (any, error)

// DestroyFunc releases resources held by an instance before it is dropped.
type DestroyFunc func(instance any)

// SetFunc assigns an erased value to a member of an instance.
// It reports whether the assignment took place.
type SetFunc func(instance, value any) bool

// GetFunc reads a member value from an instance.
type GetFunc func(instance any) any

// InvokeFunc calls a member or free function on an instance with erased
// arguments. Static functions ignore the instance.
type InvokeFunc func(instance any, args ...any) (any, error)

// Void is the type resolver stored by marker properties and void returns.
var Void TypeOf = func() reflect.Type { return nil }

// TypeResolver returns a TypeOf that always yields t.
func TypeResolver(t reflect.Type) TypeOf {
	return func() reflect.Type { return t }
}

// ArgResolver returns an ArgOf over the given ordered argument list.
func ArgResolver(args []reflect.Type) ArgOf {
	return func(i int) reflect.Type {
		if i < 0 || i >= len(args) {
			return nil
		}
		return args[i]
	}
}
