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

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrPolicyMismatch is returned when a policy is incompatible with the
// return type it would wrap.
var ErrPolicyMismatch = errors.New("meta(apis): policy incompatible with value type")

// Policy constrains how an adapter wraps the value returned by a
// constructor, conversion, getter, or invocation.
//
// Policies are validated when an operation is adapted, not when it runs:
// an invalid combination is a registration error.
type Policy uint8

const (
	// AsIs passes return values through unchanged.
	AsIs Policy = iota
	// AsRef requires the returned value to be a reference kind
	// (pointer, map, slice, chan, func, or interface) so that callers
	// observe aliasing rather than a copy.
	AsRef
	// AsVoid discards the returned value.
	AsVoid
)

// String returns a short policy name for diagnostics.
func (p Policy) String() string {
	switch p {
	case AsIs:
		return "as-is"
	case AsRef:
		return "as-ref"
	case AsVoid:
		return "as-void"
	default:
		return "unknown"
	}
}

// Validate checks the policy against the type an operation returns.
// A nil type stands for void and is only compatible with AsIs and AsVoid.
func (p Policy) Validate(ret reflect.Type) error {
	if p != AsRef {
		return nil
	}
	if ret == nil {
		return fmt.Errorf("%w: as-ref cannot wrap a void return", ErrPolicyMismatch)
	}
	switch ret.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return nil
	}
	return fmt.Errorf("%w: as-ref requires a reference kind, got %s", ErrPolicyMismatch, ret.Kind())
}
