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

// ID is a stable 32-bit identifier used throughout the registry.
//
// Two distinct identifier spaces share this type:
//
//   - Structural type keys, derived from a reflect.Type by a Keyer.
//   - External ids, chosen by the caller (typically a hashed name) and
//     assigned to a type record for named lookup.
//
// Both spaces are produced by the same hash so they can be mixed freely
// as map keys inside a Descriptor.
type ID uint32

// Nil is the zero ID. No well-formed type key or external id is ever Nil.
const Nil ID = 0

// Traits is a bitmask of member classification flags carried by data and
// function entries.
type Traits uint8

const (
	// TraitNone marks an entry with no flags set.
	TraitNone Traits = 0
	// TraitConst marks a read-only member.
	TraitConst Traits = 1 << 0
	// TraitStatic marks a member that is not bound to an instance
	// (free function or package-level variable used as accessor).
	TraitStatic Traits = 1 << 1
)

// Const reports whether the const flag is set.
func (t Traits) Const() bool { return t&TraitConst != 0 }

// Static reports whether the static flag is set.
func (t Traits) Static() bool { return t&TraitStatic != 0 }
