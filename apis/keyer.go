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

// Keyer is the identifier service: it maps types to stable structural keys.
// Keys must be deterministic for a given type across processes so that
// registrations from different call sites converge on one record.
type Keyer interface {
	// KeyOf returns the structural key for t. Wrapper shapes (pointer,
	// slice, etc.) normalize to the key of the nearest named type
	// according to the keyer's configuration.
	KeyOf(t reflect.Type) ID
	// ArgsKey returns the key of an ordered argument-type list. Two lists
	// with the same types in the same order always produce the same key.
	ArgsKey(args []reflect.Type) ID
	// Canon returns the normalized type KeyOf derives its key from.
	Canon(t reflect.Type) reflect.Type
}
