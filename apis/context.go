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

// Context owns the mapping from structural type keys to type records.
//
// A context performs no internal locking: the expected usage pattern is a
// single-threaded registration phase followed by a read-many query phase.
// Concurrent reads with no writer are safe; anything else requires external
// synchronization.
type Context interface {
	// Ensure returns the record for t, creating an empty one on first use.
	// Idempotent.
	Ensure(t reflect.Type) *TypeRecord
	// Lookup returns the record for t if present.
	Lookup(t reflect.Type) (*TypeRecord, bool)
	// LookupKey returns the record for a structural key if present.
	LookupKey(key ID) (*TypeRecord, bool)
	// Resolve returns a record by its externally visible id.
	Resolve(id ID) (*TypeRecord, bool)
	// Types returns a snapshot of all records (order is unspecified).
	Types() []*TypeRecord
	// Count returns the number of records.
	Count() int
	// ResetAll removes every record.
	ResetAll()
	// ResetType removes the record whose structural key matches t.
	// Base links held by other records are left dangling and inert.
	ResetType(t reflect.Type)
	// ResetID removes every record whose external id equals id. Ids are
	// unique at assignment time, so this removes at most one record in a
	// well-formed context; the scan is kept as a safety net regardless.
	ResetID(id ID)
	// Keyer returns the identifier service backing this context.
	Keyer() Keyer
}
