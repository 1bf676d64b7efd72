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

// Package ident implements the identifier service: stable structural keys
// for Go types, hashed external ids for names, and human-readable display
// names for diagnostics.
//
// Keys are FNV-1a hashes of a canonical type string ("pkgpath.Name" for
// named types, the reflect string otherwise), computed after container
// normalization, so *T, []T and T all key to the same record.
package ident

import (
	"path"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"

	"dirpx.dev/meta/apis"
	"dirpx.dev/meta/config"
	uref "dirpx.dev/meta/utils/reflect"
)

// FNV-1a 32-bit parameters.
const (
	offset32 = 2166136261
	prime32  = 16777619
)

// Hash returns the id of an arbitrary name. External ids assigned via the
// factory are typically produced here, mirroring hashed-string identifiers.
func Hash(s string) apis.ID {
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return apis.ID(h)
}

// New constructs the default apis.Keyer for the given configuration.
func New(cfg apis.Config) apis.Keyer {
	return keyer{cfg: cfg}
}

// keyer derives structural keys by normalizing types and hashing their
// canonical strings.
type keyer struct {
	cfg apis.Config
}

// Ensure keyer implements apis.Keyer.
var _ apis.Keyer = keyer{}

// Canon returns the normalized type the key is derived from. Types that do
// not normalize (anonymous shapes) key on themselves.
func (k keyer) Canon(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if n, err := uref.Normalize(t, k.cfg); err == nil {
		return n
	}
	return t
}

// KeyOf returns the structural key for t, or apis.Nil for a nil type.
func (k keyer) KeyOf(t reflect.Type) apis.ID {
	if t == nil {
		return apis.Nil
	}
	return Hash(canonical(k.Canon(t)))
}

// ArgsKey folds the ordered argument list into a single key. Argument types
// are deliberately not normalized: *T and T are distinct call shapes.
func (k keyer) ArgsKey(args []reflect.Type) apis.ID {
	h := uint32(offset32)
	for _, a := range args {
		s := "<nil>"
		if a != nil {
			s = canonical(a)
		}
		h = fold(h, s)
		h = fold(h, ";")
	}
	return apis.ID(h)
}

// fold mixes s into an in-progress FNV-1a state.
func fold(h uint32, s string) uint32 {
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}

// canonical returns the string a type's key is hashed from.
func canonical(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// DisplayName derives a short human-oriented name for t, e.g. "geom.point"
// for geom.Point. It is used in log fields and violation messages, never as
// a key.
func DisplayName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if n, err := uref.Normalize(t, config.DefaultConfig()); err == nil {
		t = n
	}
	name := stripTypeParams(t.Name())
	if name == "" {
		return t.String()
	}
	name = strcase.ToSnake(name)
	if p := t.PkgPath(); p != "" {
		return path.Base(p) + "." + name
	}
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
