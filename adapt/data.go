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

package adapt

import (
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"dirpx.dev/meta/apis"
)

// Field adapts an exported struct field of owner into a data entry.
// Writes require a pointer instance; a value instance makes Set report false.
func Field(owner reflect.Type, name string) (apis.DataEntry, error) {
	owner = derefType(owner)
	if owner == nil || owner.Kind() != reflect.Struct {
		return apis.DataEntry{}, errors.Wrapf(ErrBadShape, "field accessor requires a struct owner, got %v", owner)
	}
	sf, ok := owner.FieldByName(name)
	if !ok {
		return apis.DataEntry{}, errors.Errorf("meta(adapt): %s has no field %q", owner, name)
	}
	if sf.PkgPath != "" {
		return apis.DataEntry{}, errors.Errorf("meta(adapt): field %s.%s is unexported", owner, name)
	}
	ft := sf.Type
	index := sf.Index
	return apis.DataEntry{
		// field members are never static
		Traits: apis.TraitNone,
		Arity:  1,
		Type:   apis.TypeResolver(ft),
		Arg:    apis.ArgResolver([]reflect.Type{ft}),
		Set: func(instance, value any) bool {
			fv, ok := fieldOf(instance, owner, index)
			if !ok || !fv.CanSet() {
				return false
			}
			val, ok := coerce(value, ft)
			if !ok {
				return false
			}
			fv.Set(val)
			return true
		},
		Get: func(instance any) any {
			fv, ok := fieldOf(instance, owner, index)
			if !ok {
				return nil
			}
			return fv.Interface()
		},
	}, nil
}

// fieldOf locates a field of owner inside instance, unwrapping pointers.
func fieldOf(instance any, owner reflect.Type, index []int) (reflect.Value, bool) {
	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != owner {
		return reflect.Value{}, false
	}
	return v.FieldByIndex(index), true
}

// Var adapts a package-level (or otherwise long-lived) variable, addressed
// by pointer, into a static data entry. A slot whose value type is the
// owning type itself is reported read-only: writing the owner into its own
// registry slot is assumed accidental.
func Var(owner reflect.Type, ptr any) (apis.DataEntry, error) {
	v := reflect.ValueOf(ptr)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() {
		return apis.DataEntry{}, errors.Wrap(ErrBadShape, "var accessor requires a non-nil pointer")
	}
	elem := v.Elem()
	et := elem.Type()
	traits := apis.TraitStatic
	if owner != nil && et == derefType(owner) {
		traits |= apis.TraitConst
	}
	readonly := traits.Const()
	return apis.DataEntry{
		Traits: traits,
		Arity:  1,
		Type:   apis.TypeResolver(et),
		Arg:    apis.ArgResolver([]reflect.Type{et}),
		Set: func(_, value any) bool {
			if readonly {
				return false
			}
			val, ok := coerce(value, et)
			if !ok {
				return false
			}
			elem.Set(val)
			return true
		},
		Get: func(_ any) any { return elem.Interface() },
	}, nil
}

// ReadOnly adapts a lone getter into a read-only data entry: arity 0, empty
// argument list, a setter that always reports false.
func ReadOnly(owner reflect.Type, getter any) (apis.DataEntry, error) {
	get, vt, traits, err := getterOp(owner, getter)
	if err != nil {
		return apis.DataEntry{}, err
	}
	return apis.DataEntry{
		Traits: traits | apis.TraitConst,
		Arity:  0,
		Type:   apis.TypeResolver(vt),
		Arg:    apis.ArgResolver(nil),
		Set:    func(_, _ any) bool { return false },
		Get:    get,
	}, nil
}

// Accessors adapts a setter/getter pair into a data entry. The entry is
// static only when neither accessor is bound to an instance.
func Accessors(owner reflect.Type, setter, getter any) (apis.DataEntry, error) {
	get, vt, gtr, err := getterOp(owner, getter)
	if err != nil {
		return apis.DataEntry{}, errors.Wrap(err, "getter")
	}
	set, at, str, err := setterOp(owner, setter)
	if err != nil {
		return apis.DataEntry{}, errors.Wrap(err, "setter")
	}
	var traits apis.Traits
	if gtr.Static() && str.Static() {
		traits = apis.TraitStatic
	}
	return apis.DataEntry{
		Traits: traits,
		Arity:  1,
		Type:   apis.TypeResolver(vt),
		Arg:    apis.ArgResolver([]reflect.Type{at}),
		Set:    set,
		Get:    get,
	}, nil
}

// AccessorsMulti adapts several candidate setters and one getter. It
// returns the ordered candidate operations separately so the factory can
// build the fallback chain; the entry carries the getter, the value type,
// and a per-candidate argument resolver. Validation failures across
// candidates are aggregated.
func AccessorsMulti(owner reflect.Type, setters []any, getter any) ([]apis.SetFunc, apis.DataEntry, error) {
	get, vt, _, err := getterOp(owner, getter)
	if err != nil {
		return nil, apis.DataEntry{}, errors.Wrap(err, "getter")
	}
	if len(setters) == 0 {
		return nil, apis.DataEntry{}, errors.Wrap(ErrBadShape, "multi-setter form requires at least one setter")
	}
	var (
		errs  error
		ops   = make([]apis.SetFunc, 0, len(setters))
		types = make([]reflect.Type, 0, len(setters))
	)
	for i, s := range setters {
		op, at, _, err := setterOp(owner, s)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "setter %d", i))
			continue
		}
		ops = append(ops, op)
		types = append(types, at)
	}
	if errs != nil {
		return nil, apis.DataEntry{}, errs
	}
	return ops, apis.DataEntry{
		// mixed accessor sets are treated as instance members
		Traits: apis.TraitNone,
		Arity:  len(ops),
		Type:   apis.TypeResolver(vt),
		Arg:    apis.ArgResolver(types),
		Get:    get,
	}, nil
}

// getterOp adapts a getter callable: func() V, func(T) V, or func(*T) V.
func getterOp(owner reflect.Type, getter any) (apis.GetFunc, reflect.Type, apis.Traits, error) {
	gv, gt, err := funcValue(getter)
	if err != nil {
		return nil, nil, apis.TraitNone, err
	}
	if gt.NumOut() != 1 {
		return nil, nil, apis.TraitNone, errors.Wrapf(ErrBadShape, "getter must return exactly one value, %s returns %d", gt, gt.NumOut())
	}
	var traits apis.Traits
	switch gt.NumIn() {
	case 0:
		traits = apis.TraitStatic
	case 1:
		if !acceptsOwner(gt.In(0), derefType(owner)) {
			return nil, nil, apis.TraitNone, errors.Wrapf(ErrBadShape, "getter %s is not bound to %v", gt, owner)
		}
	default:
		return nil, nil, apis.TraitNone, errors.Wrapf(ErrBadShape, "getter %s takes too many arguments", gt)
	}
	bound := gt.NumIn() == 1
	op := func(instance any) any {
		if !bound {
			return gv.Call(nil)[0].Interface()
		}
		rcv, ok := receiver(instance, gt.In(0))
		if !ok {
			return nil
		}
		return gv.Call([]reflect.Value{rcv})[0].Interface()
	}
	return op, gt.Out(0), traits, nil
}

// setterOp adapts a setter callable: func(V), func(*T, V), optionally
// returning bool or error to report applicability.
func setterOp(owner reflect.Type, setter any) (apis.SetFunc, reflect.Type, apis.Traits, error) {
	sv, st, err := funcValue(setter)
	if err != nil {
		return nil, nil, apis.TraitNone, err
	}
	if st.NumOut() > 1 || (st.NumOut() == 1 && st.Out(0).Kind() != reflect.Bool && st.Out(0) != errorType) {
		return nil, nil, apis.TraitNone, errors.Wrapf(ErrBadShape, "setter %s may only return bool or error", st)
	}
	var (
		traits apis.Traits
		argIdx int
	)
	switch st.NumIn() {
	case 1:
		traits = apis.TraitStatic
		argIdx = 0
	case 2:
		if !acceptsOwner(st.In(0), derefType(owner)) {
			return nil, nil, apis.TraitNone, errors.Wrapf(ErrBadShape, "setter %s is not bound to %v", st, owner)
		}
		argIdx = 1
	default:
		return nil, nil, apis.TraitNone, errors.Wrapf(ErrBadShape, "setter %s has unexpected arity", st)
	}
	vt := st.In(argIdx)
	op := func(instance, value any) bool {
		val, ok := coerce(value, vt)
		if !ok {
			return false
		}
		var out []reflect.Value
		if argIdx == 0 {
			out = sv.Call([]reflect.Value{val})
		} else {
			rcv, ok := mutableReceiver(instance, st.In(0))
			if !ok {
				return false
			}
			out = sv.Call([]reflect.Value{rcv, val})
		}
		return setResult(out)
	}
	return op, vt, traits, nil
}

// setResult interprets a setter's optional bool/error result.
func setResult(out []reflect.Value) bool {
	if len(out) == 0 {
		return true
	}
	r := out[0]
	if r.Kind() == reflect.Bool {
		return r.Bool()
	}
	return r.IsNil()
}
