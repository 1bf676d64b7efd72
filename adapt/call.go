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

	"dirpx.dev/meta/apis"
)

// Construct adapts a factory function into an erased constructor. The
// function must return owner (or *owner), optionally followed by an error.
// The policy is validated against the return type at adaptation time.
func Construct(owner reflect.Type, fn any, p apis.Policy) (apis.ConstructFunc, []reflect.Type, error) {
	v, t, err := funcValue(fn)
	if err != nil {
		return nil, nil, err
	}
	if t.NumOut() < 1 || t.NumOut() > 2 {
		return nil, nil, errors.Wrapf(ErrBadShape, "constructor %s must return the instance, optionally with an error", t)
	}
	if t.NumOut() == 2 && t.Out(1) != errorType {
		return nil, nil, errors.Wrapf(ErrBadShape, "constructor %s second result must be error", t)
	}
	out := t.Out(0)
	if derefType(out) != derefType(owner) {
		return nil, nil, errors.Errorf("meta(adapt): constructor %s does not return %v", t, owner)
	}
	if err := p.Validate(out); err != nil {
		return nil, nil, err
	}
	args := make([]reflect.Type, t.NumIn())
	for i := range args {
		args[i] = t.In(i)
	}
	hasErr := t.NumOut() == 2
	op := func(in ...any) (any, error) {
		vals, err := callArgs(t, in, 0)
		if err != nil {
			return nil, err
		}
		res := v.Call(vals)
		if hasErr && !res[1].IsNil() {
			return nil, res[1].Interface().(error)
		}
		if p == apis.AsVoid {
			return nil, nil
		}
		return res[0].Interface(), nil
	}
	return op, args, nil
}

// Func adapts a free function into a function entry. A first parameter of
// type owner or *owner binds the function to an instance; a value-typed
// first parameter additionally marks the entry const, since the callee
// cannot mutate the caller's instance. Any other shape is static.
//
// Supported result shapes: none, (R), (error), (R, error).
func Func(owner reflect.Type, fn any, p apis.Policy) (apis.FuncEntry, error) {
	v, t, err := funcValue(fn)
	if err != nil {
		return apis.FuncEntry{}, err
	}

	bound := t.NumIn() > 0 && acceptsOwner(t.In(0), derefType(owner))
	var traits apis.Traits
	if !bound {
		traits |= apis.TraitStatic
	} else if t.In(0).Kind() != reflect.Ptr {
		traits |= apis.TraitConst
	}

	first := 0
	if bound {
		first = 1
	}
	args := make([]reflect.Type, 0, t.NumIn()-first)
	for i := first; i < t.NumIn(); i++ {
		args = append(args, t.In(i))
	}

	ret, hasErr, err := returnShape(t)
	if err != nil {
		return apis.FuncEntry{}, err
	}
	if err := p.Validate(ret); err != nil {
		return apis.FuncEntry{}, err
	}
	retOf := apis.Void
	if ret != nil && p != apis.AsVoid {
		retOf = apis.TypeResolver(ret)
	}

	invoke := func(instance any, in ...any) (any, error) {
		vals, err := callArgs(t, in, first)
		if err != nil {
			return nil, err
		}
		if bound {
			rcv, ok := receiver(instance, t.In(0))
			if !ok {
				return nil, errors.Errorf("meta(adapt): cannot use %T as %s", instance, t.In(0))
			}
			vals[0] = rcv
		}
		res := v.Call(vals)
		if hasErr && !res[len(res)-1].IsNil() {
			return nil, res[len(res)-1].Interface().(error)
		}
		if ret == nil || p == apis.AsVoid {
			return nil, nil
		}
		return res[0].Interface(), nil
	}

	return apis.FuncEntry{
		Traits:      traits,
		Arity:       len(args),
		Ret:         retOf,
		Arg:         apis.ArgResolver(args),
		Invoke:      invoke,
		Fingerprint: v.Pointer(),
	}, nil
}

// Method adapts a named method of owner. Methods with value receivers are
// marked const.
func Method(owner reflect.Type, name string, p apis.Policy) (apis.FuncEntry, error) {
	base := derefType(owner)
	if base == nil {
		return apis.FuncEntry{}, errors.Wrap(ErrBadShape, "method adapter requires an owner type")
	}
	m, ok := reflect.PtrTo(base).MethodByName(name)
	if !ok {
		return apis.FuncEntry{}, errors.Errorf("meta(adapt): %s has no method %q", base, name)
	}
	entry, err := Func(base, m.Func.Interface(), p)
	if err != nil {
		return apis.FuncEntry{}, errors.Wrapf(err, "method %q", name)
	}
	// The promoted form always takes *T; restore constness for value receivers.
	if _, valueRecv := base.MethodByName(name); valueRecv {
		entry.Traits |= apis.TraitConst
	}
	entry.Fingerprint = m.Func.Pointer()
	return entry, nil
}

// Convert adapts a conversion callable func(T|*T) To into an erased
// conversion, returning the target type for keying.
func Convert(owner reflect.Type, fn any, p apis.Policy) (apis.ConvertFunc, reflect.Type, error) {
	v, t, err := funcValue(fn)
	if err != nil {
		return nil, nil, err
	}
	if t.NumIn() != 1 || !acceptsOwner(t.In(0), derefType(owner)) || t.NumOut() != 1 {
		return nil, nil, errors.Wrapf(ErrBadShape, "conversion %s must be func(%v) To", t, owner)
	}
	target := t.Out(0)
	if err := p.Validate(target); err != nil {
		return nil, nil, err
	}
	op := func(instance any) any {
		rcv, ok := receiver(instance, t.In(0))
		if !ok {
			return nil
		}
		out := v.Call([]reflect.Value{rcv})[0]
		if p == apis.AsVoid {
			return nil
		}
		return out.Interface()
	}
	return op, target, nil
}

// Destroy adapts a cleanup callable func(T|*T) into an erased destructor.
func Destroy(owner reflect.Type, fn any) (apis.DestroyFunc, error) {
	v, t, err := funcValue(fn)
	if err != nil {
		return nil, err
	}
	if t.NumIn() != 1 || !acceptsOwner(t.In(0), derefType(owner)) || t.NumOut() != 0 {
		return nil, errors.Wrapf(ErrBadShape, "destructor %s must be func(%v)", t, owner)
	}
	return func(instance any) {
		if rcv, ok := receiver(instance, t.In(0)); ok {
			v.Call([]reflect.Value{rcv})
		}
	}, nil
}

// Upcast builds the read-only address adjustment from owner to base.
// Interface bases pass the instance through unchanged; struct bases resolve
// to the embedded field, by pointer when the instance allows it.
func Upcast(owner, base reflect.Type) (apis.UpcastFunc, error) {
	ownerBase := derefType(owner)
	if !IsAncestor(ownerBase, base) {
		return nil, errors.Errorf("meta(adapt): %v is not an ancestor of %v", base, owner)
	}
	if base.Kind() == reflect.Interface {
		return func(instance any) any { return instance }, nil
	}
	target := derefType(base)
	index, _ := embeddedIndex(ownerBase, target)
	return func(instance any) any {
		v := reflect.ValueOf(instance)
		byPtr := v.Kind() == reflect.Ptr
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return nil
			}
			v = v.Elem()
		}
		if !v.IsValid() || v.Type() != ownerBase {
			return nil
		}
		fv := v.FieldByIndex(index)
		if byPtr && fv.CanAddr() {
			return fv.Addr().Interface()
		}
		return fv.Interface()
	}, nil
}

// IsAncestor reports whether base is a genuine ancestor of owner: an
// interface it implements or a struct it embeds (directly or transitively),
// and distinct from owner itself.
func IsAncestor(owner, base reflect.Type) bool {
	owner = derefType(owner)
	if owner == nil || base == nil || base == owner {
		return false
	}
	if base.Kind() == reflect.Interface {
		return owner.Implements(base) || reflect.PtrTo(owner).Implements(base)
	}
	target := derefType(base)
	if target == owner {
		return false
	}
	_, ok := embeddedIndex(owner, target)
	return ok
}

// embeddedIndex finds the field index path of an embedded base inside a
// struct, searching transitively through anonymous fields.
func embeddedIndex(owner, base reflect.Type) ([]int, bool) {
	if owner == nil || owner.Kind() != reflect.Struct {
		return nil, false
	}
	for i := 0; i < owner.NumField(); i++ {
		f := owner.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := derefType(f.Type)
		if ft == base {
			return []int{i}, true
		}
		if idx, ok := embeddedIndex(ft, base); ok {
			return append([]int{i}, idx...), true
		}
	}
	return nil, false
}

// returnShape classifies a callable's results: none, (R), (error), (R, error).
func returnShape(t reflect.Type) (ret reflect.Type, hasErr bool, err error) {
	switch t.NumOut() {
	case 0:
		return nil, false, nil
	case 1:
		if t.Out(0) == errorType {
			return nil, true, nil
		}
		return t.Out(0), false, nil
	case 2:
		if t.Out(1) != errorType {
			return nil, false, errors.Wrapf(ErrBadShape, "callable %s second result must be error", t)
		}
		return t.Out(0), true, nil
	default:
		return nil, false, errors.Wrapf(ErrBadShape, "callable %s returns too many values", t)
	}
}

// callArgs converts erased arguments into call values, leaving room for a
// bound receiver at slot 0 when first is 1.
func callArgs(t reflect.Type, in []any, first int) ([]reflect.Value, error) {
	want := t.NumIn() - first
	if len(in) != want {
		return nil, errors.Errorf("meta(adapt): expected %d args, got %d", want, len(in))
	}
	vals := make([]reflect.Value, t.NumIn())
	for i, a := range in {
		val, ok := coerce(a, t.In(first+i))
		if !ok {
			return nil, errors.Errorf("meta(adapt): arg %d: cannot use %T as %s", i, a, t.In(first+i))
		}
		vals[first+i] = val
	}
	return vals, nil
}
