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

package adapt_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/meta/adapt"
	"dirpx.dev/meta/apis"
)

type Base struct{ Tag string }

type Widget struct {
	Base
	Size   int
	hidden int
}

func (w Widget) Area() int        { return w.Size * w.Size }
func (w *Widget) Grow(by int)     { w.Size += by }
func (w Widget) Scaled(k int) int { return w.Size * k }

type Sizer interface{ Area() int }

var (
	widgetT = reflect.TypeOf(Widget{})
	baseT   = reflect.TypeOf(Base{})
)

func TestField(t *testing.T) {
	entry, err := adapt.Field(widgetT, "Size")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Arity)
	assert.Equal(t, reflect.TypeOf(0), entry.Type())

	w := Widget{Size: 3}
	assert.Equal(t, 3, entry.Get(w))
	assert.Equal(t, 3, entry.Get(&w))

	require.True(t, entry.Set(&w, 7))
	assert.Equal(t, 7, w.Size)

	// value instances cannot be written through
	assert.False(t, entry.Set(w, 1))
	// wrong owner
	assert.False(t, entry.Set(&Base{}, 1))
	assert.Nil(t, entry.Get(Base{}))
}

func TestField_Errors(t *testing.T) {
	_, err := adapt.Field(widgetT, "Nope")
	assert.Error(t, err)

	_, err = adapt.Field(widgetT, "hidden")
	assert.Error(t, err)

	_, err = adapt.Field(reflect.TypeOf(0), "Size")
	assert.ErrorIs(t, err, adapt.ErrBadShape)
}

func TestVar(t *testing.T) {
	limit := 10
	entry, err := adapt.Var(widgetT, &limit)
	require.NoError(t, err)
	assert.True(t, entry.Traits.Static())
	assert.False(t, entry.Traits.Const())

	assert.Equal(t, 10, entry.Get(nil))
	require.True(t, entry.Set(nil, 42))
	assert.Equal(t, 42, limit)
}

func TestVar_Errors(t *testing.T) {
	_, err := adapt.Var(widgetT, 10)
	assert.ErrorIs(t, err, adapt.ErrBadShape)

	var nilPtr *int
	_, err = adapt.Var(widgetT, nilPtr)
	assert.ErrorIs(t, err, adapt.ErrBadShape)
}

func TestAccessors(t *testing.T) {
	entry, err := adapt.Accessors(widgetT,
		func(w *Widget, v int) { w.Size = v },
		func(w Widget) int { return w.Size },
	)
	require.NoError(t, err)
	assert.False(t, entry.Traits.Static())

	w := Widget{}
	require.True(t, entry.Set(&w, 12))
	assert.Equal(t, 12, entry.Get(w))

	// pointer-receiver setter refuses a value instance
	assert.False(t, entry.Set(w, 1))
}

func TestAccessors_StaticPair(t *testing.T) {
	store := 0
	entry, err := adapt.Accessors(widgetT,
		func(v int) { store = v },
		func() int { return store },
	)
	require.NoError(t, err)
	assert.True(t, entry.Traits.Static())

	require.True(t, entry.Set(nil, 3))
	assert.Equal(t, 3, entry.Get(nil))
}

func TestAccessors_SetterResultShapes(t *testing.T) {
	boolSet, err := adapt.Accessors(widgetT,
		func(w *Widget, v int) bool { return v >= 0 },
		func(w Widget) int { return w.Size },
	)
	require.NoError(t, err)
	assert.True(t, boolSet.Set(&Widget{}, 1))
	assert.False(t, boolSet.Set(&Widget{}, -1))

	errSet, err := adapt.Accessors(widgetT,
		func(w *Widget, v int) error {
			if v < 0 {
				return errors.New("negative")
			}
			w.Size = v
			return nil
		},
		func(w Widget) int { return w.Size },
	)
	require.NoError(t, err)
	assert.True(t, errSet.Set(&Widget{}, 1))
	assert.False(t, errSet.Set(&Widget{}, -1))
}

func TestAccessorsMulti_AggregatesCandidateErrors(t *testing.T) {
	_, _, err := adapt.AccessorsMulti(widgetT,
		[]any{
			"not a func",
			func(w *Widget, v int, extra int) {},
		},
		func(w Widget) int { return w.Size },
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, adapt.ErrNotFunc)
	assert.ErrorIs(t, err, adapt.ErrBadShape)

	_, _, err = adapt.AccessorsMulti(widgetT, nil, func(w Widget) int { return w.Size })
	assert.ErrorIs(t, err, adapt.ErrBadShape)
}

func TestReadOnly(t *testing.T) {
	entry, err := adapt.ReadOnly(widgetT, Widget.Area)
	require.NoError(t, err)
	assert.True(t, entry.Traits.Const())
	assert.Equal(t, 0, entry.Arity)
	assert.Nil(t, entry.Arg(0))
	assert.False(t, entry.Set(&Widget{}, 1))
	assert.Equal(t, 9, entry.Get(Widget{Size: 3}))
}

func TestConstruct(t *testing.T) {
	op, args, err := adapt.Construct(widgetT, func(size int) Widget {
		return Widget{Size: size}
	}, apis.AsIs)
	require.NoError(t, err)
	require.Equal(t, []reflect.Type{reflect.TypeOf(0)}, args)

	got, err := op(4)
	require.NoError(t, err)
	assert.Equal(t, Widget{Size: 4}, got)

	// arity mismatch surfaces as a call error, not a panic
	_, err = op()
	assert.Error(t, err)
}

func TestConstruct_WithError(t *testing.T) {
	op, _, err := adapt.Construct(widgetT, func(size int) (*Widget, error) {
		if size < 0 {
			return nil, errors.New("negative size")
		}
		return &Widget{Size: size}, nil
	}, apis.AsRef)
	require.NoError(t, err)

	got, err := op(2)
	require.NoError(t, err)
	assert.Equal(t, 2, got.(*Widget).Size)

	_, err = op(-1)
	assert.EqualError(t, err, "negative size")
}

func TestConstruct_Errors(t *testing.T) {
	// wrong result type
	_, _, err := adapt.Construct(widgetT, func() int { return 0 }, apis.AsIs)
	assert.Error(t, err)

	// as-ref on a value return
	_, _, err = adapt.Construct(widgetT, func() Widget { return Widget{} }, apis.AsRef)
	assert.ErrorIs(t, err, apis.ErrPolicyMismatch)

	// variadic
	_, _, err = adapt.Construct(widgetT, func(xs ...int) Widget { return Widget{} }, apis.AsIs)
	assert.ErrorIs(t, err, adapt.ErrVariadic)

	// not a func
	_, _, err = adapt.Construct(widgetT, 42, apis.AsIs)
	assert.ErrorIs(t, err, adapt.ErrNotFunc)
}

func TestFunc_BoundByValue(t *testing.T) {
	entry, err := adapt.Func(widgetT, func(w Widget, k int) int { return w.Size * k }, apis.AsIs)
	require.NoError(t, err)
	assert.True(t, entry.Traits.Const())
	assert.False(t, entry.Traits.Static())
	assert.Equal(t, 1, entry.Arity)
	assert.Equal(t, reflect.TypeOf(0), entry.Ret())
	assert.NotZero(t, entry.Fingerprint)

	got, err := entry.Invoke(Widget{Size: 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, 15, got)
}

func TestFunc_BoundByPointer(t *testing.T) {
	entry, err := adapt.Func(widgetT, func(w *Widget, by int) { w.Size += by }, apis.AsIs)
	require.NoError(t, err)
	assert.False(t, entry.Traits.Const())
	assert.Nil(t, entry.Ret())

	w := Widget{Size: 1}
	_, err = entry.Invoke(&w, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, w.Size)
}

func TestFunc_Static(t *testing.T) {
	entry, err := adapt.Func(widgetT, func(a, b string) string { return a + b }, apis.AsIs)
	require.NoError(t, err)
	assert.True(t, entry.Traits.Static())
	assert.Equal(t, 2, entry.Arity)

	got, err := entry.Invoke(nil, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
}

func TestFunc_AsVoidDiscardsResult(t *testing.T) {
	entry, err := adapt.Func(widgetT, func(w Widget) int { return w.Size }, apis.AsVoid)
	require.NoError(t, err)
	assert.Nil(t, entry.Ret())

	got, err := entry.Invoke(Widget{Size: 9})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFunc_ErrorResult(t *testing.T) {
	entry, err := adapt.Func(widgetT, func(w Widget) (int, error) {
		if w.Size == 0 {
			return 0, errors.New("empty")
		}
		return w.Size, nil
	}, apis.AsIs)
	require.NoError(t, err)

	got, err := entry.Invoke(Widget{Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = entry.Invoke(Widget{})
	assert.EqualError(t, err, "empty")
}

func TestMethod(t *testing.T) {
	area, err := adapt.Method(widgetT, "Area", apis.AsIs)
	require.NoError(t, err)
	assert.True(t, area.Traits.Const())
	got, err := area.Invoke(Widget{Size: 4})
	require.NoError(t, err)
	assert.Equal(t, 16, got)

	grow, err := adapt.Method(widgetT, "Grow", apis.AsIs)
	require.NoError(t, err)
	assert.False(t, grow.Traits.Const())
	assert.Equal(t, 1, grow.Arity)

	w := Widget{Size: 1}
	_, err = grow.Invoke(&w, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, w.Size)

	_, err = adapt.Method(widgetT, "Missing", apis.AsIs)
	assert.Error(t, err)
}

func TestMethod_FingerprintStable(t *testing.T) {
	a, err := adapt.Method(widgetT, "Scaled", apis.AsIs)
	require.NoError(t, err)
	b, err := adapt.Method(widgetT, "Scaled", apis.AsIs)
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, uintptr(0), a.Fingerprint)
}

func TestConvert(t *testing.T) {
	op, target, err := adapt.Convert(widgetT, func(w Widget) string {
		return "widget"
	}, apis.AsIs)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), target)
	assert.Equal(t, "widget", op(Widget{}))

	// wrong shape
	_, _, err = adapt.Convert(widgetT, func(w Widget, extra int) string { return "" }, apis.AsIs)
	assert.ErrorIs(t, err, adapt.ErrBadShape)
}

func TestDestroy(t *testing.T) {
	var closed bool
	op, err := adapt.Destroy(widgetT, func(w *Widget) { closed = true })
	require.NoError(t, err)

	op(&Widget{})
	assert.True(t, closed)

	_, err = adapt.Destroy(widgetT, func(w *Widget) error { return nil })
	assert.ErrorIs(t, err, adapt.ErrBadShape)
}

func TestUpcast_Struct(t *testing.T) {
	up, err := adapt.Upcast(widgetT, baseT)
	require.NoError(t, err)

	w := Widget{Base: Base{Tag: "b"}}

	got := up(w)
	b, ok := got.(Base)
	require.True(t, ok)
	assert.Equal(t, "b", b.Tag)

	// pointer instances upcast by pointer, aliasing the embedded field
	pb, ok := up(&w).(*Base)
	require.True(t, ok)
	pb.Tag = "changed"
	assert.Equal(t, "changed", w.Base.Tag)

	assert.Nil(t, up(Base{}))
	assert.Nil(t, up((*Widget)(nil)))
}

func TestUpcast_Interface(t *testing.T) {
	sizerT := reflect.TypeOf((*Sizer)(nil)).Elem()
	up, err := adapt.Upcast(widgetT, sizerT)
	require.NoError(t, err)

	w := Widget{Size: 3}
	s, ok := up(w).(Sizer)
	require.True(t, ok)
	assert.Equal(t, 9, s.Area())
}

func TestUpcast_NonAncestor(t *testing.T) {
	_, err := adapt.Upcast(widgetT, reflect.TypeOf(""))
	assert.Error(t, err)
}

func TestIsAncestor(t *testing.T) {
	sizerT := reflect.TypeOf((*Sizer)(nil)).Elem()

	assert.True(t, adapt.IsAncestor(widgetT, baseT))
	assert.True(t, adapt.IsAncestor(reflect.TypeOf(&Widget{}), baseT))
	assert.True(t, adapt.IsAncestor(widgetT, sizerT))
	assert.False(t, adapt.IsAncestor(widgetT, widgetT))
	assert.False(t, adapt.IsAncestor(baseT, widgetT))
	assert.False(t, adapt.IsAncestor(widgetT, reflect.TypeOf("")))
}
