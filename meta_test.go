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

package meta_test

import (
	"reflect"
	"testing"

	"dirpx.dev/meta"
	"dirpx.dev/meta/apis"
	"dirpx.dev/meta/builder"
	"dirpx.dev/meta/config"
	"dirpx.dev/meta/ident"
	"dirpx.dev/meta/registry"
)

type Point struct{ X, Y int }

func (p Point) Sum() int { return p.X + p.Y }

// restore puts the global snapshot back into its default shape.
func restore() {
	cfg := config.DefaultConfig()
	meta.SetAll(&cfg, nil, nil, nil, builder.New())
	meta.UnpinKeyer()
	meta.UnpinContext()
}

func TestDefaults(t *testing.T) {
	defer restore()

	if meta.Context() == nil {
		t.Fatal("default context is nil")
	}
	if meta.Keyer() == nil {
		t.Fatal("default keyer is nil")
	}
	if meta.Builder() == nil {
		t.Fatal("default builder is nil")
	}
	if got := meta.Config(); got != config.DefaultConfig() {
		t.Fatalf("Config() = %+v, want defaults", got)
	}
	if meta.IsKeyerPinned() || meta.IsContextPinned() {
		t.Fatal("nothing should be pinned by default")
	}
}

func TestID_MatchesIdentHash(t *testing.T) {
	if meta.ID("point") != ident.Hash("point") {
		t.Fatal("ID does not match ident.Hash")
	}
}

func TestRegisterAndResolve(t *testing.T) {
	defer restore()

	meta.Of[Point]().
		Named("point").
		Field(meta.ID("x"), "X").
		Method(meta.ID("sum"), "Sum")

	rec, ok := meta.ResolveName("point")
	if !ok {
		t.Fatal("ResolveName(point) missed")
	}
	if rec.Name != "point" {
		t.Fatalf("Name = %q, want point", rec.Name)
	}

	if _, ok := meta.Lookup(reflect.TypeOf(&Point{})); !ok {
		t.Fatal("Lookup(*Point) missed after registration")
	}
	if _, ok := meta.Resolve(meta.ID("point")); !ok {
		t.Fatal("Resolve(id) missed")
	}

	p := Point{X: 2, Y: 3}
	got, err := rec.Desc.Funcs[meta.ID("sum")].Invoke(p)
	if err != nil {
		t.Fatalf("Invoke(sum): %v", err)
	}
	if got != 5 {
		t.Fatalf("sum = %v, want 5", got)
	}
}

func TestReflect_ValueAndType(t *testing.T) {
	defer restore()

	f1 := meta.Reflect(Point{})
	f2 := meta.ReflectType(reflect.TypeOf(&Point{}))
	if f1.Record() != f2.Record() {
		t.Fatal("Reflect and ReflectType bound different records")
	}
}

func TestResets(t *testing.T) {
	defer restore()

	meta.Of[Point]().Named("point")
	meta.ResetType(reflect.TypeOf(Point{}))
	if _, ok := meta.ResolveName("point"); ok {
		t.Fatal("record survived ResetType")
	}

	meta.Of[Point]().Named("point")
	meta.ResetID(meta.ID("point"))
	if _, ok := meta.ResolveName("point"); ok {
		t.Fatal("record survived ResetID")
	}

	meta.Of[Point]()
	meta.ResetAll()
	if meta.Context().Count() != 0 {
		t.Fatal("records survived ResetAll")
	}
}

func TestSetContext_Pins(t *testing.T) {
	defer restore()

	ctx := registry.New()
	meta.SetContext(ctx)

	if meta.Context() != apis.Context(ctx) {
		t.Fatal("SetContext did not install the context")
	}
	if !meta.IsContextPinned() {
		t.Fatal("SetContext did not pin the context")
	}

	// a pinned context survives reconfiguration
	meta.SetConfig(config.NewConfig(config.WithMaxUnwrap(2)))
	if meta.Context() != apis.Context(ctx) {
		t.Fatal("pinned context was rebuilt by SetConfig")
	}
}

func TestSetKeyer_PinsAndRebuildsContext(t *testing.T) {
	defer restore()

	before := meta.Context()
	k := ident.New(config.NewConfig(config.WithMaxUnwrap(1)))
	meta.SetKeyer(k)

	if !meta.IsKeyerPinned() {
		t.Fatal("SetKeyer did not pin the keyer")
	}
	if meta.Keyer() != k {
		t.Fatal("SetKeyer did not install the keyer")
	}
	if meta.Context() == before {
		t.Fatal("non-pinned context was not rebuilt against the new keyer")
	}
	if meta.Context().Keyer() != k {
		t.Fatal("rebuilt context does not use the new keyer")
	}
}

func TestSetKeyer_NilIgnored(t *testing.T) {
	defer restore()

	before := meta.Keyer()
	meta.SetKeyer(nil)
	if meta.Keyer() != before {
		t.Fatal("SetKeyer(nil) changed the keyer")
	}
}

func TestSetConfig_RebuildsUnpinnedLayers(t *testing.T) {
	defer restore()

	meta.Of[Point]()
	before := meta.Context()

	cfg := config.NewConfig(config.WithMapPreferElem(false))
	meta.SetConfig(cfg)

	if meta.Config() != cfg {
		t.Fatalf("Config() = %+v, want %+v", meta.Config(), cfg)
	}
	if meta.Context() == before {
		t.Fatal("unpinned context was not rebuilt")
	}
	if meta.Context().Count() != 0 {
		t.Fatal("rebuilt context carried records over")
	}
}

func TestExt(t *testing.T) {
	defer restore()

	type marker struct{ v int }
	meta.SetExt(marker{v: 7})

	got, ok := meta.ExtAs[marker]()
	if !ok || got.v != 7 {
		t.Fatalf("ExtAs = (%+v, %v), want ({7}, true)", got, ok)
	}
	if _, ok := meta.ExtAs[string](); ok {
		t.Fatal("ExtAs[string] matched a marker ext")
	}
}

func TestSetAll(t *testing.T) {
	defer restore()

	cfg := config.NewConfig(config.WithMaxUnwrap(3))
	k := ident.New(cfg)
	ctx := registry.New(registry.WithKeyer(k))

	meta.SetAll(&cfg, "ext", k, ctx, nil)

	if meta.Config() != cfg {
		t.Fatal("SetAll did not install the config")
	}
	if meta.Keyer() != k || !meta.IsKeyerPinned() {
		t.Fatal("SetAll did not install and pin the keyer")
	}
	if meta.Context() != apis.Context(ctx) || !meta.IsContextPinned() {
		t.Fatal("SetAll did not install and pin the context")
	}
	if ext, ok := meta.ExtAs[string](); !ok || ext != "ext" {
		t.Fatal("SetAll did not install the ext")
	}
}

func TestSetAll_NilLayersRebuildAndUnpin(t *testing.T) {
	defer restore()

	meta.PinKeyer()
	meta.PinContext()

	meta.SetAll(nil, nil, nil, nil, nil)

	if meta.IsKeyerPinned() || meta.IsContextPinned() {
		t.Fatal("SetAll(nil layers) should unpin keyer and context")
	}
	if meta.Keyer() == nil || meta.Context() == nil {
		t.Fatal("SetAll(nil layers) should rebuild keyer and context")
	}
}

func TestPinUnpin(t *testing.T) {
	defer restore()

	meta.PinKeyer()
	if !meta.IsKeyerPinned() {
		t.Fatal("PinKeyer had no effect")
	}
	meta.UnpinKeyer()
	if meta.IsKeyerPinned() {
		t.Fatal("UnpinKeyer had no effect")
	}

	meta.PinContext()
	if !meta.IsContextPinned() {
		t.Fatal("PinContext had no effect")
	}
	meta.UnpinContext()
	if meta.IsContextPinned() {
		t.Fatal("UnpinContext had no effect")
	}
}

func TestSetBuilder_RebuildsThroughNewBuilder(t *testing.T) {
	defer restore()

	before := meta.Context()
	b := builder.New()
	meta.SetBuilder(b)

	if meta.Builder() != b {
		t.Fatal("SetBuilder did not install the builder")
	}
	if meta.Context() == before {
		t.Fatal("unpinned context was not rebuilt by SetBuilder")
	}
}
