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

package builder_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/meta/builder"
	"dirpx.dev/meta/config"
)

type probe struct{}

func TestBuildKeyer(t *testing.T) {
	b := builder.New()
	k := b.BuildKeyer(config.DefaultConfig(), nil)
	require.NotNil(t, k)

	assert.Equal(t,
		k.KeyOf(reflect.TypeOf(probe{})),
		k.KeyOf(reflect.TypeOf(&probe{})),
	)
}

func TestBuildContext(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	k := b.BuildKeyer(cfg, nil)

	ctx := b.BuildContext(cfg, k, nil, nil)
	require.NotNil(t, ctx)
	assert.Equal(t, k, ctx.Keyer())
	assert.Equal(t, 0, ctx.Count())
}

func TestBuildContext_NilKeyerFallsBack(t *testing.T) {
	b := builder.New()
	ctx := b.BuildContext(config.DefaultConfig(), nil, nil, nil)
	require.NotNil(t, ctx)
	require.NotNil(t, ctx.Keyer())

	rec := ctx.Ensure(reflect.TypeOf(probe{}))
	assert.NotNil(t, rec)
}

func TestBuildContext_PreviousNotMigrated(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	k := b.BuildKeyer(cfg, nil)

	prev := b.BuildContext(cfg, k, nil, nil)
	prev.Ensure(reflect.TypeOf(probe{}))

	next := b.BuildContext(cfg, k, prev, nil)
	assert.Equal(t, 0, next.Count())
	assert.Equal(t, 1, prev.Count())
}

func TestBuildContext_ZapExtAttached(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := builder.New()
	cfg := config.DefaultConfig()

	ctx := b.BuildContext(cfg, b.BuildKeyer(cfg, nil), nil, zap.New(core))
	ctx.Ensure(reflect.TypeOf(probe{}))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "meta: type record created", logs.All()[0].Message)
}
