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

package builder

import (
	"go.uber.org/zap"

	"dirpx.dev/meta/apis"
	"dirpx.dev/meta/ident"
	"dirpx.dev/meta/registry"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildKeyer builds the default identifier service for the provided configuration.
func (b *builder) BuildKeyer(cfg apis.Config, _ any) apis.Keyer {
	return ident.New(cfg)
}

// BuildContext builds a new apis.Context backed by keyer. The previous
// context is not migrated: its records hold closures bound to their
// original registration call sites, so replaying them here could not
// produce equivalent entries. Custom builders that own their registration
// flow may migrate instead.
//
// If ext carries a *zap.Logger, it is attached to the new context.
func (b *builder) BuildContext(cfg apis.Config, keyer apis.Keyer, _ apis.Context, ext any) apis.Context {
	if keyer == nil {
		keyer = ident.New(cfg)
	}
	opts := []registry.Option{registry.WithKeyer(keyer)}
	if l, ok := ext.(*zap.Logger); ok {
		opts = append(opts, registry.WithLogger(l))
	}
	return registry.New(opts...)
}
