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

// Builder composes Keyer and Context instances from a Config.
// Implementations may migrate state from previous instances (prev), or ignore them.
type Builder interface {
	// BuildKeyer constructs a Keyer for Config.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildKeyer(cfg Config, ext any) Keyer
	// BuildContext constructs a Context backed by keyer. prev is the
	// previously active context, offered so custom builders can migrate
	// records; the default builder starts empty because records hold live
	// closures bound to their original registration session.
	BuildContext(cfg Config, keyer Keyer, prev Context, ext any) Context
}
