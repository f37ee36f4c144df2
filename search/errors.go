// Copyright 2026 Batiwork Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import "errors"

var (
	// ErrCorrectorRequired is returned when a spelling corrector is not provided.
	ErrCorrectorRequired = errors.New("corrector required")

	// ErrDictionaryRequired is returned when a synonym dictionary is not provided.
	ErrDictionaryRequired = errors.New("synonym dictionary required")

	// ErrManagerRequired is returned when a catalog manager is not provided.
	ErrManagerRequired = errors.New("catalog manager required")

	// ErrMatcherRequired is returned when a matcher is not provided.
	ErrMatcherRequired = errors.New("matcher required")
)
