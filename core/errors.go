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


package core

import "errors"

// Domain errors
var (
	// ErrLibraryNotFound indicates the requested catalog library does not exist.
	ErrLibraryNotFound = errors.New("library not found")

	// ErrInvalidEntry indicates a catalog row failed validation.
	ErrInvalidEntry = errors.New("invalid catalog entry")

	// ErrShortDesignation indicates a designation of 3 characters or fewer.
	ErrShortDesignation = errors.New("designation too short")
)
