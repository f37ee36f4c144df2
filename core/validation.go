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

import (
	"fmt"
	"unicode/utf8"
)

// minDesignationLength is the shortest designation the catalog accepts.
// Shorter rows are header noise or truncated lines.
const minDesignationLength = 4

// ValidateEntry validates a catalog entry according to domain rules.
//
// Validation rules:
//   - Designation must be longer than 3 characters
//
// NOT validated (populated by the catalog manager):
//   - NormDesignation, Tokens (derived during load)
//   - Vector (can be empty until embeddings are computed)
//   - Code (heading rows and flat-only rows may carry unparseable codes)
func ValidateEntry(entry *CatalogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if utf8.RuneCountInString(entry.Designation) < minDesignationLength {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrShortDesignation)
	}

	return nil
}
