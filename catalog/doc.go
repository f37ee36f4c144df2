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

// Package catalog loads construction-pricing catalogs from semicolon-delimited
// CSV exports, builds the title/subtitle/content hierarchy from their dotted
// item codes, and resolves hierarchical search scopes.
//
// Loaded libraries are cached per name by the Manager; concurrent first loads
// of the same library are collapsed into a single load.
package catalog
