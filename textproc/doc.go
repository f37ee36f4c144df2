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


// Package textproc provides text normalization and tokenization for
// construction-trade designations and queries.
//
// Queries in this domain misspell technical jargon, mix singular and plural
// forms, and abbreviate units and materials. The tokenizer expands a fixed
// table of trade abbreviations and can protect technical patterns (dosages,
// dimensions, measurements) so they survive word splitting as single tokens.
package textproc
