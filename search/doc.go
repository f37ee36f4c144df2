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

// Package search ranks catalog entries against free-text queries.
//
// The Matcher type implements the tiered keyword algorithm: spelling
// correction, domain tokenization, then three fallback tiers: partial
// keyword matches, complete matches where every query token is found, and
// dictionary synonyms when no token matches at all.
//
// The Engine type drives the Matcher over loaded libraries, restricts
// queries to hierarchically resolved sections, and supplements low-confidence
// global results with embedding similarity.
package search
