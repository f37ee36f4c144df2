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


// Package dict manages the query-side dictionaries: spelling corrections,
// the technical synonym dictionary with its reverse index, and the curated
// title/subtitle heading mappings.
//
// All three are backed by JSON documents on disk. Missing or malformed files
// degrade to empty dictionaries with a logged warning; they are never fatal.
package dict
