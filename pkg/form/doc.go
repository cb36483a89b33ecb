// Copyright 2025 Tom Barlow
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

// Package form implements the typed input model of faas-form.
//
// A function declares the values it needs as a Schema: optional instructions
// plus an ordered list of Inputs. Six input variants exist, keyed on the wire
// by their type tag:
//
//	string        free text, optional pattern and default
//	secret        free text entered without echo, optional pattern
//	number        float64, optionally restricted to whole numbers
//	list<string>  sequence of strings, optional exact size
//	const         fixed value, never prompted
//	boolean       single y/n keystroke
//
// Values are collected by a Session, which reads operator answers through a
// Reader. The Reader is the only platform-specific piece; the terminal
// implementation lives in internal/cli/prompt and ScriptedReader serves tests.
//
// Parsing and serialization are symmetric: every field that is set on the
// wire survives ParseSchema followed by json.Marshal, and unset fields are
// omitted rather than emitted as null.
package form
