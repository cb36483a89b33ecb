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

package envelope

import (
	"github.com/tombee/faas-form/pkg/form"
)

// Helpers for function authors. A function receives the request as a
// decoded JSON object and returns an object built with these helpers.

// IsSchemaRequest reports whether event asks for the function's schema.
func IsSchemaRequest(event map[string]any) bool {
	return payloadType(event) == PayloadSchema
}

// IsInvokeRequest reports whether event carries collected values.
func IsInvokeRequest(event map[string]any) bool {
	return payloadType(event) == PayloadInvoke
}

func payloadType(event map[string]any) PayloadType {
	kind, _ := event[PayloadTypeKey].(string)
	return PayloadType(kind)
}

// SetSchemaResponse stores schema on response as the answer to a schema
// request and returns it.
func SetSchemaResponse(response map[string]any, schema *form.Schema) map[string]any {
	if response == nil {
		response = make(map[string]any)
	}
	response[SchemaKey] = schema
	return response
}

// SetResult stores the display string on response and returns it.
func SetResult(response map[string]any, result string) map[string]any {
	if response == nil {
		response = make(map[string]any)
	}
	response[ResultKey] = result
	return response
}

// SetReinvokeResponse marks response as asking for another round with schema.
func SetReinvokeResponse(response map[string]any, schema *form.Schema) map[string]any {
	if response == nil {
		response = make(map[string]any)
	}
	response[PayloadTypeKey] = string(PayloadReinvoke)
	response[SchemaKey] = schema
	return response
}
