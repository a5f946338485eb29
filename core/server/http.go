/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Vgrid Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"net/http"
)

// maxEventsBodyBytes caps the size of a posted event batch.
const maxEventsBodyBytes = 1 << 20

// Handler returns the HTTP routes of the server: the landing page at "/", grids
// at "/grid" and the JSON event endpoint at "/events".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/grid", func(w http.ResponseWriter, r *http.Request) {
		result := s.HandleGridRequest(w, r.URL, w.Header().Set)
		writeResult(w, result)
	})

	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Events must be posted", http.StatusMethodNotAllowed)
			return
		}
		body := http.MaxBytesReader(w, r.Body, maxEventsBodyBytes)
		defer body.Close()
		result := s.HandleEvents(w, body, w.Header().Set)
		writeResult(w, result)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		// The renderer may have already written to the response; errors are logged
		_ = s.HandleLanding(w, w.Header().Set)
	})

	return mux
}

// writeResult reports a handler result that failed before writing a body.
// Render errors carry no status code and are only logged.
func writeResult(w http.ResponseWriter, result *GridHandlerResult) {
	if result == nil || result.StatusCode == 0 {
		return
	}
	http.Error(w, result.Message, result.StatusCode)
}
