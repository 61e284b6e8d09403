// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package respond

import "net/http"

const ServerName = "rustaceans"

// WriteHeaders sets headers common to every response. net/http adds Date.
func WriteHeaders(w http.ResponseWriter) {
	w.Header().Set("Server", ServerName)
}
