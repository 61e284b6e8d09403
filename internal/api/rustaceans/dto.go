// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rustaceans

import "encoding/json"

// UpdateInput is the PUT body. Only name and email are applied; id must
// match the path when present and created_at is accepted in any form and
// ignored.
type UpdateInput struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"  validate:"required,notblank,max=255"`
	Email     string          `json:"email" validate:"required,max=255,email"`
	CreatedAt json.RawMessage `json:"created_at,omitempty"`
}
