package account

import "time"

// Record is the stored unit per account: identifier, credential hash and
// the caller-supplied profile kept as an opaque map. The hash never
// serializes out through this type.
type Record struct {
	ID           string         `json:"id"`
	PasswordHash string         `json:"-"` // never expose hash in JSON
	Profile      map[string]any `json:"profile"`
	CreatedAt    time.Time      `json:"createdAt"`
}
