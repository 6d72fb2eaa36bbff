// Package customers manages the customer directory referenced by receivables.
package customers

import "time"

// Customer is an identity entity. The ID is assigned on first persistence and
// immutable thereafter; receivables reference it without owning its lifecycle.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
