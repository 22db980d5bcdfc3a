package entity

import "time"

// Recipient (destinatário) persona o sector que recibe mercadería. Único por (Name, Sector).
type Recipient struct {
	ID        int64
	Name      string
	Sector    string
	CreatedAt time.Time
}
