package entity

import "time"

// Issue (saída) retiro de mercadería hacia un destinatario; decrementa el stock.
type Issue struct {
	ID          int64
	ProductID   int64
	Quantity    int
	RecipientID int64
	Notes       string
	CreatedAt   time.Time
}

// IssueDetail saída con nombres de producto y destinatario para listados.
type IssueDetail struct {
	Issue
	ProductName        string
	ProductDescription string
	RecipientName      string
	RecipientSector    string
}
