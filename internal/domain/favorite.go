package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Favorite struct {
	ID        int64
	UserID    int64
	ProductID int64
	CreatedAt time.Time

	// product columns joined on listing
	ProductName        string
	ProductDescription string
	ProductPrice       decimal.Decimal
	ProductImageURL    string
}
