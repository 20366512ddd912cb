package testutil

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

func RandomUser() domain.User {
	return domain.User{
		Name:           gofakeit.Name(),
		Email:          gofakeit.Email(),
		PasswordHash:   gofakeit.LetterN(32),
		Role:           domain.RoleCustomer,
		Status:         domain.UserStatusActive,
		Picture:        gofakeit.URL(),
		ShippingRegion: gofakeit.State(),
	}
}

func RandomProduct() domain.Product {
	return domain.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price:       RandomPrice(),
		ImageURL:    gofakeit.URL(),
		Stock:       gofakeit.Number(10, 100),
		Category:    gofakeit.ProductCategory(),
		Status:      domain.ProductStatusActive,
	}
}

// RandomOrder builds an order for userID with lines over productIDs. ID is left empty.
func RandomOrder(userID int64, productIDs ...int64) domain.Order {
	total := decimal.Zero

	var items []domain.OrderLine
	for _, productID := range productIDs {
		line := domain.OrderLine{
			ProductID:   productID,
			ProductName: gofakeit.ProductName(),
			Quantity:    gofakeit.Number(1, 3),
			Price:       RandomPrice(),
		}
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, line)
	}

	return domain.Order{
		UserID:        userID,
		CustomerName:  gofakeit.Name(),
		CustomerEmail: gofakeit.Email(),
		Total:         total,
		DeliveryFee:   decimal.NewFromInt(int64(gofakeit.Number(0, 10))),
		Currency:      RandomCurrency(),
		PaymentMethod: gofakeit.RandomString([]string{"card", "cash", "paypal"}),
		Shipping: domain.ShippingInfo{
			Address: gofakeit.Street(),
			Region:  gofakeit.State(),
		},
		Status: domain.OrderStatusPending,
		Items:  items,
	}
}

// RandomPrice has two decimal places, matching the NUMERIC(12,2) columns.
func RandomPrice() decimal.Decimal {
	return decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2)
}

func RandomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}
