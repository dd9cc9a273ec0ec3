package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/pricing"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

// OrderLineView is a historical line re-priced from its stored discount.
type OrderLineView struct {
	entity.OrderRecordLine
	PriceEUR decimal.Decimal    `json:"price_eur"`
	Price    pricing.Conversion `json:"price"`
}

// OrderView is a historical order with prices in the order's currency.
type OrderView struct {
	entity.OrderRecord
	Lines    []OrderLineView    `json:"lines"`
	TotalEUR decimal.Decimal    `json:"total_eur"`
	Total    pricing.Conversion `json:"total"`
}

type OrderUsecase struct {
	orders provider.OrderGateway
	logger *zap.Logger
}

// NewOrderUsecase creates the order history usecase
func NewOrderUsecase(orders provider.OrderGateway, logger *zap.Logger) *OrderUsecase {
	return &OrderUsecase{orders: orders, logger: logger}
}

func (u *OrderUsecase) List(ctx context.Context, token string) ([]OrderView, error) {
	records, err := u.orders.ListOrders(ctx, token)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(records))
	for _, r := range records {
		views = append(views, viewOrder(r))
	}
	return views, nil
}

func (u *OrderUsecase) Get(ctx context.Context, token, orderID string) (*OrderView, error) {
	record, err := u.orders.GetOrder(ctx, token, orderID)
	if err != nil {
		return nil, err
	}
	view := viewOrder(*record)
	return &view, nil
}

// viewOrder prices each line in EUR with the cart formula, then converts at
// the rate stored with the order.
func viewOrder(r entity.OrderRecord) OrderView {
	view := OrderView{
		OrderRecord: r,
		Lines:       make([]OrderLineView, 0, len(r.Products)),
		TotalEUR:    decimal.Zero,
	}
	for _, line := range r.Products {
		eur := pricing.RecordLinePrice(line)
		converted := pricing.ConvertAt(eur, r.Currency, r.CurrencyRate)
		converted.Amount = pricing.Round(converted.Amount)

		view.Lines = append(view.Lines, OrderLineView{
			OrderRecordLine: line,
			PriceEUR:        eur,
			Price:           converted,
		})
		view.TotalEUR = view.TotalEUR.Add(eur)
	}

	view.Total = pricing.ConvertAt(view.TotalEUR, r.Currency, r.CurrencyRate)
	view.Total.Amount = pricing.Round(view.Total.Amount)
	return view
}
