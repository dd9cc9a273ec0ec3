package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/pricing"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
)

// AddItemInput selects what to put in the cart. Variant names a bundled
// sub-product; its name becomes the item version.
type AddItemInput struct {
	ProductID string
	Variant   string
	PeriodID  string
}

// CartLine is a cart item with its computed price.
type CartLine struct {
	entity.CartItem
	Price    decimal.Decimal `json:"line_price"`
	Selected string          `json:"selected_period"`
}

// CartSummary is the priced cart in EUR and in the display currency.
type CartSummary struct {
	Lines     []CartLine         `json:"items"`
	Count     int                `json:"count"`
	TotalEUR  decimal.Decimal    `json:"total_eur"`
	Converted pricing.Conversion `json:"total"`
	Formatted string             `json:"formatted_total"`
}

// CartUsecase is the per-session cart. Every mutation reads, changes and
// writes the whole cart under the session lock.
type CartUsecase struct {
	store   repository.SessionStore
	catalog provider.Catalog
	rates   RateProvider
	ttl     time.Duration
	locks   *sessionLocks
	logger  *zap.Logger
}

// NewCartUsecase creates the cart usecase
func NewCartUsecase(
	store repository.SessionStore,
	catalog provider.Catalog,
	rates RateProvider,
	ttl time.Duration,
	logger *zap.Logger,
) *CartUsecase {
	return &CartUsecase{
		store:   store,
		catalog: catalog,
		rates:   rates,
		ttl:     ttl,
		locks:   newSessionLocks(),
		logger:  logger,
	}
}

// load hydrates the cart. Missing or corrupt data is an empty cart.
func (u *CartUsecase) load(ctx context.Context, sessionID string) ([]entity.CartItem, error) {
	data, err := u.store.Get(ctx, sessionID, repository.CartKey)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return []entity.CartItem{}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var items []entity.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		u.logger.Warn("Discarding corrupt cart",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return []entity.CartItem{}, nil
	}
	if items == nil {
		items = []entity.CartItem{}
	}
	return items, nil
}

func (u *CartUsecase) save(ctx context.Context, sessionID string, items []entity.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := u.store.Set(ctx, sessionID, repository.CartKey, data, u.ttl); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Items returns the cart in insertion order.
func (u *CartUsecase) Items(ctx context.Context, sessionID string) ([]entity.CartItem, error) {
	return u.load(ctx, sessionID)
}

func (u *CartUsecase) ItemCount(ctx context.Context, sessionID string) (int, error) {
	items, err := u.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// AddItem snapshots a catalog product into the cart. A (product, version)
// pair already in the cart is refused with ErrDuplicateItem.
func (u *CartUsecase) AddItem(ctx context.Context, sessionID string, in AddItemInput) (*entity.CartItem, error) {
	product, err := u.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Available() {
		return nil, domainErrors.ErrProductUnavailable
	}

	item, err := snapshot(*product, in.Variant)
	if err != nil {
		return nil, err
	}
	if in.PeriodID != "" {
		if !item.HasPeriod(in.PeriodID) {
			return nil, domainErrors.ErrPeriodNotFound
		}
		item.SelectedPeriodID = in.PeriodID
	}
	u.checkDiscounts(item)

	return u.AddSnapshot(ctx, sessionID, item)
}

// AddSnapshot appends a prepared item.
func (u *CartUsecase) AddSnapshot(ctx context.Context, sessionID string, item entity.CartItem) (*entity.CartItem, error) {
	unlock := u.locks.Lock(sessionID)
	defer unlock()

	items, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, existing := range items {
		if existing.Matches(item.ProductID, item.Version) {
			return nil, domainErrors.ErrDuplicateItem
		}
	}

	items = append(items, item)
	if err := u.save(ctx, sessionID, items); err != nil {
		return nil, err
	}

	u.logger.Info("Cart item added",
		zap.String("session_id", sessionID),
		zap.String("product_id", item.ProductID),
		zap.String("version", item.Version),
		zap.Int("count", len(items)))
	return &item, nil
}

// snapshot builds the cart item for product or for one of its variants.
func snapshot(product entity.Product, variant string) (entity.CartItem, error) {
	if variant == "" {
		return entity.NewCartItem(product, ""), nil
	}

	for _, sub := range product.Products {
		if sub.ID == variant || sub.Name == variant {
			if !sub.Available() {
				return entity.CartItem{}, domainErrors.ErrProductUnavailable
			}
			item := entity.NewCartItem(sub, sub.Name)
			item.ProductID = product.ID
			item.Name = product.Name
			if item.CategoryID == "" {
				item.CategoryID = product.CategoryID()
			}
			return item, nil
		}
	}
	return entity.CartItem{}, domainErrors.ErrVariantNotFound
}

// checkDiscounts logs offers the pricing engine will clamp.
func (u *CartUsecase) checkDiscounts(item entity.CartItem) {
	for _, p := range item.Periods {
		if !pricing.DiscountOf(p).InRange() {
			u.logger.Warn("Subscription period discount out of range",
				zap.String("product_id", item.ProductID),
				zap.String("period_id", p.ID),
				zap.String("amount", p.Amount.String()),
				zap.String("discount_type", string(p.DiscountType)))
		}
	}
}

// RemoveItem drops every line matching (productID, version). Removing an
// absent item is not an error.
func (u *CartUsecase) RemoveItem(ctx context.Context, sessionID, productID, version string) (int, error) {
	unlock := u.locks.Lock(sessionID)
	defer unlock()

	items, err := u.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	kept := items[:0]
	for _, item := range items {
		if !item.Matches(productID, version) {
			kept = append(kept, item)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := u.save(ctx, sessionID, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// RemoveLines drops the (product, version) pairs of ordered in one locked
// read-modify-write. Lines added since ordered was read are kept.
func (u *CartUsecase) RemoveLines(ctx context.Context, sessionID string, ordered []entity.CartItem) (int, error) {
	unlock := u.locks.Lock(sessionID)
	defer unlock()

	items, err := u.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	kept := make([]entity.CartItem, 0, len(items))
	for _, item := range items {
		if !containsLine(ordered, item) {
			kept = append(kept, item)
		}
	}
	removed := len(items) - len(kept)

	switch {
	case removed == 0:
		return 0, nil
	case len(kept) == 0:
		err = u.store.Delete(ctx, sessionID, repository.CartKey)
	default:
		err = u.save(ctx, sessionID, kept)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to remove ordered lines: %w", err)
	}
	return removed, nil
}

func containsLine(lines []entity.CartItem, item entity.CartItem) bool {
	for _, line := range lines {
		if line.Matches(item.ProductID, item.Version) {
			return true
		}
	}
	return false
}

// SelectPeriod makes periodID the active offer of the item. The period list
// itself is never reordered.
func (u *CartUsecase) SelectPeriod(ctx context.Context, sessionID, productID, version, periodID string) (*entity.CartItem, error) {
	unlock := u.locks.Lock(sessionID)
	defer unlock()

	items, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if !items[i].Matches(productID, version) {
			continue
		}
		if !items[i].HasPeriod(periodID) {
			return nil, domainErrors.ErrPeriodNotFound
		}
		items[i].SelectedPeriodID = periodID
		if err := u.save(ctx, sessionID, items); err != nil {
			return nil, err
		}
		selected := items[i]
		return &selected, nil
	}
	return nil, domainErrors.ErrItemNotFound
}

// Clear empties the cart.
func (u *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	unlock := u.locks.Lock(sessionID)
	defer unlock()

	if err := u.store.Delete(ctx, sessionID, repository.CartKey); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Summary prices the cart. An unavailable rate table does not fail the
// summary; the conversion is marked degraded instead.
func (u *CartUsecase) Summary(ctx context.Context, sessionID, currency string) (*CartSummary, error) {
	items, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		line := CartLine{CartItem: item, Price: pricing.ItemPrice(item)}
		if p, ok := item.SelectedPeriod(); ok {
			line.Selected = p.ID
		}
		lines = append(lines, line)
	}
	total := pricing.CartTotal(items)

	var table *entity.RateTable
	if pricing.NormalizeCode(currency) != entity.HomeCurrency {
		table, err = u.rates.Table(ctx)
		if err != nil {
			u.logger.Warn("Showing cart total without conversion", zap.Error(err))
		}
	}

	converted := pricing.Convert(total, currency, table)
	converted.Amount = pricing.Round(converted.Amount)

	return &CartSummary{
		Lines:     lines,
		Count:     len(items),
		TotalEUR:  total,
		Converted: converted,
		Formatted: pricing.Format(converted.Amount, converted.Currency),
	}, nil
}
