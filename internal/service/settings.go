package service

import (
	"context"
	"strconv"

	"costbook/internal/config"
	"costbook/internal/repository"

	"github.com/google/uuid"
)

// Settings is the immutable snapshot handed to every collector invocation.
// Collectors never read global state; they see exactly one snapshot per
// aggregation run, which keeps them pure and independently testable.
type Settings struct {
	Currency            string
	InternalPriceBreaks bool
	StockItemPricing    bool
	StaleDays           int
	MaxPropagationDepth int
	DecimalPlaces       int32
}

// Setting keys for the runtime overlay table.
const (
	SettingDefaultCurrency     = "pricing.default_currency"
	SettingInternalPriceBreaks = "pricing.internal_price_breaks"
	SettingStockItemPricing    = "pricing.stock_item_pricing"
	SettingStaleDays           = "pricing.stale_days"
)

// RecalcEnqueuer pushes part-recalculation jobs onto the async queue.
// Implemented by worker.Dispatcher; stubbed in tests.
type RecalcEnqueuer interface {
	EnqueueRecalc(ctx context.Context, partID uuid.UUID, counter int) error
}

// SettingsService resolves effective pricing settings: env config supplies
// the defaults, the settings table overrides them at runtime.
type SettingsService interface {
	Snapshot(ctx context.Context) (Settings, error)
	SetCurrency(ctx context.Context, currency string) (changed bool, err error)
	SetFlag(ctx context.Context, key string, on bool) error
	SetStaleDays(ctx context.Context, days int) error
}

type settingsService struct {
	repo repository.SettingRepository
	cfg  *config.Config
}

func NewSettingsService(repo repository.SettingRepository, cfg *config.Config) SettingsService {
	return &settingsService{repo: repo, cfg: cfg}
}

func (s *settingsService) Snapshot(ctx context.Context) (Settings, error) {
	set := Settings{
		Currency:            s.cfg.DefaultCurrency,
		InternalPriceBreaks: s.cfg.InternalPriceBreaks,
		StockItemPricing:    s.cfg.StockItemPricing,
		StaleDays:           s.cfg.StaleDays,
		MaxPropagationDepth: s.cfg.MaxPropagationDepth,
		DecimalPlaces:       int32(s.cfg.DecimalPlaces),
	}

	if v, ok, err := s.repo.Get(ctx, SettingDefaultCurrency); err != nil {
		return set, err
	} else if ok && v != "" {
		set.Currency = v
	}
	if v, ok, err := s.repo.Get(ctx, SettingInternalPriceBreaks); err != nil {
		return set, err
	} else if ok {
		set.InternalPriceBreaks = v == "true"
	}
	if v, ok, err := s.repo.Get(ctx, SettingStockItemPricing); err != nil {
		return set, err
	} else if ok {
		set.StockItemPricing = v == "true"
	}
	if v, ok, err := s.repo.Get(ctx, SettingStaleDays); err != nil {
		return set, err
	} else if ok {
		if days, perr := strconv.Atoi(v); perr == nil && days > 0 {
			set.StaleDays = days
		}
	}
	return set, nil
}

func (s *settingsService) SetCurrency(ctx context.Context, currency string) (bool, error) {
	cur, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	if cur.Currency == currency {
		return false, nil
	}
	return true, s.repo.Set(ctx, SettingDefaultCurrency, currency)
}

func (s *settingsService) SetFlag(ctx context.Context, key string, on bool) error {
	return s.repo.Set(ctx, key, strconv.FormatBool(on))
}

func (s *settingsService) SetStaleDays(ctx context.Context, days int) error {
	return s.repo.Set(ctx, SettingStaleDays, strconv.Itoa(days))
}
