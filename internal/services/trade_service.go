package services

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"lmedesk/internal/calendar"
	"lmedesk/internal/holidays"
	"lmedesk/internal/trade"
)

// TradeMetrics counts resolution outcomes and feed refreshes.
type TradeMetrics struct {
	Resolved     prometheus.Counter
	Failed       prometheus.Counter
	FeedRefresh  prometheus.Counter
	FeedFailures prometheus.Counter
}

// NewTradeMetrics registers the service counters on the given registerer.
func NewTradeMetrics(reg prometheus.Registerer) *TradeMetrics {
	m := &TradeMetrics{
		Resolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmedesk_trades_resolved_total",
			Help: "Trades resolved into request text.",
		}),
		Failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmedesk_trade_failures_total",
			Help: "Trades rejected by validation.",
		}),
		FeedRefresh: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmedesk_holiday_feed_refreshes_total",
			Help: "Successful holiday feed refreshes.",
		}),
		FeedFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmedesk_holiday_feed_failures_total",
			Help: "Failed holiday feed refreshes.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Resolved, m.Failed, m.FeedRefresh, m.FeedFailures)
	}
	return m
}

// TradeService wraps the resolver for transport consumption: batch
// resolution, calendar lookups, and holiday refreshes, with logging and
// metrics around the pure engine.
type TradeService struct {
	resolver *trade.Resolver
	set      *holidays.Set
	loader   *holidays.Loader
	logger   *slog.Logger
	metrics  *TradeMetrics
}

// NewTradeService builds the service. loader may be nil when no refresh
// source is configured; metrics may be nil in tests.
func NewTradeService(resolver *trade.Resolver, set *holidays.Set, loader *holidays.Loader, logger *slog.Logger, metrics *TradeMetrics) *TradeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TradeService{
		resolver: resolver,
		set:      set,
		loader:   loader,
		logger:   logger.With(slog.String("component", "trade_service")),
		metrics:  metrics,
	}
}

// ResolveBatch resolves a batch of trades into per-trade results and the
// aggregated output block. Individual trade failures are recorded in their
// result and never abort the batch.
func (s *TradeService) ResolveBatch(ctx context.Context, company string, trades []trade.Trade) ([]trade.BatchResult, string) {
	results, block := s.resolver.ResolveBatch(company, trades)

	resolved, failed := 0, 0
	for _, res := range results {
		if res.Error != nil {
			failed++
		} else {
			resolved++
		}
	}
	if s.metrics != nil {
		s.metrics.Resolved.Add(float64(resolved))
		s.metrics.Failed.Add(float64(failed))
	}
	s.logger.InfoContext(ctx, "batch resolved",
		slog.Int("trades", len(trades)),
		slog.Int("resolved", resolved),
		slog.Int("failed", failed),
	)
	return results, block
}

// Resolve resolves a single trade.
func (s *TradeService) Resolve(ctx context.Context, t trade.Trade) (*trade.Result, error) {
	res, err := s.resolver.Resolve(t)
	if s.metrics != nil {
		if err != nil {
			s.metrics.Failed.Inc()
		} else {
			s.metrics.Resolved.Inc()
		}
	}
	return res, err
}

// SecondBusinessDay returns the standard averaging-leg settlement date for a
// zero-based pricing month.
func (s *TradeService) SecondBusinessDay(year, month0 int) string {
	return s.resolver.Calculator().SecondBusinessDay(year, month0)
}

// LastBusinessDay returns the last business day of a zero-based pricing month.
func (s *TradeService) LastBusinessDay(year, month0 int) string {
	return s.resolver.Calculator().LastBusinessDay(year, month0)
}

// FixPPT returns the settlement date two business days after the given
// fixing date.
func (s *TradeService) FixPPT(dateStr string) (string, error) {
	return s.resolver.Calculator().FixPPT(dateStr)
}

// Adapter exposes the active calendar adapter.
func (s *TradeService) Adapter() calendar.Adapter {
	return s.resolver.Calculator().Adapter()
}

// HolidayDates returns the recorded holidays for a year.
func (s *TradeService) HolidayDates(year int) []string {
	return s.set.Dates(year)
}

// HolidayYears returns the years with recorded holidays.
func (s *TradeService) HolidayYears() []int {
	return s.set.Years()
}

// RefreshHolidays pulls the remote feed and merges it into the set.
func (s *TradeService) RefreshHolidays(ctx context.Context) (int, error) {
	if s.loader == nil {
		return 0, nil
	}
	added, err := s.loader.FetchFeed(ctx)
	if s.metrics != nil {
		if err != nil {
			s.metrics.FeedFailures.Inc()
		} else {
			s.metrics.FeedRefresh.Inc()
		}
	}
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "holiday feed refreshed", slog.Int("added", added))
	return added, nil
}
