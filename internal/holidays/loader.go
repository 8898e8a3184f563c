package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoaderConfig configures where holiday data comes from. FilePath points at
// the bundled year-keyed JSON; FeedURL at a remote bank-holiday feed shaped
// {<division>: {"events": [{"date": "yyyy-mm-dd", ...}, ...]}}.
type LoaderConfig struct {
	FilePath     string
	FeedURL      string
	FeedDivision string
	FetchTimeout time.Duration
}

// Loader populates a Set from the local file and the remote feed. Failures are
// logged and non-fatal: the engine computes against whatever partial set is in
// memory, favoring availability over completeness.
type Loader struct {
	set    *Set
	cfg    LoaderConfig
	client *http.Client
	logger *slog.Logger
}

// NewLoader creates a loader merging into set.
func NewLoader(set *Set, cfg LoaderConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Loader{
		set:    set,
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.With(slog.String("component", "holiday_loader")),
	}
}

// LoadLocal merges the bundled holiday file into the set.
func (l *Loader) LoadLocal() (int, error) {
	if l.cfg.FilePath == "" {
		return 0, nil
	}
	local, err := LoadFile(l.cfg.FilePath)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, year := range local.Years() {
		added += l.set.Add(local.Dates(year)...)
	}
	return added, nil
}

type feedEvent struct {
	Date string `json:"date"`
}

type feedDivision struct {
	Events []feedEvent `json:"events"`
}

// FetchFeed downloads the remote feed and merges the configured division's
// event dates into the set. Merging is idempotent, so refreshing repeatedly is
// safe. It returns the number of newly added dates.
func (l *Loader) FetchFeed(ctx context.Context) (int, error) {
	if l.cfg.FeedURL == "" {
		return 0, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.FeedURL, nil)
	if err != nil {
		return 0, fmt.Errorf("holidays: build feed request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("holidays: fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("holidays: feed returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("holidays: read feed: %w", err)
	}
	var feed map[string]feedDivision
	if err := json.Unmarshal(body, &feed); err != nil {
		return 0, fmt.Errorf("holidays: parse feed: %w", err)
	}
	division, ok := feed[l.cfg.FeedDivision]
	if !ok {
		return 0, fmt.Errorf("holidays: feed has no division %q", l.cfg.FeedDivision)
	}
	dates := make([]string, 0, len(division.Events))
	for _, ev := range division.Events {
		dates = append(dates, ev.Date)
	}
	return l.set.Add(dates...), nil
}

// Load pulls the local file and the remote feed together. Either source
// failing only produces a warning; the engine keeps whatever did load.
func (l *Loader) Load(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		added, err := l.LoadLocal()
		if err != nil {
			l.logger.WarnContext(ctx, "local holiday file unavailable",
				slog.String("path", l.cfg.FilePath),
				slog.String("error", err.Error()))
			return nil
		}
		if added > 0 {
			l.logger.InfoContext(ctx, "loaded local holidays", slog.Int("added", added))
		}
		return nil
	})
	g.Go(func() error {
		added, err := l.FetchFeed(ctx)
		if err != nil {
			l.logger.WarnContext(ctx, "holiday feed unavailable",
				slog.String("url", l.cfg.FeedURL),
				slog.String("error", err.Error()))
			return nil
		}
		if added > 0 {
			l.logger.InfoContext(ctx, "merged holiday feed", slog.Int("added", added))
		}
		return nil
	})
	g.Wait()
}
