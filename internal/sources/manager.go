package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
	"github.com/Armin-kho/satta-result-bot/internal/tracker"
)

const userAgent = "Mozilla/5.0 (compatible; SattaResultBot/1.0; +https://github.com/Armin-kho/satta-result-bot)"

type Options struct {
	URL     string
	Timeout time.Duration
	Retries int
	// CacheTTL keeps a fetched page around so cycles close together share it.
	CacheTTL time.Duration
	Aliases  []markets.Alias
}

type cacheEntry struct {
	body []byte
	at   time.Time
}

// Manager fetches the result page and turns it into snapshots.
type Manager struct {
	url    string
	client *resty.Client
	norm   *markets.Normalizer
	log    logrus.FieldLogger
	now    func() time.Time

	mu    sync.Mutex
	ttl   time.Duration
	cache cacheEntry
}

func NewManager(opts Options, log logrus.FieldLogger) *Manager {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	aliases := opts.Aliases
	if aliases == nil {
		aliases = markets.DefaultAliases
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500 || r.StatusCode() == 429
		})

	return &Manager{
		url:    opts.URL,
		client: client,
		norm:   markets.NewNormalizer(aliases),
		log:    log.WithField("component", "sources"),
		now:    time.Now,
		ttl:    opts.CacheTTL,
	}
}

// Fetch returns the snapshot of day. live names the markets whose live-board
// value may be trusted for day. Errors mean the page could not be fetched or
// parsed; the caller should skip the cycle.
func (m *Manager) Fetch(ctx context.Context, day string, live []markets.Market) (tracker.Snapshot, error) {
	body, err := m.page(ctx)
	if err != nil {
		return tracker.Snapshot{}, err
	}
	values, err := ParsePage(body, day, live, m.norm)
	if err != nil {
		return tracker.Snapshot{}, err
	}
	m.log.WithFields(logrus.Fields{"day": day, "markets": len(values), "live": len(live)}).Debug("page parsed")
	return tracker.NewSnapshot(day, m.now(), values), nil
}

func (m *Manager) page(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	if m.ttl > 0 && !m.cache.at.IsZero() && m.now().Sub(m.cache.at) < m.ttl {
		ce := m.cache
		m.mu.Unlock()
		return ce.body, nil
	}
	m.mu.Unlock()

	body, err := m.get(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache = cacheEntry{body: body, at: m.now()}
	m.mu.Unlock()
	return body, nil
}

func (m *Manager) get(ctx context.Context) ([]byte, error) {
	if m.url == "" {
		return nil, errors.New("result url is not configured")
	}
	resp, err := m.client.R().SetContext(ctx).Get(m.url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", m.url, err)
	}
	if resp.IsError() {
		snip := strings.TrimSpace(resp.String())
		if len(snip) > 200 {
			snip = snip[:200]
		}
		return nil, fmt.Errorf("fetch %s: http %d: %s", m.url, resp.StatusCode(), snip)
	}
	return resp.Body(), nil
}
