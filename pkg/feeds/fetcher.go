package feeds

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samvad-hq/roli/pkg/roli"
)

// fetcherRegistry implements FetcherRegistry.
type fetcherRegistry struct {
	byID   map[string]Fetcher
	byType map[string]Fetcher
	mu     sync.RWMutex
}

// NewFetcherRegistry builds a registry keyed by feed type, with optional
// fetchers bound to a specific feed id that take precedence.
func NewFetcherRegistry(typeFetchers map[string]Fetcher, idFetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		byID:   make(map[string]Fetcher),
		byType: make(map[string]Fetcher),
	}
	for typ, f := range typeFetchers {
		reg.register(reg.byType, typ, f)
	}
	for _, f := range idFetchers {
		if f != nil {
			reg.register(reg.byID, f.ID(), f)
		}
	}
	return reg
}

func (r *fetcherRegistry) register(into map[string]Fetcher, key string, f Fetcher) {
	key = strings.ToLower(strings.TrimSpace(key))
	if f == nil || key == "" {
		return
	}
	r.mu.Lock()
	into[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the feed by id, then by type.
func (r *fetcherRegistry) FetcherFor(f Feed) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(f.ID) == "" {
		return nil, fmt.Errorf("feed id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if fetcher, ok := r.byID[strings.ToLower(strings.TrimSpace(f.ID))]; ok {
		return fetcher, nil
	}
	if fetcher, ok := r.byType[strings.ToLower(strings.TrimSpace(f.Type))]; ok {
		return fetcher, nil
	}
	return nil, fmt.Errorf("no fetcher registered for feed %q (type %q)", f.ID, f.Type)
}

// ClientSource serves every feed from client, cloning it once per distinct
// user_agent override.
func ClientSource(client *roli.Client) SourceFunc {
	var (
		mu   sync.Mutex
		byUA = map[string]*roli.Client{}
	)
	return func(f Feed) Source {
		ua := ConfigString(f, ConfigUserAgentKey, "")
		if ua == "" {
			return client
		}
		mu.Lock()
		defer mu.Unlock()
		c, ok := byUA[ua]
		if !ok {
			c = client.With(roli.WithUserAgent(ua))
			byUA[ua] = c
		}
		return c
	}
}

// DefaultFetcherRegistry wires the built-in feed types over one client.
func DefaultFetcherRegistry(client *roli.Client) FetcherRegistry {
	if client == nil {
		client = roli.New()
	}
	src := ClientSource(client)
	return NewFetcherRegistry(map[string]Fetcher{
		TypeDeals:    NewDealsFetcher(src),
		TypeSales:    NewSalesFetcher(src),
		TypeTradeAds: NewTradeAdsFetcher(src),
	})
}
