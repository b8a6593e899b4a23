package csvfile

import (
	"container/list"
	"context"
	"sync"

	"github.com/go-gota/gota/dataframe"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/observability"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/pipeline"
)

// CachedLoader wraps a DatasetLoader with an in-memory LRU cache keyed by
// dataset and path, so validation phases that reload the same files do not
// reparse them.
type CachedLoader struct {
	inner   pipeline.DatasetLoader
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedLoader creates a cache decorator around a dataset loader.
func NewCachedLoader(inner pipeline.DatasetLoader, maxEntries int, metrics *observability.Metrics) *CachedLoader {
	return &CachedLoader{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedLoader) LoadCrime(ctx context.Context, path string) (dataframe.DataFrame, error) {
	return c.load(ctx, "crime:"+path, path, c.inner.LoadCrime)
}

func (c *CachedLoader) LoadWeather(ctx context.Context, path string) (dataframe.DataFrame, error) {
	return c.load(ctx, "weather:"+path, path, c.inner.LoadWeather)
}

func (c *CachedLoader) LoadBuildings(ctx context.Context, path string) (dataframe.DataFrame, error) {
	return c.load(ctx, "buildings:"+path, path, c.inner.LoadBuildings)
}

func (c *CachedLoader) load(ctx context.Context, key, path string,
	loadFn func(context.Context, string) (dataframe.DataFrame, error)) (dataframe.DataFrame, error) {

	if df, ok := c.cache.get(key); ok {
		c.metrics.LoaderCache.WithLabelValues("hit").Inc()
		return df, nil
	}
	c.metrics.LoaderCache.WithLabelValues("miss").Inc()

	df, err := loadFn(ctx, path)
	if err != nil {
		return df, err
	}
	c.cache.put(key, df)
	return df, nil
}

// lruCache holds up to maxEntries parsed tables and evicts the one touched
// longest ago. Parsed frames are cheap to copy (column slices are shared), so
// get hands out the stored value directly.
type lruCache struct {
	maxEntries int

	mu    sync.Mutex
	order *list.List               // front is most recently used
	items map[string]*list.Element // element values are *cacheItem
}

type cacheItem struct {
	key string
	df  dataframe.DataFrame
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (dataframe.DataFrame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return dataframe.DataFrame{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheItem).df, true
}

func (c *lruCache) put(key string, df dataframe.DataFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheItem).df = df
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&cacheItem{key: key, df: df})

	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheItem).key)
	}
}
