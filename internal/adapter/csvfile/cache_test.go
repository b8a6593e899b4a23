package csvfile

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/observability"
)

// --- mock for cache tests ---

type countingLoader struct {
	crimeCalls     int
	weatherCalls   int
	buildingsCalls int
	result         dataframe.DataFrame
	err            error
}

func (m *countingLoader) LoadCrime(_ context.Context, _ string) (dataframe.DataFrame, error) {
	m.crimeCalls++
	return m.result, m.err
}

func (m *countingLoader) LoadWeather(_ context.Context, _ string) (dataframe.DataFrame, error) {
	m.weatherCalls++
	return m.result, m.err
}

func (m *countingLoader) LoadBuildings(_ context.Context, _ string) (dataframe.DataFrame, error) {
	m.buildingsCalls++
	return m.result, m.err
}

func oneCell(v string) dataframe.DataFrame {
	return dataframe.New(series.New([]string{v}, series.String, "v"))
}

// --- CachedLoader tests ---

func TestCachedLoader_CacheHit(t *testing.T) {
	inner := &countingLoader{result: oneCell("crime")}
	cached := NewCachedLoader(inner, 10, observability.NewMetricsForTesting())

	df1, err := cached.LoadCrime(context.Background(), "data/crime.csv")
	require.NoError(t, err)
	assert.Equal(t, "crime", df1.Elem(0, 0).String())

	df2, err := cached.LoadCrime(context.Background(), "data/crime.csv")
	require.NoError(t, err)
	assert.Equal(t, "crime", df2.Elem(0, 0).String())

	assert.Equal(t, 1, inner.crimeCalls, "should only call inner once")
}

func TestCachedLoader_DatasetsDoNotCollide(t *testing.T) {
	inner := &countingLoader{result: oneCell("x")}
	cached := NewCachedLoader(inner, 10, observability.NewMetricsForTesting())

	// Same path through different dataset methods must not share an entry.
	_, err := cached.LoadCrime(context.Background(), "data/same.csv")
	require.NoError(t, err)
	_, err = cached.LoadWeather(context.Background(), "data/same.csv")
	require.NoError(t, err)
	_, err = cached.LoadBuildings(context.Background(), "data/same.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.crimeCalls)
	assert.Equal(t, 1, inner.weatherCalls)
	assert.Equal(t, 1, inner.buildingsCalls)
}

func TestCachedLoader_DifferentPathsMiss(t *testing.T) {
	inner := &countingLoader{result: oneCell("x")}
	cached := NewCachedLoader(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.LoadCrime(context.Background(), "data/a.csv")
	_, _ = cached.LoadCrime(context.Background(), "data/b.csv")

	assert.Equal(t, 2, inner.crimeCalls)
}

func TestCachedLoader_ErrorsNotCached(t *testing.T) {
	inner := &countingLoader{err: errors.New("no such file")}
	cached := NewCachedLoader(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.LoadCrime(context.Background(), "data/missing.csv")
	require.Error(t, err)
	_, err = cached.LoadCrime(context.Background(), "data/missing.csv")
	require.Error(t, err)

	assert.Equal(t, 2, inner.crimeCalls, "failed loads should retry the inner loader")
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", oneCell("A"))
	c.put("b", oneCell("B"))

	df, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", df.Elem(0, 0).String())

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", oneCell("A"))
	c.put("b", oneCell("B"))
	c.put("c", oneCell("C")) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	df, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", df.Elem(0, 0).String())

	df, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", df.Elem(0, 0).String())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", oneCell("A"))
	c.put("b", oneCell("B"))

	// Access "a" to promote it
	c.get("a")

	// Insert "c" — should evict "b" (LRU), not "a"
	c.put("c", oneCell("C"))

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", oneCell("A1"))
	c.put("a", oneCell("A2"))

	df, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", df.Elem(0, 0).String())
}
