package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopcart/catalog"
	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/internal/testutil"
	"github.com/hupe1980/shopcart/slot"
)

type fixture struct {
	catalog  *catalog.InMemoryCatalog
	slot     *slot.InMemory
	flaky    *testutil.FlakySlot
	notifier *testutil.RecordingNotifier
	store    *Store
}

func newFixture(t *testing.T, persisted []byte) *fixture {
	t.Helper()
	f := &fixture{
		catalog:  catalog.NewInMemory(),
		notifier: &testutil.RecordingNotifier{},
	}
	if persisted != nil {
		f.slot = slot.NewInMemoryWith(persisted)
	} else {
		f.slot = slot.NewInMemory()
	}
	f.flaky = testutil.NewFlakySlot(f.slot)
	f.catalog.Put(testutil.SampleProduct(1), 10)
	f.catalog.Put(testutil.SampleProduct(2), 1)
	f.catalog.Put(testutil.SampleProduct(3), 0)

	s, err := New(context.Background(), f.catalog, func(o *Options) {
		o.Slot = f.flaky
		o.Notifier = f.notifier
	})
	require.NoError(t, err)
	f.store = s
	return f
}

func (f *fixture) persisted(t *testing.T) core.Cart {
	t.Helper()
	data, err := f.slot.Load(context.Background())
	require.NoError(t, err)
	c, err := core.DecodeCart(data)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresCatalog(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(context.Background(), catalog.NewInMemory())
	require.NoError(t, err)
	assert.Empty(t, s.Cart())
	assert.NotNil(t, s.Cart())
}

func TestStore_WorkedExample(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	res := f.store.Add(ctx, 1)
	require.True(t, res.OK(), res.Err)
	require.Len(t, res.Cart, 1)
	assert.Equal(t, 1, res.Cart[0].ID)
	assert.Equal(t, 1, res.Cart[0].Amount)

	res = f.store.Add(ctx, 1)
	require.True(t, res.OK(), res.Err)
	assert.Equal(t, 2, res.Cart[0].Amount)

	res = f.store.SetQuantity(ctx, 1, 15)
	assert.Equal(t, core.OutcomeOutOfStock, res.Outcome)
	assert.ErrorIs(t, res.Err, core.ErrOutOfStock)
	assert.False(t, res.Changed)
	assert.Equal(t, 2, f.store.Cart()[0].Amount)

	res = f.store.Remove(ctx, 1)
	require.True(t, res.OK(), res.Err)
	assert.Empty(t, f.store.Cart())
	assert.Empty(t, f.persisted(t))
}

func TestStore_AddNewProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	res := f.store.Add(ctx, 2)

	require.True(t, res.OK())
	assert.True(t, res.Changed)
	assert.Equal(t, core.OpAdd, res.Op)
	want := core.Cart{{Product: testutil.SampleProduct(2), Amount: 1}}
	assert.Equal(t, want, f.store.Cart())
	assert.Equal(t, want, f.persisted(t))

	last, ok := f.notifier.Last()
	require.True(t, ok)
	assert.Equal(t, core.OutcomeSuccess, last.Outcome)
}

func TestStore_AddIncrementRespectsStockCeiling(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.True(t, f.store.Add(ctx, 2).OK())

	res := f.store.Add(ctx, 2)
	assert.Equal(t, core.OutcomeOutOfStock, res.Outcome)
	assert.Equal(t, core.OpAdd, res.Op)
	assert.Equal(t, 1, f.store.Cart()[0].Amount)
	assert.Equal(t, 1, f.slot.Saves())
}

func TestStore_AddOutOfStock(t *testing.T) {
	f := newFixture(t, nil)

	res := f.store.Add(context.Background(), 3)

	assert.Equal(t, core.OutcomeOutOfStock, res.Outcome)
	assert.Empty(t, f.store.Cart())
	assert.Equal(t, 0, f.slot.Saves())
	require.Len(t, f.notifier.Results(), 1)
}

func TestStore_AddUnknownProduct(t *testing.T) {
	f := newFixture(t, nil)

	res := f.store.Add(context.Background(), 99)

	assert.Equal(t, core.OutcomeNotFound, res.Outcome)
	assert.ErrorIs(t, res.Err, core.ErrNotFound)
	assert.Empty(t, f.store.Cart())
}

func TestStore_AddStockWithoutProductIsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.catalog.PutStock(7, 5)

	res := f.store.Add(context.Background(), 7)

	assert.Equal(t, core.OutcomeNotFound, res.Outcome)
	assert.Empty(t, f.store.Cart())
}

func TestStore_AddTransportFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.catalog.Fail(errors.New("connection refused"))

	res := f.store.Add(context.Background(), 1)

	assert.Equal(t, core.OutcomeTransportError, res.Outcome)
	assert.Empty(t, f.store.Cart())
	assert.Equal(t, 0, f.slot.Saves())
}

// delayedCatalog fails both lookups after the configured delays.
type delayedCatalog struct {
	stockDelay, productDelay time.Duration
	stockErr, productErr     error
}

func (c delayedCatalog) Stock(context.Context, int) (core.Stock, error) {
	time.Sleep(c.stockDelay)
	return core.Stock{}, c.stockErr
}

func (c delayedCatalog) Product(context.Context, int) (core.Product, error) {
	time.Sleep(c.productDelay)
	return core.Product{}, c.productErr
}

func TestStore_AddBothLookupsFailStockTakesPrecedence(t *testing.T) {
	notFound := fmt.Errorf("product 9: %w", core.ErrNotFound)
	unavailable := errors.New("503 service unavailable")

	tests := []struct {
		name         string
		stockErr     error
		productErr   error
		stockDelay   time.Duration
		productDelay time.Duration
		want         core.Outcome
	}{
		{"stock transport first", unavailable, notFound, 0, 20 * time.Millisecond, core.OutcomeTransportError},
		{"stock transport last", unavailable, notFound, 20 * time.Millisecond, 0, core.OutcomeTransportError},
		{"stock not found first", notFound, unavailable, 0, 20 * time.Millisecond, core.OutcomeNotFound},
		{"stock not found last", notFound, unavailable, 20 * time.Millisecond, 0, core.OutcomeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := delayedCatalog{
				stockDelay:   tt.stockDelay,
				productDelay: tt.productDelay,
				stockErr:     tt.stockErr,
				productErr:   tt.productErr,
			}
			s, err := New(context.Background(), cat)
			require.NoError(t, err)

			res := s.Add(context.Background(), 9)

			assert.Equal(t, tt.want, res.Outcome)
			assert.ErrorIs(t, res.Err, tt.stockErr)
			assert.False(t, res.Changed)
			assert.Empty(t, s.Cart())
		})
	}
}

func TestStore_AddProductFailureWithStockAvailable(t *testing.T) {
	cat := delayedCatalog{productErr: fmt.Errorf("product 9: %w", core.ErrNotFound)}
	s, err := New(context.Background(), stockOnly{cat})
	require.NoError(t, err)

	res := s.Add(context.Background(), 9)

	assert.Equal(t, core.OutcomeNotFound, res.Outcome)
	assert.Empty(t, s.Cart())
}

// stockOnly reports ample stock and delegates product lookups.
type stockOnly struct{ delayedCatalog }

func (stockOnly) Stock(context.Context, int) (core.Stock, error) {
	return core.Stock{ID: 9, Amount: 5}, nil
}

func TestStore_RemoveAbsent(t *testing.T) {
	f := newFixture(t, testutil.NewCartBuilder().Entry(1, 2).Encoded())

	res := f.store.Remove(context.Background(), 5)

	assert.Equal(t, core.OutcomeNotFound, res.Outcome)
	assert.Equal(t, core.OpRemove, res.Op)
	assert.Len(t, f.store.Cart(), 1)
	assert.Equal(t, 0, f.slot.Saves())
	require.Len(t, f.notifier.Results(), 1)
}

func TestStore_RemoveMakesNoCatalogCall(t *testing.T) {
	f := newFixture(t, testutil.NewCartBuilder().Entry(1, 2).Entry(2, 1).Encoded())

	res := f.store.Remove(context.Background(), 1)

	require.True(t, res.OK())
	assert.Equal(t, testutil.NewCartBuilder().Entry(2, 1).Build(), f.store.Cart())
	assert.Equal(t, 0, f.catalog.Calls("stock"))
	assert.Equal(t, 0, f.catalog.Calls("product"))
}

func TestStore_SetQuantityBelowOneIsIgnored(t *testing.T) {
	f := newFixture(t, testutil.NewCartBuilder().Entry(1, 2).Encoded())

	for _, amount := range []int{0, -1, -100} {
		res := f.store.SetQuantity(context.Background(), 1, amount)
		assert.True(t, res.OK())
		assert.True(t, res.Ignored())
		assert.False(t, res.Changed)
	}

	assert.Equal(t, 2, f.store.Cart()[0].Amount)
	assert.Equal(t, 0, f.catalog.Calls("stock"))
	assert.Equal(t, 0, f.slot.Saves())
	assert.Empty(t, f.notifier.Results())
}

func TestStore_SetQuantityAbsentEntry(t *testing.T) {
	f := newFixture(t, nil)

	res := f.store.SetQuantity(context.Background(), 1, 3)

	assert.Equal(t, core.OutcomeNotFound, res.Outcome)
	assert.Empty(t, f.store.Cart())
	assert.Equal(t, 0, f.catalog.Calls("stock"))
}

func TestStore_SetQuantityBounds(t *testing.T) {
	seed := testutil.NewCartBuilder().Entry(1, 2).Entry(2, 1).Build()

	tests := []struct {
		name    string
		amount  int
		outcome core.Outcome
		want    int
	}{
		{"lower bound", 1, core.OutcomeSuccess, 1},
		{"inside", 7, core.OutcomeSuccess, 7},
		{"exactly stock", 10, core.OutcomeSuccess, 10},
		{"above stock", 11, core.OutcomeOutOfStock, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := core.EncodeCart(seed)
			require.NoError(t, err)
			f := newFixture(t, data)

			res := f.store.SetQuantity(context.Background(), 1, tt.amount)

			assert.Equal(t, tt.outcome, res.Outcome)
			c := f.store.Cart()
			require.Len(t, c, 2)
			assert.Equal(t, tt.want, c[0].Amount)
			assert.Equal(t, seed[1], c[1], "other entries stay untouched")
		})
	}
}

func TestStore_SetQuantityTransportFailure(t *testing.T) {
	f := newFixture(t, testutil.NewCartBuilder().Entry(1, 2).Encoded())
	f.catalog.Fail(errors.New("timeout"))

	res := f.store.SetQuantity(context.Background(), 1, 3)

	assert.Equal(t, core.OutcomeTransportError, res.Outcome)
	assert.Equal(t, 2, f.store.Cart()[0].Amount)
}

func TestStore_PersistFailureKeepsCart(t *testing.T) {
	f := newFixture(t, testutil.NewCartBuilder().Entry(1, 2).Encoded())
	f.flaky.FailSave(errors.New("quota exceeded"))

	res := f.store.SetQuantity(context.Background(), 1, 5)

	assert.Equal(t, core.OutcomeTransportError, res.Outcome)
	assert.ErrorIs(t, res.Err, core.ErrPersist)
	assert.False(t, res.Changed)
	assert.Equal(t, 2, f.store.Cart()[0].Amount)
	assert.Equal(t, 2, res.Cart[0].Amount)

	f.flaky.FailSave(nil)
	res = f.store.Add(context.Background(), 2)
	require.True(t, res.OK())
	assert.Len(t, f.persisted(t), 2)
}

func TestStore_LoadFallbacks(t *testing.T) {
	for name, raw := range map[string][]byte{
		"garbage":      []byte("{not json"),
		"zero amount":  []byte(`[{"id":1,"amount":0}]`),
		"duplicate id": []byte(`[{"id":1,"amount":1},{"id":1,"amount":2}]`),
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, raw)
			assert.Empty(t, f.store.Cart())
		})
	}
}

func TestStore_LoadErrorStartsEmpty(t *testing.T) {
	flaky := testutil.NewFlakySlot(slot.NewInMemoryWith(testutil.NewCartBuilder().Entry(1, 1).Encoded()))
	flaky.FailLoad(errors.New("permission denied"))

	s, err := New(context.Background(), catalog.NewInMemory(), func(o *Options) { o.Slot = flaky })
	require.NoError(t, err)
	assert.Empty(t, s.Cart())
}

func TestStore_RoundTripAcrossSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.True(t, f.store.Add(ctx, 1).OK())
	require.True(t, f.store.Add(ctx, 2).OK())
	require.True(t, f.store.SetQuantity(ctx, 1, 4).OK())

	reloaded, err := New(ctx, f.catalog, func(o *Options) { o.Slot = f.slot })
	require.NoError(t, err)
	assert.Equal(t, f.store.Cart(), reloaded.Cart())
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.NewCartBuilder().Entry(1, 2).Encoded())

	snap := f.store.Cart()
	snap[0].Amount = 99
	assert.Equal(t, 2, f.store.Cart()[0].Amount)

	res := f.store.SetQuantity(ctx, 1, 3)
	require.True(t, res.OK())
	res.Cart[0].Amount = 42
	assert.Equal(t, 3, f.store.Cart()[0].Amount)
}

func TestStore_ConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.catalog.Put(testutil.SampleProduct(50), 1000)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.store.Add(ctx, 50)
		}()
	}
	wg.Wait()

	e, ok := f.store.Cart().Find(50)
	require.True(t, ok)
	assert.Equal(t, n, e.Amount)
	assert.Equal(t, n, f.persisted(t)[0].Amount)
	assert.Len(t, f.notifier.Results(), n)
}

func TestStore_CanceledContext(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.store.Add(ctx, 1)

	assert.Equal(t, core.OutcomeTransportError, res.Outcome)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Empty(t, f.store.Cart())
}
