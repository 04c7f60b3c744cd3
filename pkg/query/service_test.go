package query

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/kraxel/txquery/pkg/cache"
	"github.com/kraxel/txquery/pkg/config"
	"github.com/kraxel/txquery/pkg/db"
	"github.com/kraxel/txquery/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetTransaction(ctx context.Context, txID string, withEvents bool) (*models.Transaction, error) {
	args := m.Called(ctx, txID, withEvents)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *mockStore) ListTransactions(ctx context.Context, filter models.TransactionFilter, limit, offset int) ([]models.Transaction, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) TransactionsByBlock(ctx context.Context, height uint64) ([]models.Transaction, error) {
	args := m.Called(ctx, height)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Error(1)
}

func (m *mockStore) TransactionsByAddress(ctx context.Context, address string, limit, offset int) ([]models.Transaction, int64, error) {
	args := m.Called(ctx, address, limit, offset)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) ListTokens(ctx context.Context, limit, offset int) ([]models.Token, int64, error) {
	args := m.Called(ctx, limit, offset)
	tokens, _ := args.Get(0).([]models.Token)
	return tokens, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) GetToken(ctx context.Context, contractPrincipal string) (*models.Token, error) {
	args := m.Called(ctx, contractPrincipal)
	t, _ := args.Get(0).(*models.Token)
	return t, args.Error(1)
}

func (m *mockStore) ListSwaps(ctx context.Context, filter models.SwapFilter, limit, offset int) ([]models.Swap, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	swaps, _ := args.Get(0).([]models.Swap)
	return swaps, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) SwapStats(ctx context.Context, period string, filter models.SwapFilter) (*models.SwapStats, error) {
	args := m.Called(ctx, period, filter)
	st, _ := args.Get(0).(*models.SwapStats)
	return st, args.Error(1)
}

func (m *mockStore) LatestPrices(ctx context.Context) ([]models.Price, error) {
	args := m.Called(ctx)
	prices, _ := args.Get(0).([]models.Price)
	return prices, args.Error(1)
}

func (m *mockStore) PriceHistory(ctx context.Context, contractPrincipal string, limit, offset int) ([]models.Price, int64, error) {
	args := m.Called(ctx, contractPrincipal, limit, offset)
	prices, _ := args.Get(0).([]models.Price)
	return prices, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type countingRecorder struct{ hits, misses int }

func (r *countingRecorder) CacheHit()  { r.hits++ }
func (r *countingRecorder) CacheMiss() { r.misses++ }

var testQueryConfig = config.QueryConfig{DefaultLimit: 20, MaxLimit: 100, Timeout: time.Second, HealthTimeout: time.Second}

func newTestService(t *testing.T, store db.Store, opts Options) *Service {
	return New(store, testQueryConfig, zaptest.NewLogger(t), opts)
}

func strp(s string) *string { return &s }

func sampleTx(id string, height uint64, index int32, events ...models.Event) models.Transaction {
	bt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Transaction{
		TxID:          id,
		BlockHeight:   height,
		TxIndex:       index,
		SenderAddress: strp("SP000A"),
		Status:        strp("success"),
		BlockTime:     &bt,
		EventCount:    int64(len(events)),
		Events:        events,
	}
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	var qe *Error
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, kind, qe.Kind, qe.Error())
}

func TestInvalidInputNeverReachesStore(t *testing.T) {
	store := &mockStore{}
	s := newTestService(t, store, Options{})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"empty tx id", func() error { _, err := s.Transaction(ctx, TransactionRequest{}); return err }},
		{"malformed tx id", func() error { _, err := s.Transaction(ctx, TransactionRequest{TxID: "0x12 OR 1=1"}); return err }},
		{"bad include_events", func() error {
			_, err := s.Transaction(ctx, TransactionRequest{TxID: "tx1", IncludeEvents: "maybe"})
			return err
		}},
		{"negative limit", func() error {
			_, err := s.Transactions(ctx, ListRequest{PageRequest: PageRequest{Limit: "-1"}})
			return err
		}},
		{"zero limit", func() error {
			_, err := s.Transactions(ctx, ListRequest{PageRequest: PageRequest{Limit: "0"}})
			return err
		}},
		{"negative offset", func() error {
			_, err := s.Transactions(ctx, ListRequest{PageRequest: PageRequest{Offset: "-5"}})
			return err
		}},
		{"non-numeric height filter", func() error {
			_, err := s.Transactions(ctx, ListRequest{BlockHeight: "abc"})
			return err
		}},
		{"inverted heights", func() error {
			_, err := s.Transactions(ctx, ListRequest{MinHeight: "20", MaxHeight: "10"})
			return err
		}},
		{"inverted times", func() error {
			_, err := s.Transactions(ctx, ListRequest{FromTime: "2025-02-01T00:00:00Z", ToTime: "1735689600"})
			return err
		}},
		{"bad time", func() error {
			_, err := s.Transactions(ctx, ListRequest{FromTime: "yesterday"})
			return err
		}},
		{"negative block", func() error {
			_, err := s.TransactionsByBlock(ctx, BlockRequest{BlockHeight: "-1"})
			return err
		}},
		{"non-numeric block", func() error {
			_, err := s.TransactionsByBlock(ctx, BlockRequest{BlockHeight: "ten"})
			return err
		}},
		{"overflowing block", func() error {
			_, err := s.TransactionsByBlock(ctx, BlockRequest{BlockHeight: "99999999999999999999"})
			return err
		}},
		{"empty address", func() error {
			_, err := s.TransactionsByAddress(ctx, AddressRequest{})
			return err
		}},
		{"malformed address", func() error {
			_, err := s.TransactionsByAddress(ctx, AddressRequest{Address: "SP1/../x"})
			return err
		}},
		{"bad token page", func() error { _, err := s.Tokens(ctx, PageRequest{Limit: "ten"}); return err }},
		{"malformed principal", func() error { _, err := s.Token(ctx, TokenRequest{ContractPrincipal: "a b"}); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireKind(t, tt.call(), KindInvalidArgument)
		})
	}

	store.AssertNotCalled(t, "GetTransaction", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "TransactionsByBlock", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "TransactionsByAddress", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "ListTokens", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "GetToken", mock.Anything, mock.Anything)
}

func TestInvalidArgumentNamesParameter(t *testing.T) {
	s := newTestService(t, &mockStore{}, Options{})

	_, err := s.Transactions(context.Background(), ListRequest{PageRequest: PageRequest{Offset: "-5"}})
	requireKind(t, err, KindInvalidArgument)
	assert.Contains(t, err.Error(), "offset")
}

func TestTransaction(t *testing.T) {
	store := &mockStore{}
	tx := sampleTx("tx1", 100, 0,
		models.Event{TxID: "tx1", EventIndex: 0, EventType: "stx_transfer_event", EventData: json.RawMessage(`{"amount":"1"}`)},
		models.Event{TxID: "tx1", EventIndex: 1, EventType: "ft_transfer_event"},
	)
	store.On("GetTransaction", mock.Anything, "tx1", true).Return(&tx, nil)

	v, err := newTestService(t, store, Options{}).Transaction(context.Background(), TransactionRequest{TxID: "tx1"})
	require.NoError(t, err)

	assert.Equal(t, "tx1", v.TxID)
	require.NotNil(t, v.BlockTime)
	assert.Equal(t, int64(1735689600), *v.BlockTime)
	assert.Equal(t, "2025-01-01T00:00:00Z", *v.Timestamp)
	require.Len(t, v.Events, 2)
	assert.Equal(t, int32(0), v.Events[0].EventIndex)
	assert.Equal(t, int32(1), v.Events[1].EventIndex)
	store.AssertExpectations(t)
}

func TestTransactionWithoutEvents(t *testing.T) {
	store := &mockStore{}
	tx := sampleTx("tx1", 100, 0)
	store.On("GetTransaction", mock.Anything, "tx1", false).Return(&tx, nil)

	v, err := newTestService(t, store, Options{}).Transaction(context.Background(), TransactionRequest{TxID: "tx1", IncludeEvents: "false"})
	require.NoError(t, err)

	require.NotNil(t, v.Events)
	assert.Empty(t, v.Events)
	store.AssertExpectations(t)
}

func TestStoreErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", fmt.Errorf("get_transaction: %w", db.ErrNotFound), KindNotFound},
		{"unavailable", fmt.Errorf("get_transaction: %w: closed pool", db.ErrUnavailable), KindUnavailable},
		{"timeout", fmt.Errorf("get_transaction: %w", db.ErrTimeout), KindTimeout},
		{"internal", fmt.Errorf("get_transaction: %w: relation missing", db.ErrInternal), KindInternal},
		{"foreign", fmt.Errorf("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			store.On("GetTransaction", mock.Anything, "tx1", true).Return(nil, tt.err)

			_, err := newTestService(t, store, Options{}).Transaction(context.Background(), TransactionRequest{TxID: "tx1"})
			requireKind(t, err, tt.want)
			assert.NotContains(t, err.(*Error).Message, "relation missing")
		})
	}
}

func TestTransactionsPaging(t *testing.T) {
	tests := []struct {
		name      string
		limit     string
		offset    string
		wantLimit int
		wantOff   int
	}{
		{"defaults", "", "", 20, 0},
		{"explicit", "10", "0", 10, 0},
		{"clamped", "500", "40", 100, 40},
		{"clamped past int64", "99999999999999999999", "", 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			store.On("ListTransactions", mock.Anything, models.TransactionFilter{}, tt.wantLimit, tt.wantOff).
				Return([]models.Transaction{sampleTx("tx1", 100, 0)}, int64(25), nil)

			page, err := newTestService(t, store, Options{}).Transactions(context.Background(),
				ListRequest{PageRequest: PageRequest{Limit: tt.limit, Offset: tt.offset}})
			require.NoError(t, err)

			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantOff, page.Offset)
			assert.Equal(t, int64(25), page.Total)
			assert.Len(t, page.Items, 1)
			store.AssertExpectations(t)
		})
	}
}

func TestTransactionsFilter(t *testing.T) {
	store := &mockStore{}
	minH, maxH := uint64(10), uint64(20)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	want := models.TransactionFilter{
		Address:   "SP000A",
		Status:    "success",
		MinHeight: &minH,
		MaxHeight: &maxH,
		FromTime:  &from,
	}
	store.On("ListTransactions", mock.Anything, want, 20, 0).Return([]models.Transaction{}, int64(0), nil)

	page, err := newTestService(t, store, Options{}).Transactions(context.Background(), ListRequest{
		Address:   "SP000A",
		Status:    "success",
		MinHeight: "10",
		MaxHeight: "20",
		FromTime:  "1735689600",
	})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	store.AssertExpectations(t)
}

func TestTransactionsByBlockEmpty(t *testing.T) {
	store := &mockStore{}
	store.On("TransactionsByBlock", mock.Anything, uint64(7)).Return(nil, nil)

	res, err := newTestService(t, store, Options{}).TransactionsByBlock(context.Background(), BlockRequest{BlockHeight: "7"})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), res.BlockHeight)
	require.NotNil(t, res.Transactions)
	assert.Empty(t, res.Transactions)
}

func TestTransactionsByAddress(t *testing.T) {
	store := &mockStore{}
	store.On("TransactionsByAddress", mock.Anything, "SP000A", 5, 10).
		Return([]models.Transaction{sampleTx("tx9", 9, 0)}, int64(11), nil)

	page, err := newTestService(t, store, Options{}).TransactionsByAddress(context.Background(),
		AddressRequest{Address: "SP000A", PageRequest: PageRequest{Limit: "5", Offset: "10"}})
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, "tx9", page.Items[0].TxID)
}

func TestTokens(t *testing.T) {
	store := &mockStore{}
	dec := 6.0
	store.On("ListTokens", mock.Anything, 20, 0).
		Return([]models.Token{{ContractPrincipal: "SP000.usda-token", Symbol: strp("USDA"), Decimals: &dec}}, int64(1), nil)
	store.On("GetToken", mock.Anything, "SP000.none").Return(nil, db.ErrNotFound)

	s := newTestService(t, store, Options{})

	page, err := s.Tokens(context.Background(), PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 6.0, *page.Items[0].Decimals)

	_, err = s.Token(context.Background(), TokenRequest{ContractPrincipal: "SP000.none"})
	requireKind(t, err, KindNotFound)
}

func TestCacheHitSkipsStore(t *testing.T) {
	store := &mockStore{}
	tx := sampleTx("tx1", 100, 0, models.Event{TxID: "tx1", EventType: "stx_transfer_event", EventData: json.RawMessage(`{"amount":"1"}`)})
	store.On("GetTransaction", mock.Anything, "tx1", true).Return(&tx, nil).Once()

	rec := &countingRecorder{}
	s := newTestService(t, store, Options{Cache: cache.NewMemory(time.Minute, 10), Recorder: rec})

	first, err := s.Transaction(context.Background(), TransactionRequest{TxID: "tx1"})
	require.NoError(t, err)
	second, err := s.Transaction(context.Background(), TransactionRequest{TxID: "tx1", IncludeEvents: "true"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	store.AssertNumberOfCalls(t, "GetTransaction", 1)
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
}

func TestErrorsAreNotCached(t *testing.T) {
	store := &mockStore{}
	store.On("GetTransaction", mock.Anything, "tx-missing", true).Return(nil, db.ErrNotFound)

	s := newTestService(t, store, Options{Cache: cache.NewMemory(time.Minute, 10)})
	for i := 0; i < 2; i++ {
		_, err := s.Transaction(context.Background(), TransactionRequest{TxID: "tx-missing"})
		requireKind(t, err, KindNotFound)
	}
	store.AssertNumberOfCalls(t, "GetTransaction", 2)
}

func TestHealth(t *testing.T) {
	store := &mockStore{}
	store.On("Ping", mock.Anything).Return(nil).Once()
	store.On("Ping", mock.Anything).Return(fmt.Errorf("ping: %w", db.ErrUnavailable)).Once()
	store.On("Ping", mock.Anything).Return(fmt.Errorf("ping: %w", db.ErrInternal)).Once()

	s := newTestService(t, store, Options{Cache: cache.NewMemory(time.Minute, 10)})

	require.NoError(t, s.Health(context.Background()))
	requireKind(t, s.Health(context.Background()), KindUnavailable)
	requireKind(t, s.Health(context.Background()), KindUnavailable)
	store.AssertNumberOfCalls(t, "Ping", 3)
}

func TestCacheKeyIsNormalized(t *testing.T) {
	h := uint64(100)
	a := cacheKey("txs", filterParams(models.TransactionFilter{BlockHeight: &h, Status: "success"}, 20, 0))
	b := cacheKey("txs", filterParams(models.TransactionFilter{Status: "success", BlockHeight: &h}, 20, 0))
	c := cacheKey("txs", filterParams(models.TransactionFilter{Status: "success"}, 20, 0))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "txs?block_height=100&limit=20&offset=0&status=success", a)
}

func int64p(n int64) *int64 { return &n }

func TestSwapsDateRange(t *testing.T) {
	store := &mockStore{}
	want := models.SwapFilter{From: int64p(1735689600), To: int64p(1735862399)}
	store.On("ListSwaps", mock.Anything, want, 20, 0).
		Return([]models.Swap{{TxID: "swap1", BlockTime: int64p(1735700000), SwapDetails: json.RawMessage(`[{"in_asset":"SP000.usda-token"}]`)}}, int64(1), nil)

	page, err := newTestService(t, store, Options{}).Swaps(context.Background(),
		SwapsRequest{DateRange: DateRange{StartDate: "2025-01-01", EndDate: "2025-01-02"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2025-01-01T02:53:20Z", *page.Items[0].Timestamp)
	assert.JSONEq(t, `[{"in_asset":"SP000.usda-token"}]`, string(page.Items[0].SwapDetails))
	store.AssertExpectations(t)
}

func TestSwapsByContractAndUser(t *testing.T) {
	store := &mockStore{}
	store.On("ListSwaps", mock.Anything, models.SwapFilter{Contract: "SP000.usda-token", UserAddress: "SP000A"}, 5, 0).
		Return([]models.Swap{}, int64(0), nil)
	store.On("ListSwaps", mock.Anything, models.SwapFilter{UserAddress: "SP000A"}, 20, 10).
		Return([]models.Swap{{TxID: "swap2"}}, int64(11), nil)

	s := newTestService(t, store, Options{})

	page, err := s.SwapsByContract(context.Background(), SwapsByContractRequest{
		ContractPrincipal: "SP000.usda-token",
		UserAddress:       "SP000A",
		PageRequest:       PageRequest{Limit: "5"},
	})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	page, err = s.SwapsByUser(context.Background(), SwapsByUserRequest{UserAddress: "SP000A", PageRequest: PageRequest{Offset: "10"}})
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Nil(t, page.Items[0].Timestamp)
	store.AssertExpectations(t)
}

func TestSwapStats(t *testing.T) {
	store := &mockStore{}
	week := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	store.On("SwapStats", mock.Anything, "week", models.SwapFilter{Contract: "SP000.usda-token"}).Return(&models.SwapStats{
		Periods: []models.SwapPeriodStats{{Period: &week, SwapCount: 4, UniqueUsers: 2}, {SwapCount: 1, UniqueUsers: 1}},
		Totals:  models.SwapTotals{TotalSwaps: 5, TotalUniqueUsers: 3, TotalTransactions: 5},
	}, nil)
	store.On("SwapStats", mock.Anything, "day", models.SwapFilter{}).Return(&models.SwapStats{}, nil)

	s := newTestService(t, store, Options{})

	st, err := s.SwapStats(context.Background(), SwapStatsRequest{Period: "week", Token: "SP000.usda-token"})
	require.NoError(t, err)
	require.Len(t, st.PeriodStats, 2)
	assert.Equal(t, "2024-12-30", *st.PeriodStats[0].Period)
	assert.Nil(t, st.PeriodStats[1].Period)
	assert.Equal(t, int64(5), st.TotalStats.TotalSwaps)

	st, err = s.SwapStats(context.Background(), SwapStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "day", st.Period)
	assert.NotNil(t, st.PeriodStats)
	store.AssertExpectations(t)
}

func TestInvalidSwapAndPriceInputNeverReachesStore(t *testing.T) {
	store := &mockStore{}
	s := newTestService(t, store, Options{})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"bad start date", func() error {
			_, err := s.Swaps(ctx, SwapsRequest{DateRange: DateRange{StartDate: "01/02/2025"}})
			return err
		}},
		{"impossible date", func() error {
			_, err := s.Swaps(ctx, SwapsRequest{DateRange: DateRange{EndDate: "2025-02-30"}})
			return err
		}},
		{"inverted dates", func() error {
			_, err := s.Swaps(ctx, SwapsRequest{DateRange: DateRange{StartDate: "2025-02-01", EndDate: "2025-01-01"}})
			return err
		}},
		{"malformed contract", func() error {
			_, err := s.SwapsByContract(ctx, SwapsByContractRequest{ContractPrincipal: "a%b"})
			return err
		}},
		{"missing user", func() error { _, err := s.SwapsByUser(ctx, SwapsByUserRequest{}); return err }},
		{"unknown period", func() error { _, err := s.SwapStats(ctx, SwapStatsRequest{Period: "hour"}); return err }},
		{"bad price page", func() error {
			_, err := s.PriceHistory(ctx, PriceHistoryRequest{ContractPrincipal: "SP000.usda-token", PageRequest: PageRequest{Limit: "0"}})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireKind(t, tt.call(), KindInvalidArgument)
		})
	}

	store.AssertNotCalled(t, "ListSwaps", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "SwapStats", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "PriceHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPeriodErrorListsChoices(t *testing.T) {
	_, err := newTestService(t, &mockStore{}, Options{}).SwapStats(context.Background(), SwapStatsRequest{Period: "hour"})
	requireKind(t, err, KindInvalidArgument)
	assert.Equal(t, "period must be one of day, week, month", err.(*Error).Message)
}

func TestPrices(t *testing.T) {
	store := &mockStore{}
	price, tvl := 1.02, 350000.0
	store.On("LatestPrices", mock.Anything).
		Return([]models.Price{{ContractPrincipal: "SP000.usda-token", Price: &price, TVL: &tvl}}, nil).Once()
	store.On("PriceHistory", mock.Anything, "SP000.usda-token", 20, 0).
		Return([]models.Price{{ContractPrincipal: "SP000.usda-token", Price: &price}}, int64(30), nil)
	store.On("PriceHistory", mock.Anything, "SP000.down", 20, 0).
		Return(nil, int64(0), fmt.Errorf("price_history: %w", db.ErrUnavailable))

	s := newTestService(t, store, Options{Cache: cache.NewMemory(time.Minute, 10)})

	latest, err := s.LatestPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, 350000.0, *latest[0].TVL)

	again, err := s.LatestPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, latest, again)
	store.AssertNumberOfCalls(t, "LatestPrices", 1)

	page, err := s.PriceHistory(context.Background(), PriceHistoryRequest{ContractPrincipal: "SP000.usda-token"})
	require.NoError(t, err)
	assert.Equal(t, int64(30), page.Total)

	_, err = s.PriceHistory(context.Background(), PriceHistoryRequest{ContractPrincipal: "SP000.down"})
	requireKind(t, err, KindUnavailable)
}

func TestParseDateRangeCoversWholeEndDay(t *testing.T) {
	from, to, qerr := parseDateRange(DateRange{StartDate: "2025-01-01", EndDate: "2025-01-01"})
	require.Nil(t, qerr)
	assert.Equal(t, int64(1735689600), *from)
	assert.Equal(t, int64(1735689600+86399), *to)

	from, to, qerr = parseDateRange(DateRange{})
	require.Nil(t, qerr)
	assert.Nil(t, from)
	assert.Nil(t, to)
}
