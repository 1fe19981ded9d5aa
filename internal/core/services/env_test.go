package services_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/casa_ledger/internal/adapters/localqueue"
	"github.com/SscSPs/casa_ledger/internal/adapters/memory"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/core/services"
	"github.com/SscSPs/casa_ledger/internal/dto"
	"github.com/SscSPs/casa_ledger/internal/platform/events"
)

// MockDispatcher records every dispatched notification id.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, notificationID string) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}

// MockLocker is a mock type for the cross-process scheduler lock.
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}

// fakeConnectivity is a hand-driven online flag.
type fakeConnectivity struct {
	mu     sync.Mutex
	online bool
	subs   []chan bool
}

func (f *fakeConnectivity) Online() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online
}

func (f *fakeConnectivity) Subscribe(ctx context.Context) <-chan bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan bool, 8)
	f.subs = append(f.subs, ch)
	return ch
}

func (f *fakeConnectivity) Set(online bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online = online
	for _, ch := range f.subs {
		select {
		case ch <- online:
		default:
		}
	}
}

// testClock is a settable clock shared by every service in an env.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	ctx        context.Context
	store      *memory.Store
	queue      *localqueue.FileQueue
	conn       *fakeConnectivity
	bus        *events.Bus
	dispatcher *MockDispatcher
	clock      *testClock
	svc        *portssvc.ServiceContainer
}

var baseTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

type envOption func(*services.Dependencies)

func withLocker(l portssvc.Locker) envOption {
	return func(d *services.Dependencies) { d.Scheduler.Locker = l }
}

// withQueueWrapper decorates the file queue, e.g. to pause inside a call.
func withQueueWrapper(wrap func(portsrepo.QueueStore) portsrepo.QueueStore) envOption {
	return func(d *services.Dependencies) { d.Queue = wrap(d.Queue) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	queue, err := localqueue.OpenFileQueue(filepath.Join(t.TempDir(), "queue.json"))
	require.NoError(t, err)

	env := &testEnv{
		ctx:        context.Background(),
		store:      memory.NewStore(),
		queue:      queue,
		conn:       &fakeConnectivity{online: true},
		bus:        events.NewBus(),
		dispatcher: new(MockDispatcher),
		clock:      &testClock{now: baseTime},
	}
	env.dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil).Maybe()

	deps := services.Dependencies{
		Store:        env.store,
		Queue:        queue,
		Connectivity: env.conn,
		Bus:          env.bus,
		Dispatcher:   env.dispatcher,
		Clock:        env.clock.Now,
		Sync:         services.SyncConfig{MaxRetries: 3},
	}
	for _, opt := range opts {
		opt(&deps)
	}
	env.svc, err = services.NewServiceContainer(deps)
	require.NoError(t, err)
	require.NoError(t, env.svc.Account.EnsureCasa(env.ctx))
	return env
}

// seed sets an account balance directly in the store.
func (e *testEnv) seed(t *testing.T, ref domain.AccountRef, balance string) {
	t.Helper()
	batch := portsrepo.NewBatch().Put(ref.Path(), domain.Account{
		Ref:         ref,
		Balance:     decimal.RequireFromString(balance),
		LastUpdated: baseTime,
	})
	require.NoError(t, e.store.Commit(e.ctx, batch))
}

func (e *testEnv) balance(t *testing.T, ref domain.AccountRef) decimal.Decimal {
	t.Helper()
	acc, err := e.svc.Account.GetAccount(e.ctx, ref)
	require.NoError(t, err)
	return acc.Balance
}

func (e *testEnv) transactions(t *testing.T) []domain.Transaction {
	t.Helper()
	page, err := e.svc.Ledger.ListTransactions(e.ctx, dto.ListTransactionsParams{Limit: 200})
	require.NoError(t, err)
	return page.Transactions
}

func (e *testEnv) notifications(t *testing.T, recipient domain.UserID) []domain.Notification {
	t.Helper()
	list, err := e.svc.Notification.ListNotifications(e.ctx, recipient)
	require.NoError(t, err)
	return list
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
