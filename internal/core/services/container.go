package services

import (
	"fmt"
	"time"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/SscSPs/casa_ledger/internal/platform/events"
)

// Dependencies are the adapters and settings the services are built from.
type Dependencies struct {
	Store        portsrepo.Store
	Queue        portsrepo.QueueStore
	Connectivity portssvc.Connectivity
	Bus          *events.Bus
	// Dispatcher is optional; without one notifications are only stored.
	Dispatcher      portssvc.Dispatcher
	DispatchTimeout time.Duration
	Clock           Clock
	Scheduler       SchedulerConfig
	Sync            SyncConfig
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Every money-moving service shares one ledger core, so the per-account locks cover them all.
func NewServiceContainer(deps Dependencies) (*portssvc.ServiceContainer, error) {
	if deps.Store == nil || deps.Queue == nil || deps.Connectivity == nil {
		return nil, fmt.Errorf("store, queue and connectivity are required")
	}
	if deps.Bus == nil {
		deps.Bus = events.NewBus()
	}

	notifier := newNotifier(deps.Dispatcher, deps.DispatchTimeout)
	core := newLedgerCore(deps.Store, notifier, deps.Clock)

	accounts := newAccountService(core)
	ledger := newLedgerService(core)
	requests := newRequestService(core)

	syncSvc, err := newSyncService(deps, accounts, requests, ledger)
	if err != nil {
		return nil, err
	}

	return &portssvc.ServiceContainer{
		Account:      accounts,
		Ledger:       ledger,
		Request:      requests,
		Scheduler:    newSchedulerService(core, deps.Scheduler),
		Sync:         syncSvc,
		Notification: NewNotificationService(deps.Store, deps.Clock),
	}, nil
}

func newSyncService(deps Dependencies, accounts portssvc.AccountReaderSvc, requests portssvc.RequestWriterSvc, ledger portssvc.LedgerWriterSvc) (*syncService, error) {
	schemas, err := loadPayloadSchemas()
	if err != nil {
		return nil, err
	}
	maxRetries := deps.Sync.MaxRetries
	if maxRetries <= 0 {
		maxRetries = domain.DefaultMaxRetries
	}
	maxAge := deps.Sync.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultQueueMaxAge
	}
	return &syncService{
		BaseService: BaseService{Clock: deps.Clock},
		queue:       deps.Queue,
		conn:        deps.Connectivity,
		bus:         deps.Bus,
		accounts:    accounts,
		requests:    requests,
		ledger:      ledger,
		schemas:     schemas,
		maxRetries:  maxRetries,
		maxAge:      maxAge,
	}, nil
}
