package services

// ServiceContainer holds instances of all the application services.
// It is the entry point handlers and background loops use.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Ledger       LedgerSvcFacade
	Request      RequestSvcFacade
	Scheduler    SchedulerSvcFacade
	Sync         SyncSvcFacade
	Notification NotificationSvcFacade
}
