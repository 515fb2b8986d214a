package services

// ServiceContainer holds all service facades the HTTP layer depends on.
type ServiceContainer struct {
	Tenant  TenantSvcFacade
	Account AccountSvcFacade
	Period  PeriodSvcFacade
	Posting PostingSvcFacade
	Invoice InvoiceSvcFacade
	Bill    BillSvcFacade
	Banking BankingSvcFacade
	Payment PaymentSvcFacade
	Asset   AssetSvcFacade
	Party   PartySvcFacade
}
