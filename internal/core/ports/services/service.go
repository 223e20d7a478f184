package ports

// ServiceContainer bundles the services handed to the HTTP layer.
type ServiceContainer struct {
	LedgerSvc      LedgerService
	AccountSvc     AccountService
	UserSvc        UserService
	CompanySvc     CompanyService
	TokenSvc       TokenService
	GoogleOAuthSvc GoogleOAuthService
}
