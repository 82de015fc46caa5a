package app

import (
	"fmt"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	authHTTP "github.com/centrala/rainfall-gate/internal/auth/http"
	authRepository "github.com/centrala/rainfall-gate/internal/auth/repository"
	authService "github.com/centrala/rainfall-gate/internal/auth/service"
	authUseCase "github.com/centrala/rainfall-gate/internal/auth/usecase"
)

// TokenService returns the signer and verifier for credentials.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = authService.NewTokenService(c.config.JWTSecret, c.config.AuthTokenExpiration)
		if err != nil {
			c.setInitError("tokenService", fmt.Errorf("failed to create token service: %w", err))
		}
	})
	if storedErr := c.initError("tokenService"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// PasswordService returns the password hasher.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	var err error
	c.passwordServiceInit.Do(func() {
		c.passwordService, err = authService.NewPasswordService()
		if err != nil {
			c.setInitError("passwordService", fmt.Errorf("failed to create password service: %w", err))
		}
	})
	if storedErr := c.initError("passwordService"); storedErr != nil {
		return nil, storedErr
	}
	return c.passwordService, nil
}

// CredentialExtractor returns the extractor over bearer header, cookie and legacy header.
func (c *Container) CredentialExtractor() authUseCase.CredentialExtractor {
	c.credentialExtractInit.Do(func() {
		c.credentialExtract = authService.NewCredentialExtractor(
			authService.DefaultCredentialSources(c.config.AuthCookieName, c.config.AuthLegacyHeader)...,
		)
	})
	return c.credentialExtract
}

// ElevationRule returns the rule deciding which emails receive the admin claim.
func (c *Container) ElevationRule() authDomain.AdminElevationRule {
	c.elevationRuleInit.Do(func() {
		c.elevationRule = authDomain.NewSingleAdminEmailRule(c.config.AdminEmail)
	})
	return c.elevationRule
}

// AuditLogRepository returns the audit log repository, or nil when the audit
// sink is the structured log only.
func (c *Container) AuditLogRepository() (authUseCase.AuditLogRepository, error) {
	var err error
	c.auditLogRepositoryInit.Do(func() {
		c.auditLogRepository, err = c.initAuditLogRepository()
		if err != nil {
			c.setInitError("auditLogRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("auditLogRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.auditLogRepository, nil
}

// AuditLogUseCase returns the audit log use case.
func (c *Container) AuditLogUseCase() (authUseCase.AuditLogUseCase, error) {
	var err error
	c.auditLogUseCaseInit.Do(func() {
		c.auditLogUseCase, err = c.initAuditLogUseCase()
		if err != nil {
			c.setInitError("auditLogUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("auditLogUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// AuthGate returns the gate that turns a request credential into an Identity.
func (c *Container) AuthGate() (authUseCase.AuthGate, error) {
	var err error
	c.authGateInit.Do(func() {
		c.authGate, err = c.initAuthGate()
		if err != nil {
			c.setInitError("authGate", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("authGate"); storedErr != nil {
		return nil, storedErr
	}
	return c.authGate, nil
}

// AdminGate returns the gate that admits administrators only.
func (c *Container) AdminGate() (authUseCase.AdminGate, error) {
	var err error
	c.adminGateInit.Do(func() {
		c.adminGate, err = c.initAdminGate()
		if err != nil {
			c.setInitError("adminGate", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("adminGate"); storedErr != nil {
		return nil, storedErr
	}
	return c.adminGate, nil
}

// AuditLogHandler returns the HTTP handler for audit log listing.
func (c *Container) AuditLogHandler() (*authHTTP.AuditLogHandler, error) {
	var err error
	c.auditLogHandlerInit.Do(func() {
		c.auditLogHandler, err = c.initAuditLogHandler()
		if err != nil {
			c.setInitError("auditLogHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("auditLogHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.auditLogHandler, nil
}

func (c *Container) initAuditLogRepository() (authUseCase.AuditLogRepository, error) {
	switch c.config.AuditSink {
	case "", auditSinkLog:
		return nil, nil
	case auditSinkDatabase:
	default:
		return nil, fmt.Errorf("unsupported audit sink: %s", c.config.AuditSink)
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
	}

	switch c.config.DBDriver {
	case driverMySQL:
		return authRepository.NewMySQLAuditLogRepository(db), nil
	case driverPostgres:
		return authRepository.NewPostgreSQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAuditLogUseCase() (authUseCase.AuditLogUseCase, error) {
	auditLogRepository, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
	}
	return authUseCase.NewAuditLogUseCase(auditLogRepository, c.Logger()), nil
}

func (c *Container) initAuthGate() (authUseCase.AuthGate, error) {
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for auth gate: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for auth gate: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for auth gate: %w", err)
	}

	return authUseCase.NewAuthGate(
		c.CredentialExtractor(),
		tokenService,
		auditLogUseCase,
		businessMetrics,
		c.Logger(),
	), nil
}

func (c *Container) initAdminGate() (authUseCase.AdminGate, error) {
	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for admin gate: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for admin gate: %w", err)
	}

	return authUseCase.NewAdminGate(auditLogUseCase, businessMetrics, c.Logger()), nil
}

func (c *Container) initAuditLogHandler() (*authHTTP.AuditLogHandler, error) {
	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for audit log handler: %w", err)
	}
	return authHTTP.NewAuditLogHandler(auditLogUseCase, c.Logger()), nil
}
