package app

import (
	"fmt"

	accessRequestHTTP "github.com/centrala/rainfall-gate/internal/accessrequest/http"
	accessRequestRepository "github.com/centrala/rainfall-gate/internal/accessrequest/repository"
	accessRequestUseCase "github.com/centrala/rainfall-gate/internal/accessrequest/usecase"
)

// AccessRequestRepository returns the access request repository based on database driver.
func (c *Container) AccessRequestRepository() (accessRequestUseCase.AccessRequestRepository, error) {
	var err error
	c.accessRequestRepositoryInit.Do(func() {
		c.accessRequestRepository, err = c.initAccessRequestRepository()
		if err != nil {
			c.setInitError("accessRequestRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("accessRequestRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.accessRequestRepository, nil
}

// AccessRequestUseCase returns the access request workflow.
func (c *Container) AccessRequestUseCase() (accessRequestUseCase.UseCase, error) {
	var err error
	c.accessRequestUseCaseInit.Do(func() {
		c.accessRequestUseCase, err = c.initAccessRequestUseCase()
		if err != nil {
			c.setInitError("accessRequestUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("accessRequestUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.accessRequestUseCase, nil
}

// AccessRequestHandler returns the HTTP handler for request-access and admin review.
func (c *Container) AccessRequestHandler() (*accessRequestHTTP.AccessRequestHandler, error) {
	var err error
	c.accessRequestHandlerInit.Do(func() {
		c.accessRequestHandler, err = c.initAccessRequestHandler()
		if err != nil {
			c.setInitError("accessRequestHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("accessRequestHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.accessRequestHandler, nil
}

func (c *Container) initAccessRequestRepository() (accessRequestUseCase.AccessRequestRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for access request repository: %w", err)
	}

	switch c.config.DBDriver {
	case driverMySQL:
		return accessRequestRepository.NewMySQLAccessRequestRepository(db), nil
	case driverPostgres:
		return accessRequestRepository.NewPostgreSQLAccessRequestRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAccessRequestUseCase() (accessRequestUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for access request use case: %w", err)
	}

	requests, err := c.AccessRequestRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access request repository for access request use case: %w", err)
	}

	users, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for access request use case: %w", err)
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for access request use case: %w", err)
	}

	baseUseCase := accessRequestUseCase.NewAccessRequestUseCase(
		txManager,
		requests,
		users,
		tokenService,
		c.ElevationRule(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for access request use case: %w", err)
		}
		return accessRequestUseCase.NewAccessRequestUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initAccessRequestHandler() (*accessRequestHTTP.AccessRequestHandler, error) {
	useCase, err := c.AccessRequestUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access request use case for access request handler: %w", err)
	}
	return accessRequestHTTP.NewAccessRequestHandler(useCase, c.Logger()), nil
}
