// Package di provides dependency injection for the resto CLI.
// It contains the service container and factory functions.
package di

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/restohub/resto-cli/internal/api"
	"github.com/restohub/resto-cli/internal/auth"
	"github.com/restohub/resto-cli/internal/config"
	"github.com/restohub/resto-cli/internal/credentials"
	"github.com/restohub/resto-cli/internal/logging"
	"github.com/restohub/resto-cli/internal/service"
	iface "github.com/restohub/resto-cli/internal/service/interface"
	"go.uber.org/zap"
)

// Container holds all service dependencies for the CLI.
// Services are accessed via interfaces to enable mocking in tests.
type Container struct {
	settings            *config.Settings
	logger              *zap.Logger
	client              *api.Client
	authService         iface.AuthService
	resourceService     iface.ResourceService
	restaurantService   iface.RestaurantService
	notificationService iface.NotificationService
	closers             []func() error
}

// NewContainer creates a new dependency container with default implementations
func NewContainer(manager *config.Manager) (*Container, error) {
	settings, err := manager.Load()
	if err != nil {
		return nil, err
	}

	return NewContainerWithSettings(settings)
}

// NewContainerWithSettings wires the services for already resolved settings
func NewContainerWithSettings(settings *config.Settings) (*Container, error) {
	logger, err := logging.New(settings.LogLevel)
	if err != nil {
		return nil, err
	}

	c := &Container{
		settings: settings,
		logger:   logger,
	}

	store, err := c.newStore()
	if err != nil {
		return nil, err
	}

	c.client = api.NewClient(settings.APIURL, credentials.New(store),
		api.WithAPIPrefix(settings.APIPrefix),
		api.WithTimeout(settings.Timeout),
		api.WithRateLimit(settings.RateLimit, settings.RateBurst),
		api.WithLogger(logger),
	)

	c.authService = service.NewAuthService(auth.NewSession(c.client, logger))
	c.resourceService = service.NewResourceService(c.client)
	c.restaurantService = service.NewRestaurantService(c.client)
	c.notificationService = service.NewNotificationService(c.client)

	return c, nil
}

// NewContainerWithServices creates a container with custom service implementations.
// This is useful for testing with mock services.
func NewContainerWithServices(
	authService iface.AuthService,
	resourceService iface.ResourceService,
	restaurantService iface.RestaurantService,
	notificationService iface.NotificationService,
) *Container {
	return &Container{
		settings:            &config.Settings{WebURL: config.DefaultWebURL},
		logger:              zap.NewNop(),
		authService:         authService,
		resourceService:     resourceService,
		restaurantService:   restaurantService,
		notificationService: notificationService,
	}
}

func (c *Container) newStore() (credentials.Store, error) {
	switch c.settings.CredentialsBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.settings.RedisAddr,
			Password: c.settings.RedisPassword,
			DB:       c.settings.RedisDB,
		})
		c.closers = append(c.closers, rdb.Close)

		c.logger.Debug("using redis credentials store",
			zap.String("addr", c.settings.RedisAddr),
			zap.String("key", c.settings.RedisKey))

		return credentials.NewRedisStore(rdb,
			credentials.WithKey(c.settings.RedisKey),
			credentials.WithTTL(c.settings.RedisTTL),
		), nil
	case config.BackendFile, "":
		c.logger.Debug("using file credentials store", zap.String("path", c.settings.CredentialsPath))
		return credentials.NewFileStore(c.settings.CredentialsPath), nil
	default:
		return nil, fmt.Errorf("unknown credentials backend %q", c.settings.CredentialsBackend)
	}
}

// Close releases connections held by the container
func (c *Container) Close() error {
	var firstErr error
	for _, closer := range c.closers {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = c.logger.Sync()
	return firstErr
}

// Settings returns the resolved settings
func (c *Container) Settings() *config.Settings {
	return c.settings
}

// Logger returns the shared logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Client returns the API client, nil when built with NewContainerWithServices
func (c *Container) Client() *api.Client {
	return c.client
}

// AuthService returns the authentication service
func (c *Container) AuthService() iface.AuthService {
	return c.authService
}

// ResourceService returns the CRUD service shared by every collection
func (c *Container) ResourceService() iface.ResourceService {
	return c.resourceService
}

// RestaurantService returns the restaurant service
func (c *Container) RestaurantService() iface.RestaurantService {
	return c.restaurantService
}

// NotificationService returns the notification service
func (c *Container) NotificationService() iface.NotificationService {
	return c.notificationService
}
