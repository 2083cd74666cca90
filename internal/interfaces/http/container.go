package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apptemplink "github.com/orris-inc/templink/internal/application/templink"
	"github.com/orris-inc/templink/internal/domain/shared/events"
	"github.com/orris-inc/templink/internal/domain/templink"
	"github.com/orris-inc/templink/internal/infrastructure/cache"
	"github.com/orris-inc/templink/internal/infrastructure/config"
	"github.com/orris-inc/templink/internal/infrastructure/database"
	"github.com/orris-inc/templink/internal/infrastructure/migration"
	"github.com/orris-inc/templink/internal/infrastructure/repository"
	"github.com/orris-inc/templink/internal/infrastructure/scheduler"
	"github.com/orris-inc/templink/internal/infrastructure/token"
	"github.com/orris-inc/templink/internal/interfaces/http/handlers/links"
	sharedConfig "github.com/orris-inc/templink/internal/shared/config"
	"github.com/orris-inc/templink/internal/shared/constants"
	"github.com/orris-inc/templink/internal/shared/logger"
)

// Dependencies are the application services the router serves.
type Dependencies struct {
	Store     *apptemplink.Store[links.LinkRefs]
	Callbacks *links.CallbackRegistry
}

// ContainerOptions carries the process-level switches of the server command.
type ContainerOptions struct {
	Environment string
	// AutoMigrate applies the snapshot table migrations on start.
	AutoMigrate bool
}

// Container holds the link store, its background jobs and the snapshot
// backend. It wires everything together and provides Shutdown() for
// graceful termination.
type Container struct {
	cfg  *config.Config
	opts ContainerOptions
	log  logger.Interface

	// Snapshot backends; at most one is set
	redis *redis.Client
	db    *gorm.DB

	eventDispatcher  *events.InMemoryEventDispatcher
	eventsStarted    bool
	callbacks        *links.CallbackRegistry
	store            *apptemplink.Store[links.LinkRefs]
	persister        *apptemplink.Persister[links.LinkRefs]
	schedulerManager *scheduler.SchedulerManager
	router           *Router

	saved bool
}

// NewContainer builds the store, restores the last snapshot and starts the
// background jobs. On error everything already started is shut down.
func NewContainer(ctx context.Context, cfg *config.Config, opts ContainerOptions, log logger.Interface) (*Container, error) {
	c := &Container{
		cfg:  cfg,
		opts: opts,
		log:  log,
	}

	if err := c.init(ctx); err != nil {
		if shutdownErr := c.Shutdown(context.Background()); shutdownErr != nil {
			log.Warnw("cleanup after failed start", "error", shutdownErr)
		}
		return nil, err
	}

	return c, nil
}

func (c *Container) init(ctx context.Context) error {
	// Section 1: Events
	if err := c.initEvents(); err != nil {
		return err
	}

	// Section 2: Store and callbacks
	if err := c.initStore(); err != nil {
		return err
	}

	// Section 3: Snapshot backend and restore
	if err := c.initSnapshot(ctx); err != nil {
		return err
	}

	// Section 4: Scheduler jobs
	if err := c.initScheduler(); err != nil {
		return err
	}

	c.router = NewRouter(&Dependencies{
		Store:     c.store,
		Callbacks: c.callbacks,
	}, c.cfg, c.log)
	c.router.SetupRoutes()

	return nil
}

func (c *Container) initEvents() error {
	c.eventDispatcher = events.NewInMemoryEventDispatcher(100, c.log.Named("events"))

	eventLog := c.log.Named("templink.events")
	handler := events.EventHandlerFunc(func(event events.DomainEvent) error {
		added, ok := event.(*templink.LinkAddedEvent)
		if !ok {
			return fmt.Errorf("unexpected event %T", event)
		}
		eventLog.Debugw("link added",
			"event_id", added.EventID,
			"expires_at", added.Expiration,
			"one_time", added.OneTime,
			"method", added.Method,
			"imported", added.Imported)
		return nil
	})
	if err := c.eventDispatcher.Subscribe(templink.EventTypeLinkAdded, handler); err != nil {
		return fmt.Errorf("failed to subscribe link events: %w", err)
	}

	if err := c.eventDispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	c.eventsStarted = true
	return nil
}

func (c *Container) initStore() error {
	cfg := &c.cfg.TempLink

	c.callbacks = links.NewCallbackRegistry()
	callback, err := c.callbacks.Resolve(cfg.Callback)
	if err != nil {
		return fmt.Errorf("invalid templink.callback: %w", err)
	}

	tracker, err := apptemplink.NewConsumedTracker(cfg.ConsumedCache)
	if err != nil {
		return fmt.Errorf("failed to create consumed tracker: %w", err)
	}

	c.store, err = apptemplink.NewStore(apptemplink.Config[links.LinkRefs]{
		TimeOut:   cfg.Timeout(),
		Interval:  cfg.Interval(),
		OneTime:   apptemplink.Ptr(cfg.OneTime),
		Method:    cfg.Method,
		Redirect:  cfg.Redirect,
		Callback:  callback,
		ParamName: cfg.ParamName,
	}, token.NewTokenGenerator(), c.log.Named("templink"),
		apptemplink.WithEventPublisher(c.eventDispatcher),
		apptemplink.WithConsumedTracker(tracker),
	)
	if err != nil {
		return fmt.Errorf("failed to create link store: %w", err)
	}
	return nil
}

func (c *Container) initSnapshot(ctx context.Context) error {
	backend, err := c.newSnapshotBackend(ctx)
	if err != nil {
		return err
	}
	if backend == nil {
		c.log.Infow("snapshot persistence disabled")
		return nil
	}

	importCallback, err := c.callbacks.Resolve(c.cfg.Snapshot.ImportCallback)
	if err != nil {
		return fmt.Errorf("invalid snapshot.import_callback: %w", err)
	}

	persister := apptemplink.NewPersister(c.store, backend, importCallback, c.log.Named("snapshot"))

	result, err := persister.Restore(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore links: %w", err)
	}
	// Only a restored store may overwrite the stored snapshot.
	c.persister = persister
	c.log.Infow("links restored from snapshot",
		"driver", c.cfg.Snapshot.Driver,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"failed", result.FailedCount())
	return nil
}

func (c *Container) newSnapshotBackend(ctx context.Context) (apptemplink.SnapshotBackend, error) {
	switch c.cfg.Snapshot.Driver {
	case "", constants.SnapshotDriverNone:
		return nil, nil
	case constants.SnapshotDriverRedis:
		client, err := initRedis(ctx, &c.cfg.Redis, c.log)
		if err != nil {
			return nil, err
		}
		c.redis = client
		return cache.NewRedisSnapshotStore(client, c.cfg.Snapshot.Key), nil
	case constants.SnapshotDriverDatabase:
		if err := database.Init(&c.cfg.Database, c.log); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.db = database.Get()
		if err := c.handleMigrations(); err != nil {
			return nil, err
		}
		return repository.NewLinkSnapshotRepository(c.db, c.cfg.Snapshot.Key, c.log.Named("snapshot.repository")), nil
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", c.cfg.Snapshot.Driver)
	}
}

// initRedis creates and tests the Redis client connection.
func initRedis(ctx context.Context, cfg *sharedConfig.RedisConfig, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.GetAddr())

	return redisClient, nil
}

func (c *Container) handleMigrations() error {
	if c.opts.AutoMigrate {
		if c.opts.Environment == constants.EnvProduction {
			c.log.Warnw("auto-migration is enabled in production environment")
		}
		manager, err := migration.NewManager(c.opts.Environment, c.cfg.Database.Driver, c.log)
		if err != nil {
			return err
		}
		if err := manager.Migrate(c.db); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}

	strategy, err := migration.NewGooseStrategy(c.cfg.Database.Driver, c.log)
	if err != nil {
		return err
	}
	version, err := strategy.GetVersion(c.db)
	if err != nil {
		c.log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	if version == 0 {
		c.log.Warnw("snapshot table is not migrated, run `templink migrate up` or start with --auto-migrate")
		return nil
	}
	c.log.Infow("current migration version", "version", version)
	return nil
}

func (c *Container) initScheduler() error {
	var err error
	c.schedulerManager, err = scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if c.persister != nil {
		if err := c.schedulerManager.RegisterSnapshotJob(c.cfg.Snapshot.SaveInterval(), c.persister.Save); err != nil {
			return fmt.Errorf("failed to register snapshot job: %w", err)
		}
	}

	// StartSweeper starts the scheduler, so the snapshot job goes in first.
	if err := c.store.StartSweeper(c.schedulerManager); err != nil {
		return fmt.Errorf("failed to start sweeper: %w", err)
	}
	return nil
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.router.GetEngine()
}

// Store returns the link store served by this container.
func (c *Container) Store() *apptemplink.Store[links.LinkRefs] {
	return c.store
}

// Callbacks returns the callback registry. Callbacks registered before
// links are created or imported can be referenced by name.
func (c *Container) Callbacks() *links.CallbackRegistry {
	return c.callbacks
}

// Shutdown stops background jobs, saves a final snapshot and closes the
// backends. It is safe on a partially built container.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("stop sweeper: %w", err))
		}
	} else if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
		}
	}

	// Final save after the sweeper stopped so the snapshot is the last state
	if c.persister != nil && !c.saved {
		c.saved = true
		if err := c.persister.Save(ctx); err != nil {
			errs = append(errs, fmt.Errorf("save snapshot: %w", err))
		} else {
			c.log.Infow("final link snapshot saved", "links", c.store.Len())
		}
	}

	if c.eventsStarted {
		c.eventsStarted = false
		if err := c.eventDispatcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop event dispatcher: %w", err))
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
		c.redis = nil
	}

	if c.db != nil {
		if err := database.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		c.db = nil
	}

	return errors.Join(errs...)
}
