// Package web wires the fiber application: middleware, the authorization gate and
// every JSON API handler.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/auth/publicendpoint"
	"github.com/StoreAdmin/StoreAdmin/internal/config"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/permission"
	accesslog "github.com/StoreAdmin/StoreAdmin/internal/logger/adapter/fiber"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler"
	activityhandler "github.com/StoreAdmin/StoreAdmin/internal/web/handler/activity"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler/login"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler/menu"
	permissionhandler "github.com/StoreAdmin/StoreAdmin/internal/web/handler/permission"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler/role"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler/setup"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler/system"
	"github.com/StoreAdmin/StoreAdmin/internal/web/handler/user"
	authmiddleware "github.com/StoreAdmin/StoreAdmin/internal/web/middleware/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/web/navigation"
	"github.com/StoreAdmin/StoreAdmin/internal/web/session"
)

const defaultAppName = "StoreAdmin"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	registry     *publicendpoint.Registry
}

// Registry returns the sealed public endpoint registry of the service.
func (s *Service) Registry() *publicendpoint.Registry {
	return s.registry
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service. It fails when the authorization policy references
// permission keys missing from the database.
func New(cfg *config.Config, db *gorm.DB, sessions *session.Store) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if sessions == nil {
		panic("session store cannot be nil")
	}

	registry := publicendpoint.New()
	if err := publicendpoint.RegisterDefaults(registry); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to register public endpoints")
	}

	keys, err := permission.Keys(db)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load permission keys")
	}

	policy := auth.DefaultPolicy()
	if err = policy.Validate(keys); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid authorization policy")
	}

	composer, err := navigation.NewComposer(navigation.DefaultMenu())
	if err != nil {
		return nil, err
	}

	authService := auth.NewService(db)

	appName := cfg.Title
	if appName == "" {
		appName = defaultAppName
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   ErrorHandler,
		},
	)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
		registry:    registry,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: handler.RequestIDLocalsKey,
	}))

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: publicendpoint.CheckAlivePath,
		RequestIDKey:  handler.RequestIDLocalsKey,
		Principal:     authmiddleware.UserID,
	}))

	app.Get(publicendpoint.CheckAlivePath, service.checkAlive)
	app.Get(publicendpoint.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(authmiddleware.New(authmiddleware.Config{
		Sessions: sessions,
		Loader:   authService,
		Public:   registry,
	}))

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Gate:     auth.NewGate(policy, authService, registry),
		Auth:     authService,
		Sessions: sessions,
		Registry: registry,
		Composer: composer,
	}

	// init handlers (they register their own routes with their gate requirements)
	for _, h := range []handler.Service{
		&login.Handler,
		&menu.Handler,
		&setup.Handler,
		&role.Handler,
		&permissionhandler.Handler,
		&user.Handler,
		&activityhandler.Handler,
		&system.Handler,
	} {
		if err = h.Init(app, deps); err != nil {
			return nil, err
		}
	}

	registry.Seal()

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}
