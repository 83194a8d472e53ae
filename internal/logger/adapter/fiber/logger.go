// Package fiber provides the zerolog based access log middleware for the fiber app.
package fiber

import (
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/StoreAdmin/StoreAdmin/internal/logger"
)

// PerformanceHeader carries the handling time in seconds.
const PerformanceHeader = "X-Performance"

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError is set on responses the error handler failed to produce.
	//
	// Optional. Default: "max-age=0"
	CacheControlError string

	// CheckAliveURI is not logged while Config.DisableCheckAlive is set.
	CheckAliveURI string

	// RequestIDKey names the request locals holding the request id.
	//
	// Optional. Default: "" (not logged)
	RequestIDKey string

	// Principal returns the id of the authenticated user of the request, if any.
	// It is evaluated after the handler chain ran.
	//
	// Optional. Default: nil
	Principal func(c *fiber.Ctx) (uint64, bool)
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = "max-age=0"
	}

	return cfg
}

// New creates a new fiber access logging middleware using zerolog.
func New(config ...Config) fiber.Handler {
	var (
		cfg        = configDefault(config...)
		access     = newAccessLogger(cfg.Config)
		once       sync.Once
		errHandler fiber.ErrorHandler
	)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		once.Do(func() {
			errHandler = c.App().ErrorHandler
		})

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := errHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck
				c.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		c.Response().Header.Set(PerformanceHeader, strconv.FormatFloat(elapsed, 'f', 6, 64))

		if cfg.Config.DisableCheckAlive && cfg.CheckAliveURI != "" && c.Path() == cfg.CheckAliveURI {
			return nil
		}

		event := access.Log()
		fields(c, event, elapsed)

		if cfg.RequestIDKey != "" {
			if id, ok := c.Locals(cfg.RequestIDKey).(string); ok {
				event.Str("request_id", id)
			}
		}

		if cfg.Principal != nil {
			if userID, ok := cfg.Principal(c); ok {
				event.Uint64("user_id", userID)
			}
		}

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}

// fields adds the request and response attributes. The URI is the path fiber routed on
// plus the raw query string.
func fields(c *fiber.Ctx, event *zerolog.Event, elapsed float64) {
	uri := c.Path()
	if q := c.Request().URI().QueryString(); len(q) > 0 {
		uri += "?" + string(q)
	}

	event.Str("IP", c.IP()).
		Int("status", c.Response().StatusCode()).
		Float64(PerformanceHeader, elapsed).
		Str("URI", uri).
		Str("method", c.Method()).
		Bytes("host", c.Request().Host()).
		Str(fiber.HeaderXForwardedFor, c.Get(fiber.HeaderXForwardedFor)).
		Str(fiber.HeaderUserAgent, c.Get(fiber.HeaderUserAgent)).
		Str(fiber.HeaderOrigin, c.Get(fiber.HeaderOrigin)).
		Str(fiber.HeaderReferer, c.Get(fiber.HeaderReferer))
}

// newAccessLogger writes level-less events to the access file and, if enabled, the console.
func newAccessLogger(cfg logger.Log) zerolog.Logger {
	var writers []io.Writer

	if cfg.File.Enabled && cfg.File.Access.Name != "" {
		w, err := logger.RotatingWriter(cfg.File.Path, cfg.File.Access)
		if err != nil {
			log.Error().Err(err).Msg("access file logging disabled")
		} else {
			writers = append(writers, w)
		}
	}

	if cfg.Console.Enabled && cfg.EnableAccessLogToConsole {
		if cfg.Console.Pretty {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)
}
