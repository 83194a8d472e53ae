package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/StoreAdmin/StoreAdmin/internal/logger/adapter/fiber"

	"github.com/StoreAdmin/StoreAdmin/internal/logger"
)

// accessLine is the subset of the json access log line checked here.
type accessLine struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	UserID    uint64 `json:"user_id"`
	RequestID string `json:"request_id"`
}

var consoleAccessLog = logger.Log{
	EnableAccessLogToConsole: true,
	DisableCheckAlive:        true,
	Console:                  logger.Console{Enabled: true},
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		config     adapter.Config
		targetPath string
		want       *accessLine
	}{
		{
			name:       "no writers no output",
			targetPath: "/",
		},
		{
			name:       "get / log to console json",
			targetPath: "/",
			config:     adapter.Config{Config: consoleAccessLog},
			want:       &accessLine{Status: fiber.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "query string is kept",
			targetPath: "/?layout=PRIMARY",
			config:     adapter.Config{Config: consoleAccessLog},
			want:       &accessLine{Status: fiber.StatusOK, URI: "/?layout=PRIMARY", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "unknown route",
			targetPath: "/api/v1/unknown",
			config:     adapter.Config{Config: consoleAccessLog},
			want: &accessLine{
				Status: fiber.StatusNotFound,
				URI:    "/api/v1/unknown",
				Method: fiber.MethodGet,
				Host:   "example.com",
			},
		},
		{
			name:       "principal is logged",
			targetPath: "/",
			config: adapter.Config{
				Config: consoleAccessLog,
				Principal: func(_ *fiber.Ctx) (uint64, bool) {
					return 42, true
				},
			},
			want: &accessLine{
				Status: fiber.StatusOK,
				URI:    "/",
				Method: fiber.MethodGet,
				Host:   "example.com",
				UserID: 42,
			},
		},
		{
			name:       "request id is logged",
			targetPath: "/",
			config:     adapter.Config{Config: consoleAccessLog, RequestIDKey: "requestid"},
			want: &accessLine{
				Status:    fiber.StatusOK,
				URI:       "/",
				Method:    fiber.MethodGet,
				Host:      "example.com",
				RequestID: "req-7",
			},
		},
		{
			name:       "check alive is not logged",
			targetPath: "/checkalive",
			config:     adapter.Config{Config: consoleAccessLog, CheckAliveURI: "/checkalive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := serveAndCapture(t, tt.targetPath, tt.config)

			if tt.want == nil {
				assert.Empty(t, output)
				return
			}

			require.NotEmpty(t, output)

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(output), &got))

			assert.Equal(t, tt.want.Host, got.Host)
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, tt.want.UserID, got.UserID)
			assert.Equal(t, tt.want.RequestID, got.RequestID)
		})
	}
}

func serveAndCapture(t *testing.T, targetPath string, adapterConfig adapter.Config) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	// capture stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
	})

	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("requestid", "req-7")
		return ctx.Next()
	})
	app.Use(adapter.New(adapterConfig))

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("hello test")
	})
	app.Get("/checkalive", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})

	_, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), -1)

	outC := make(chan string)
	// copy the output in a separate goroutine so printing can't block indefinitely
	go func() {
		var buf bytes.Buffer

		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr
	out := <-outC

	require.NoError(t, testErr)

	return out
}
