package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StoreAdmin/StoreAdmin/internal/logger"
)

func TestInitValidation(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "info", AppName: "test"})
	require.ErrorIs(t, err, logger.ErrServiceNameIsEmpty)

	err = logger.Init(logger.Log{LogLevel: "info", ServiceName: "test"})
	require.ErrorIs(t, err, logger.ErrAppNameIsEmpty)

	err = logger.Init(logger.Log{LogLevel: "loud", ServiceName: "test", AppName: "test"})
	require.Error(t, err)
}

func TestLogger(t *testing.T) {
	testCases := []struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}{
		{
			name: "no logger enabled log level not set",
			cfg: logger.Log{
				LogLevel:    "",
				ServiceName: "test",
				AppName:     "test",
			},
		},
		{
			name: "console enabled console writer enabled",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, Pretty: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled console writer disabled info expect json",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				LogEnv:      "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "console enabled trace expect json stack",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := captureLoggerOutput(t, tc.cfg)

			if !tc.shouldHaveOutPut {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if !tc.outPutIsJSON {
				return
			}

			for _, line := range strings.Split(out, "\n") {
				if line == "" {
					continue
				}

				var entry struct {
					Level   string `json:"level"`
					Service string `json:"service"`
					Message string `json:"message"`
				}

				require.NoError(t, json.Unmarshal([]byte(line), &entry), "expected json output but got: %s", line)
				assert.Equal(t, "test", entry.Service)
			}
		})
	}
}

func captureLoggerOutput(t *testing.T, cfg logger.Log) string {
	t.Helper()

	// keep default std out
	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	require.NoError(t, logger.Init(cfg))

	log.Info().Msg("this info message should be seen...")
	log.Error().Err(errors.New("a test error")).Msg("this err message should be seen...") //nolint:goerr113
	log.Trace().Msg("this trace message should be seen at trace level...")

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

	return <-outC
}

func TestFileWriterSplitsByLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		File: logger.LogFile{
			Enabled: true,
			Path:    dir,
			Info:    logger.RotatedFile{Name: "info.log", MaxSize: 1},
			Error:   logger.RotatedFile{Name: "error.log", MaxSize: 1},
		},
	})
	require.NoError(t, err)

	log.Info().Msg("role created")
	log.Error().Msg("role delete failed")
	log.Warn().Msg("dropped, no warn file configured")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "role created")
	assert.NotContains(t, string(info), "role delete failed")

	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errs), "role delete failed")

	_, err = os.Stat(filepath.Join(dir, "warn.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestLevelWriterDropsUnroutedLevels(t *testing.T) {
	var buf bytes.Buffer

	lw := &logger.LevelWriter{Error: &buf}

	n, err := lw.WriteLevel(zerolog.InfoLevel, []byte("info"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Zero(t, buf.Len())

	_, err = lw.WriteLevel(zerolog.FatalLevel, []byte("fatal"))
	require.NoError(t, err)
	assert.Equal(t, "fatal", buf.String())
}
