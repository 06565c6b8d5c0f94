package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tamayuz/platform-api/pkg/logger"
)

func TestNew_JSONConCampoService(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "platform-api", Out: &buf})

	l.Info().Str("evento", "arranque").Msg("listo")

	line := buf.String()
	assert.Contains(t, line, `"service":"platform-api"`)
	assert.Contains(t, line, `"evento":"arranque"`)
	assert.Contains(t, line, `"message":"listo"`)
}

func TestNew_RespetaNivelSinDistinguirMayusculas(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "WARN", Out: &buf})

	l.Info().Msg("silenciado")
	assert.Empty(t, buf.String(), "un evento por debajo del nivel no emite nada")

	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_NivelDesconocidoCaeEnInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "verboso", Out: &buf})

	l.Debug().Msg("silenciado")
	assert.Empty(t, buf.String())

	l.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
