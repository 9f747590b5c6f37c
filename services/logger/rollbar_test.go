package logsvc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/user"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := &core.Config{AppName: "Masomo", LogLevel: "debug"}
	logger := NewRollbarLogger(&buf, "API", conf)
	logger.Enable(false)

	logger.Error(
		"saving announcement",
		errors.New("boom"),
		map[string]interface{}{"table": "announcement"},
		user.User{ID: 7, Username: "jdoe"},
	)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "saving announcement", line["message"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "announcement", line["table"])
	assert.Equal(t, "jdoe", line["username"])
	assert.Equal(t, float64(7), line["user_id"])
	assert.Equal(t, "API", line["component"])
}

func TestRollbarLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(&buf, "DB", &core.Config{LogLevel: "warn"})
	logger.Enable(false)

	logger.Info("ignored")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), `"message":"kept"`)
}
