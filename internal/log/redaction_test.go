package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRedactingHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("publishing",
		"password", "hunter2",
		"NTLMChallenge", "abc",
		"Authorization", "Basic xyz",
		"target", "XX~username",
		"record_id", "XX-1",
	)

	out := decodeLine(t, &buf)
	assert.Equal(t, Redacted, out["password"])
	assert.Equal(t, Redacted, out["NTLMChallenge"])
	assert.Equal(t, Redacted, out["Authorization"])
	assert.Equal(t, "XX~username", out["target"])
	assert.Equal(t, "XX-1", out["record_id"])
}

func TestRedactingHandler_GroupsAndWith(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil))).
		With("user_password", "x", "client", "XX")

	logger.Info("configured", slog.Group("credentials",
		slog.String("username", "jake"),
		slog.String("password", "hidden"),
	))

	out := decodeLine(t, &buf)
	assert.Equal(t, Redacted, out["user_password"])
	assert.Equal(t, "XX", out["client"])

	creds, ok := out["credentials"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jake", creds["username"])
	assert.Equal(t, Redacted, creds["password"])
}

func TestNewRedactingHandler_NoDoubleWrap(t *testing.T) {
	h := NewRedactingHandler(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, h, NewRedactingHandler(h))
}

func TestIsSensitive(t *testing.T) {
	assert.True(t, IsSensitive("PASSWORD"))
	assert.True(t, IsSensitive("api_token"))
	assert.False(t, IsSensitive("asset_id"))
	assert.False(t, IsSensitive("scheme"))
}
