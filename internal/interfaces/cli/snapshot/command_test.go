package snapshot

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apptemplink "github.com/orris-inc/templink/internal/application/templink"
)

const (
	tokenA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	tokenB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func testSnapshot(t *testing.T) apptemplink.Snapshot[any] {
	snapshot, err := apptemplink.DecodeSnapshot[any]([]byte(`{
		"` + tokenB + `": {"expiration":"2030-01-02T00:00:00.000Z","oneTime":true,"refs":{"order":7},"redirect":"/paid"},
		"` + tokenA + `": {"expiration":"2030-01-01T00:00:00.000Z","oneTime":false,"method":"POST","refs":null}
	}`))
	require.NoError(t, err)
	return snapshot
}

func TestRender_YAMLMasksTokens(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testSnapshot(t), FormatYAML, false))

	var shown []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &shown))
	require.Len(t, shown, 2)

	assert.Equal(t, "aaaaaaaa***", shown[0]["token"])
	assert.Equal(t, "POST", shown[0]["method"])
	assert.Equal(t, false, shown[0]["oneTime"])

	assert.Equal(t, "bbbbbbbb***", shown[1]["token"])
	assert.Equal(t, "/paid", shown[1]["redirect"])
	assert.Equal(t, map[string]any{"order": 7}, shown[1]["refs"])
	assert.NotContains(t, buf.String(), tokenA)
}

func TestRender_JSONReveal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testSnapshot(t), FormatJSON, true))

	var shown []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &shown))
	require.Len(t, shown, 2)
	assert.Equal(t, tokenA, shown[0]["token"])
	assert.Equal(t, "2030-01-01T00:00:00.000Z", shown[0]["expiration"])
	assert.Equal(t, tokenB, shown[1]["token"])
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, testSnapshot(t), "xml", false))
}
