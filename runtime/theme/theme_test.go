package theme_test

import (
	"testing"

	"github.com/fractal-lang/fractal/runtime/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidTheme(t *testing.T) {
	raw := []byte(`{"colors": {"midnight": "#0a0a2a", "dawn": "ffcc88"}}`)
	th, err := theme.Parse(raw)
	require.NoError(t, err)

	hex, ok := th.Resolve("midnight")
	assert.True(t, ok)
	assert.Equal(t, "#0a0a2a", hex)
}

func TestResolveMissingNameIsFalse(t *testing.T) {
	raw := []byte(`{"colors": {"midnight": "#0a0a2a"}}`)
	th, err := theme.Parse(raw)
	require.NoError(t, err)

	_, ok := th.Resolve("noon")
	assert.False(t, ok)
}

func TestParseRejectsInvalidColorValue(t *testing.T) {
	raw := []byte(`{"colors": {"bad": "not-a-color"}}`)
	_, err := theme.Parse(raw)
	assert.Error(t, err)
}

func TestParseRejectsMissingColors(t *testing.T) {
	raw := []byte(`{}`)
	_, err := theme.Parse(raw)
	assert.Error(t, err)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := theme.Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestResolveOnNilThemeIsFalse(t *testing.T) {
	var th *theme.Theme
	_, ok := th.Resolve("anything")
	assert.False(t, ok)
}
