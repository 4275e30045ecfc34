package fluentify_test

import (
	"testing"

	"github.com/samarthsinh2660/fluentify"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := fluentify.DefaultTheme()

	assert.Equal(t, 4, theme.Title)
	assert.Equal(t, 2, theme.Done)
	assert.Equal(t, 3, theme.Generating)
	assert.Equal(t, 8, theme.Pending)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 8, theme.Muted)
	assert.Equal(t, 5, theme.Accent)
}
