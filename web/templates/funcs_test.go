package templates

import (
	"bytes"
	"testing"
	"time"

	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	d, err := kickit.ParseDate("2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, "January 2, 2026", FormatDate(d))
	assert.Equal(t, "", FormatDate(kickit.Date{}))
}

func TestFormatRelativeTime(t *testing.T) {
	assert.Equal(t, "", FormatRelativeTime(time.Time{}))
	assert.Equal(t, "3 days ago", FormatRelativeTime(time.Now().Add(-3*24*time.Hour)))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 kicks", Plural(0, "kick"))
	assert.Equal(t, "1 kick", Plural(1, "kick"))
	assert.Equal(t, "1,204 comments", Plural(1204, "comment"))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(3, 0))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 100, Percent(4, 4))
}

func TestParse(t *testing.T) {
	tmpl, err := Parse()
	require.NoError(t, err)

	for _, name := range []string{PageHome, PageSignIn, PageSignUp, PageDashboard, PageKick, PageLoading, PageError} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, PageLoading, map[string]any{"Title": "Loading"}))
	assert.Contains(t, buf.String(), "Loading...")
}
