package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/existflow/awaree/internal/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"today", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"Demain", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"hier", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"+3d", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"+2j", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"+1w", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"2026-03-14", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"2026-03-14 09:15", time.Date(2026, 3, 14, 9, 15, 0, 0, time.UTC)},
		{"2026-03-14T09:15", time.Date(2026, 3, 14, 9, 15, 0, 0, time.UTC)},
		{"14/03/2026", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{" 14/03/2026 18:00 ", time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := parseDate("soon", now)
	assert.Error(t, err)
	_, err = parseDate("+xd", now)
	assert.Error(t, err)
}

func TestOptionalDate(t *testing.T) {
	got, err := optionalDate("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = optionalDate("2026-03-14")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "14/03/2026", formatDay(*got))
}

func TestClearable(t *testing.T) {
	assert.Equal(t, "", clearable("none"))
	assert.Equal(t, "", clearable(" Aucune "))
	assert.Equal(t, "", clearable("-"))
	assert.Equal(t, "2026-03-14", clearable("2026-03-14"))
}

func TestDueLabel(t *testing.T) {
	now := model.Millis(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, "no due", dueLabel(nil, now))
	assert.Equal(t, "overdue", dueLabel(model.Ptr(now-2*24*3600*1000), now))
	assert.Equal(t, "now", dueLabel(model.Ptr(now), now))
	assert.Equal(t, "3d", dueLabel(model.Ptr(now+3*24*3600*1000), now))
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "Édition", truncate("Édition", 7))
	assert.Equal(t, "Édi…", truncate("Édition", 4))
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{
		"y\n":    true,
		"oui\n":  true,
		"O\n":    true,
		"n\n":    false,
		"\n":     false,
		"maybe":  false,
		"yes \n": true,
	}
	for in, want := range tests {
		cmd := &cobra.Command{}
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetIn(strings.NewReader(in))

		assert.Equal(t, want, confirm(cmd, "Delete?"), "input %q", in)
		assert.Equal(t, "Delete? (y/N): ", out.String())
	}
}

func TestReadPassphraseFromPipe(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("s3cret\r\n"))

	pass, err := readPassphrase(cmd, "Passphrase: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pass)
}

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	old := fsys
	fsys = afero.NewMemMapFs()
	t.Cleanup(func() { fsys = old })
	return fsys
}

func TestDataURI(t *testing.T) {
	fs := useMemFs(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.NoError(t, afero.WriteFile(fs, "/img/croquis.png", png, 0644))
	require.NoError(t, afero.WriteFile(fs, "/img/loop.gif", []byte("GIF89a\x01\x00\x01\x00"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/notes.txt", []byte("just text"), 0644))

	uri, mime, err := dataURI("/img/croquis.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	att, err := attachment("/img/loop.gif")
	require.NoError(t, err)
	assert.Equal(t, model.AttachmentGIF, att.Type)

	_, _, err = dataURI("/notes.txt")
	assert.ErrorContains(t, err, "not an image")

	_, _, err = dataURI("/missing.png")
	assert.Error(t, err)
}

func TestSuccessivePromptsShareInput(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("first\nsecond\ny\n"))

	a, err := readPassphrase(cmd, "1: ")
	require.NoError(t, err)
	b, err := readPassphrase(cmd, "2: ")
	require.NoError(t, err)

	assert.Equal(t, "first", a)
	assert.Equal(t, "second", b)
	assert.True(t, confirm(cmd, "ok?"))
}
