package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/awaree/internal/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// fsys is where exports are written and imports are read
var fsys afero.Fs = afero.NewOsFs()

// confirm asks a y/N question on the command's input
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", question)
	line, _ := readLine(cmd.InOrStdin())
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "o", "oui":
		return true
	}
	return false
}

// readPassphrase prompts without echo on a terminal, or reads a line otherwise
func readPassphrase(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		return string(b), nil
	}
	line, err := readLine(cmd.InOrStdin())
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readLine reads up to and including the next newline. It reads byte by byte
// so successive prompts on the same input do not lose buffered lines.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sb.WriteByte(buf[0])
			if buf[0] == '\n' {
				return sb.String(), nil
			}
		}
		if err != nil {
			return sb.String(), err
		}
	}
}

var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// parseDate understands today, tomorrow, +Nd and a few absolute layouts
func parseDate(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	s = strings.ToLower(raw)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch s {
	case "today", "aujourd'hui", "auj":
		return day, nil
	case "tomorrow", "demain":
		return day.AddDate(0, 0, 1), nil
	case "yesterday", "hier":
		return day.AddDate(0, 0, -1), nil
	}

	if strings.HasPrefix(s, "+") && (strings.HasSuffix(s, "d") || strings.HasSuffix(s, "j") || strings.HasSuffix(s, "w")) {
		n, err := strconv.Atoi(s[1 : len(s)-1])
		if err == nil {
			if strings.HasSuffix(s, "w") {
				n *= 7
			}
			return day.AddDate(0, 0, n), nil
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (try 2026-03-14, 14/03/2026, tomorrow or +3d)", raw)
}

// optionalDate parses s into epoch milliseconds, nil when s is empty
func optionalDate(s string) (*int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s, time.Now())
	if err != nil {
		return nil, err
	}
	return model.Ptr(model.Millis(t)), nil
}

func formatDay(ms int64) string {
	return model.Time(ms).Format("02/01/2006")
}

// dataURI reads an image and embeds it the way the web client stores uploads
func dataURI(path string) (string, string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", "", fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), mime, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
