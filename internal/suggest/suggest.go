// Package suggest proposes starter tasks for a new project.
package suggest

import (
	"context"
	"strings"
)

// MaxTasks caps the number of suggestions returned
const MaxTasks = 8

// Suggester proposes task titles for a project. Implementations never fail:
// when suggestions are unavailable they return an empty list.
type Suggester interface {
	Suggest(ctx context.Context, projectName, subject string) []string
}

// Noop suggests nothing. Used when no API key is configured.
type Noop struct{}

// Suggest returns an empty list
func (Noop) Suggest(context.Context, string, string) []string {
	return []string{}
}

// Func adapts a function to a Suggester
type Func func(ctx context.Context, projectName, subject string) []string

// Suggest calls f and cleans its result
func (f Func) Suggest(ctx context.Context, projectName, subject string) []string {
	return Clean(f(ctx, projectName, subject))
}

// Clean trims titles, drops blanks and duplicates and keeps at most MaxTasks
func Clean(titles []string) []string {
	out := make([]string, 0, len(titles))
	seen := make(map[string]bool, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		key := strings.ToLower(title)
		if title == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, title)
		if len(out) == MaxTasks {
			break
		}
	}
	return out
}
