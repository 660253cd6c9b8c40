package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
)

// foldName returns the case-insensitive comparison key for a category name.
// A Caser keeps internal state, so a fresh one is built per call.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
