package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// MaxSlugAttempts caps the suffix probing loop of UniqueSlug.
const MaxSlugAttempts = 1000

var ErrSlugExhausted = errors.New("no free slug")

// slug.Make spells some symbols out ("&" -> "and") and drops quotes; these are plain
// separators here.
var separatorRunes = strings.NewReplacer(
	"_", " ",
	"&", " ",
	"@", " ",
	"'", " ",
	"\"", " ",
	"’", " ",
)

// Slugify lower-cases s, transliterates it and collapses every run of other characters
// into a single hyphen. Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	return slug.Make(separatorRunes.Replace(s))
}

// PropertySlug builds the base slug "<district>-<name>".
func PropertySlug(district, name string) string {
	s := Slugify(strings.TrimSpace(district + " " + name))
	if s == "" {
		return "property"
	}
	return s
}

// UniqueSlug returns base if it is free, otherwise the first free "base-N" for N = 1, 2, ...
func UniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	candidate := base
	for n := 1; n <= MaxSlugAttempts; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("%w for %q after %d attempts", ErrSlugExhausted, base, MaxSlugAttempts)
}
