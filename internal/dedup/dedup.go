// Package dedup derives the stable keys used to collapse repeated job listings.
//
// The description fingerprint is an exact hash of a fixed-length prefix, not a fuzzy
// simhash: descriptions that differ only after FingerprintPrefix characters collide,
// descriptions that differ anywhere inside it never do.
package dedup

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

// FingerprintPrefix is the number of characters of a description covered by Fingerprint.
const FingerprintPrefix = 500

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeTitle lowercases title, turns punctuation into spaces and collapses whitespace.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = nonWordRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Fingerprint returns the hex sha1 of the first FingerprintPrefix characters of text.
func Fingerprint(text string) string {
	sum := sha1.Sum([]byte(truncateRunes(text, FingerprintPrefix)))
	return hex.EncodeToString(sum[:])
}

// Key builds company:normalized-title:fingerprint.
func Key(company, title, description string) string {
	return strings.ToLower(company) + ":" + NormalizeTitle(title) + ":" + Fingerprint(description)
}

// Preview collapses whitespace and truncates text to at most n characters.
func Preview(text string, n int) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(truncateRunes(text, n), " "))
}

// Unique keeps the first item observed for every key, preserving input order.
func Unique[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
