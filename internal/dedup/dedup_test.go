package dedup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"lowercases", "Senior Engineer", "senior engineer"},
		{"punctuation becomes space", "Sr. Engineer (Backend)", "sr engineer backend"},
		{"collapses whitespace", "  Staff\t\tEngineer \n", "staff engineer"},
		{"keeps underscores and digits", "SRE_2 / On-call", "sre_2 on call"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.title))
		})
	}
}

func TestNormalizeTitleIsIdempotent(t *testing.T) {
	inputs := []string{
		"Senior Software Engineer, Platform",
		"C++ Developer -- Remote!!",
		"  Data   Scientist (ML/AI) ",
		"Ingénieur logiciel",
		"",
	}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		assert.Equal(t, once, NormalizeTitle(once), "input %q", in)
	}
}

func TestFingerprintCoversOnlyPrefix(t *testing.T) {
	prefix := strings.Repeat("a", FingerprintPrefix)

	assert.Equal(t, Fingerprint(prefix+" tail one"), Fingerprint(prefix+" something else"))
	assert.NotEqual(t, Fingerprint("b"+prefix[1:]), Fingerprint(prefix))
	assert.Len(t, Fingerprint(""), 40)
}

func TestFingerprintCountsCharactersNotBytes(t *testing.T) {
	prefix := strings.Repeat("é", FingerprintPrefix)
	assert.Equal(t, Fingerprint(prefix+"x"), Fingerprint(prefix+"y"))
}

func TestKeyMatchesEquivalentListings(t *testing.T) {
	desc := strings.Repeat("We build things. ", 40)
	a := Key("Acme", "Senior Engineer (Backend)", desc+"Apply today.")
	b := Key("acme", "senior engineer backend!", desc+"Benefits differ after the prefix.")

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "acme:senior engineer backend:"))
}

func TestKeyDiffersWithinPrefix(t *testing.T) {
	assert.NotEqual(t,
		Key("Acme", "Engineer", "We build rockets."),
		Key("Acme", "Engineer", "We build rockets!"),
	)
}

func TestUniqueKeepsFirst(t *testing.T) {
	type item struct{ key, origin string }
	items := []item{{"a", "first"}, {"b", "first"}, {"a", "second"}, {"c", "first"}, {"b", "second"}}

	got := Unique(items, func(i item) string { return i.key })

	assert.Equal(t, []item{{"a", "first"}, {"b", "first"}, {"c", "first"}}, got)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "hello world", Preview("hello \n\n world", 100))
	assert.Equal(t, "abc", Preview("abcdef", 3))
	assert.Equal(t, "", Preview("abc", 0))
}
