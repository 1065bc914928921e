package normalizer

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "punctuation and digits", input: "Hello, World!  123", want: "hello world 123"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \t\n ", want: ""},
		{name: "symbols only", input: "¡¿!?", want: ""},
		{name: "url removed", input: "Read https://example.com/a?b=1 now", want: "read now"},
		{name: "http url removed", input: "see http://x.y/z", want: "see"},
		{name: "url glued to word", input: "foohttps://x.y bar", want: "foo bar"},
		{name: "url stops at nbsp", input: "a https://x.y\u00a0tail", want: "a tail"},
		{name: "accents become spaces", input: "Cómo crear apps", want: "c mo crear apps"},
		{name: "uppercase url scheme", input: "HTTPS://EXAMPLE.COM Title", want: "title"},
		{name: "dotted capital I", input: "\u0130stanbul News", want: "i stanbul news"},
		{name: "underscores and tabs", input: "snake_case\tname", want: "snake case name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello, World!  123",
		"  Foo   Bar!! ",
		"Cómo desarrollar una App móvil | Q2BSTUDIO",
		"link: https://example.com/page and more",
		"日本語のタイトル 2025",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNewFingerprinter_RejectsInvalidSize(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := NewFingerprinter(n); !errors.Is(err, ErrInvalidNgramSize) {
			t.Errorf("NewFingerprinter(%d) error = %v, want ErrInvalidNgramSize", n, err)
		}
	}
}

func TestFingerprinter_Fingerprint(t *testing.T) {
	fp3, err := NewFingerprinter(3)
	if err != nil {
		t.Fatalf("NewFingerprinter failed: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "sliding window", input: "Foo Bar", want: []string{" ba", "bar", "foo", "o b", "oo "}},
		{name: "repeated grams collapse", input: "aaaa", want: []string{"aaa"}},
		{name: "shorter than n", input: "ab", want: []string{"ab"}},
		{name: "exactly n", input: "abc", want: []string{"abc"}},
		{name: "empty title", input: "", want: []string{""}},
		{name: "strips to empty", input: "!!!", want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fp3.Fingerprint(tt.input).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Fingerprint(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFingerprinter_UnigramSize(t *testing.T) {
	fp1, err := NewFingerprinter(1)
	if err != nil {
		t.Fatalf("NewFingerprinter failed: %v", err)
	}

	got := fp1.Fingerprint("abba")
	if got.Len() != 2 || !got.Contains("a") || !got.Contains("b") {
		t.Errorf("Unexpected unigram fingerprint %v", got.Sorted())
	}
}
