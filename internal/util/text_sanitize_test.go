package util

import "testing"

func TestSanitizeTextRemovesNulAndControls(t *testing.T) {
	in := "\ufeffab\x00cd\x01\x02\n\txy\x7f"
	out := SanitizeText(in)
	if out != "abcd\n\txy" {
		t.Fatalf("unexpected sanitized output: %q", out)
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("a\n  b\tc", 10); got != "a b c" {
		t.Fatalf("unexpected preview: %q", got)
	}
	if got := Preview("abcdef", 3); got != "abc..." {
		t.Fatalf("unexpected truncated preview: %q", got)
	}
}
