package providers

import "testing"

func TestParseProviderRef(t *testing.T) {
	ref := ParseProviderRef(" Gemini:clinic ")
	if ref.Name != "gemini" || ref.KeyAlias != "clinic" {
		t.Fatalf("unexpected parse result: %+v", ref)
	}
	if ref := ParseProviderRef(""); ref.Name != "mock" {
		t.Fatalf("expected mock default, got %+v", ref)
	}
	if ref := ParseProviderRef("gemini"); ref.KeyAlias != "" {
		t.Fatalf("unexpected alias: %+v", ref)
	}
}
