package providers

import "strings"

// ProviderRef is one parsed provider selector such as "gemini" or "gemini:work".
type ProviderRef struct {
	Raw      string
	Name     string
	KeyAlias string
}

// ParseProviderRef parses "name[:alias]". An empty value selects the mock.
func ParseProviderRef(raw string) ProviderRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ProviderRef{Raw: "mock", Name: "mock"}
	}
	ref := ProviderRef{Raw: raw, Name: raw}
	if strings.Contains(raw, ":") {
		x := strings.SplitN(raw, ":", 2)
		ref.Name = strings.TrimSpace(x[0])
		ref.KeyAlias = strings.TrimSpace(x[1])
	}
	ref.Name = strings.ToLower(ref.Name)
	return ref
}
