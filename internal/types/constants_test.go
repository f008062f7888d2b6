package types

import (
	"slices"
	"testing"
)

func TestAllowedOriginsResolvesEnvironmentLazily(t *testing.T) {
	// Set after package init, the way godotenv populates the environment
	// at startup.
	t.Setenv("CLIENT_URL", "https://app.example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	origins := AllowedOrigins()

	for _, want := range []string{
		"http://localhost:3000",
		"https://app.example.com",
		"https://a.example.com",
		"https://b.example.com",
	} {
		if !slices.Contains(origins, want) {
			t.Errorf("AllowedOrigins() = %v, missing %q", origins, want)
		}
	}
}

func TestAllowedOriginsDefaults(t *testing.T) {
	t.Setenv("CLIENT_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	origins := AllowedOrigins()

	if len(origins) != len(defaultOrigins) {
		t.Errorf("AllowedOrigins() = %v, want only the defaults", origins)
	}
}
