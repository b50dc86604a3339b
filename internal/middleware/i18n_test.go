package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		fallback string
		want     string
	}{
		{
			name: "x-locale overrides",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "es")
				r.Header.Set("Accept-Language", "fr-FR")
			},
			want: "es",
		},
		{
			name: "accept-language used",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "pt-BR,en;q=0.8")
			},
			want: "pt",
		},
		{
			name: "unsupported language matches nearest",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "de-DE")
			},
			want: "en",
		},
		{
			name:     "configured fallback",
			fallback: "fr",
			want:     "fr",
		},
		{
			name: "default to en",
			want: "en",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.setup != nil {
				tc.setup(r)
			}
			got := detectLocale(r, tc.fallback)
			if got != tc.want {
				t.Fatalf("detectLocale mismatch: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestResolveCountryPrefersHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("CF-IPCountry", "br")

	lookupCalled := false
	country := resolveCountry(r, func(string) (string, error) {
		lookupCalled = true
		return "US", nil
	})
	if country != "BR" {
		t.Fatalf("country mismatch: got %q want BR", country)
	}
	if lookupCalled {
		t.Fatal("lookup should not run when a header hint is present")
	}
}

func TestResolveCountryFallsBackToLookup(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.9:1234"

	country := resolveCountry(r, func(ip string) (string, error) {
		if ip != "203.0.113.9" {
			t.Fatalf("unexpected ip: %q", ip)
		}
		return "fr", nil
	})
	if country != "FR" {
		t.Fatalf("country mismatch: got %q want FR", country)
	}
}
