package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func runI18N(t *testing.T, lookup CountryLookup, prepare func(*http.Request)) (locale, country string) {
	t.Helper()
	handler := I18N(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = LocaleFromContext(r.Context())
		country = CountryFromContext(r.Context())
	}))
	req := httptest.NewRequest("GET", "/", nil)
	if prepare != nil {
		prepare(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return locale, country
}

func TestI18NDefaultsToEnglish(t *testing.T) {
	locale, country := runI18N(t, nil, nil)
	if locale != "en" {
		t.Fatalf("expected en, got %q", locale)
	}
	if country != "" {
		t.Fatalf("unexpected country %q", country)
	}
}

func TestI18NAcceptLanguage(t *testing.T) {
	locale, _ := runI18N(t, nil, func(r *http.Request) {
		r.Header.Set("Accept-Language", "es-MX,es;q=0.9,en;q=0.5")
	})
	if locale != "es" {
		t.Fatalf("expected es, got %q", locale)
	}
}

func TestI18NExplicitLocaleWins(t *testing.T) {
	locale, _ := runI18N(t, nil, func(r *http.Request) {
		r.Header.Set("X-Locale", "fr")
		r.Header.Set("Accept-Language", "es")
	})
	if locale != "fr" {
		t.Fatalf("expected fr, got %q", locale)
	}
}

func TestI18NCountryHeaderBeatsLookup(t *testing.T) {
	lookup := func(string) (string, error) { return "BR", nil }
	_, country := runI18N(t, lookup, func(r *http.Request) {
		r.Header.Set("CF-IPCountry", "de")
	})
	if country != "DE" {
		t.Fatalf("expected DE, got %q", country)
	}
}

func TestI18NCountryFromLookup(t *testing.T) {
	lookup := func(ip string) (string, error) { return "br", nil }
	_, country := runI18N(t, lookup, func(r *http.Request) {
		r.RemoteAddr = "203.0.113.7:1234"
	})
	if country != "BR" {
		t.Fatalf("expected BR, got %q", country)
	}
}
