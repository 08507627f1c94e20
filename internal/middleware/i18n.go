package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

const (
	localeKey  contextKey = "locale"
	countryKey contextKey = "country"
)

var supportedLocales = language.NewMatcher([]language.Tag{
	language.English, // default
	language.Spanish,
	language.French,
	language.Portuguese,
})

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N negotiates the response locale and records a best-effort donor country
// for the request. The country attribution feeds the funding stats; it never
// gates any operation.
func I18N(lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag, _ := language.MatchStrings(supportedLocales,
				r.Header.Get("X-Locale"), r.Header.Get("Accept-Language"))
			base, _ := tag.Base()

			ctx := context.WithValue(r.Context(), localeKey, base.String())
			if country := resolveCountry(r, lookup); country != "" {
				ctx = context.WithValue(ctx, countryKey, country)
			}
			w.Header().Set("Content-Language", base.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveCountry(r *http.Request, lookup CountryLookup) string {
	for _, header := range []string{"X-Country-Code", "CF-IPCountry"} {
		if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
			return strings.ToUpper(v)
		}
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

// LocaleFromContext returns the negotiated locale, defaulting to English.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey).(string); ok {
		return v
	}
	return "en"
}

// CountryFromContext returns the ISO country code resolved for the request.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(countryKey).(string); ok {
		return v
	}
	return ""
}
