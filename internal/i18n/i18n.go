// Package i18n serves the embedded UI message catalogs and negotiates the
// request locale.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLocale is used when nothing better matches.
const DefaultLocale = "en"

var supported = []language.Tag{language.English, language.Spanish, language.French}

// Catalog holds the messages of every supported locale.
type Catalog struct {
	messages map[string]map[string]string
	matcher  language.Matcher
}

// Load parses the embedded catalogs.
func Load() (*Catalog, error) {
	c := &Catalog{
		messages: make(map[string]map[string]string, len(supported)),
		matcher:  language.NewMatcher(supported),
	}
	for _, tag := range supported {
		base, _ := tag.Base()
		code := base.String()

		raw, err := localeFS.ReadFile("locales/" + code + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s catalog: %w", code, err)
		}
		msgs := map[string]string{}
		if err := json.Unmarshal(raw, &msgs); err != nil {
			return nil, fmt.Errorf("failed to parse %s catalog: %w", code, err)
		}
		c.messages[code] = msgs
	}
	return c, nil
}

// Match returns the supported locale code that best fits the given
// preferences, in priority order. Each preference may be a bare tag or an
// Accept-Language header value.
func (c *Catalog) Match(preferences ...string) string {
	var prefs []string
	for _, p := range preferences {
		if p = strings.TrimSpace(p); p != "" {
			prefs = append(prefs, p)
		}
	}
	if len(prefs) == 0 {
		return DefaultLocale
	}

	_, idx := language.MatchStrings(c.matcher, prefs...)
	base, _ := supported[idx].Base()
	return base.String()
}

// Messages returns a copy of the catalog for locale, falling back to the best match.
func (c *Catalog) Messages(locale string) (string, map[string]string) {
	code := c.Match(locale)
	out := make(map[string]string, len(c.messages[code]))
	for k, v := range c.messages[code] {
		out[k] = v
	}
	return code, out
}

// T translates key for locale, substituting {name} placeholders from args
// given as name, value pairs. Unknown keys fall back to English, then the key.
func (c *Catalog) T(locale, key string, args ...string) string {
	msg, ok := c.messages[locale][key]
	if !ok {
		msg, ok = c.messages[DefaultLocale][key]
	}
	if !ok {
		return key
	}
	for i := 0; i+1 < len(args); i += 2 {
		msg = strings.ReplaceAll(msg, "{"+args[i]+"}", args[i+1])
	}
	return msg
}

// Locales lists the supported locale codes.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(supported))
	for _, tag := range supported {
		base, _ := tag.Base()
		out = append(out, base.String())
	}
	return out
}
