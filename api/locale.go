package api

import (
	"net/http"

	"github.com/dalemusser/regcheck/account"
	"golang.org/x/text/language"
)

// supported lists the message locales in preference order; the first is the
// fallback.
var supported = []language.Tag{
	language.English,
	language.Vietnamese,
}

var matcher = language.NewMatcher(supported)

// Locale picks the message locale for r: the ?locale= query parameter when it
// names a supported language, else the best match for Accept-Language, else
// English.
func Locale(r *http.Request) string {
	if q := r.URL.Query().Get("locale"); q != "" {
		if tag, err := language.Parse(q); err == nil {
			if loc, ok := exact(tag); ok {
				return loc
			}
		}
	}

	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return account.LocaleEnglish
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return account.LocaleEnglish
	}
	return baseOf(supported[idx])
}

// exact reports the supported locale sharing tag's base language.
func exact(tag language.Tag) (string, bool) {
	base, _ := tag.Base()
	for _, s := range supported {
		if sb, _ := s.Base(); sb == base {
			return sb.String(), true
		}
	}
	return "", false
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
