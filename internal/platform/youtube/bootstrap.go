package youtube

import (
	"html"
	"regexp"
	"sync"

	"github.com/tidwall/gjson"
)

var (
	reAPIKey        = regexp.MustCompile(`"INNERTUBE_API_KEY":"([^"]+)"`)
	reClientVersion = regexp.MustCompile(`"INNERTUBE_CLIENT_VERSION":"([^"]+)"`)
	reTitle         = regexp.MustCompile(`property="og:title"\s+content="([^"]+)"`)

	jsonVarMu sync.Mutex
	jsonVarRe = map[string]*regexp.Regexp{}
)

// Bootstrap is what the initial watch page markup reveals about the private
// API. Absent values are zero: InitialData.Exists() is false and strings are "".
type Bootstrap struct {
	InitialData   gjson.Result
	APIKey        string
	ClientVersion string
	Title         string
}

// Ready reports whether comment pagination can start.
func (b Bootstrap) Ready() bool {
	return b.APIKey != "" && b.ClientVersion != "" && b.InitialData.Exists()
}

// ExtractBootstrap pattern-matches the page markup. It never fails; anything it
// cannot find is left empty for the caller to judge.
func ExtractBootstrap(rawHTML string) Bootstrap {
	b := Bootstrap{
		APIKey:        firstGroup(reAPIKey, rawHTML),
		ClientVersion: firstGroup(reClientVersion, rawHTML),
		Title:         html.UnescapeString(firstGroup(reTitle, rawHTML)),
	}
	if data, ok := extractJSONVar(rawHTML, "ytInitialData"); ok {
		b.InitialData = data
	}
	return b
}

// extractJSONVar finds `var <name> = {...};</script>` and parses the object.
func extractJSONVar(rawHTML, name string) (gjson.Result, bool) {
	m := jsonVarPattern(name).FindStringSubmatch(rawHTML)
	if len(m) != 2 || !gjson.Valid(m[1]) {
		return gjson.Result{}, false
	}
	return gjson.Parse(m[1]), true
}

func jsonVarPattern(name string) *regexp.Regexp {
	jsonVarMu.Lock()
	defer jsonVarMu.Unlock()
	re, ok := jsonVarRe[name]
	if !ok {
		re = regexp.MustCompile(`(?s)var ` + regexp.QuoteMeta(name) + `\s*=\s*(\{.+?\});\s*</script>`)
		jsonVarRe[name] = re
	}
	return re
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}
