package krepsinis

import (
	"net/url"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

const (
	placeholderEscaped = "{url}"
	placeholderRaw     = "{raw}"
)

// DefaultRelayTemplates are tried in order. {url} is replaced by the
// query-escaped target URL and {raw} by the target URL as is.
var DefaultRelayTemplates = []string{
	"https://corsproxy.io/?{url}",
	"https://thingproxy.freeboard.io/fetch/{raw}",
}

// Relay turns a target URL into the URL that is actually requested.
type Relay struct {
	template string
	host     string
}

func ParseRelays(templates []string) ([]Relay, error) {
	out := make([]Relay, 0, len(templates))
	for _, raw := range templates {
		template := strings.TrimSpace(raw)
		if template == "" {
			continue
		}
		if !strings.Contains(template, placeholderEscaped) && !strings.Contains(template, placeholderRaw) {
			return nil, crerr.Newf("relay template %q has no {url} or {raw} placeholder", template)
		}

		probe := strings.NewReplacer(placeholderEscaped, "", placeholderRaw, "").Replace(template)
		parsed, err := url.Parse(probe)
		if err != nil {
			return nil, crerr.Wrapf(err, "parse relay template %q", template)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return nil, crerr.Newf("relay template %q uses unsupported scheme=%q", template, parsed.Scheme)
		}
		out = append(out, Relay{template: template, host: parsed.Host})
	}
	if len(out) == 0 {
		return nil, crerr.New("at least one relay template is required")
	}
	return out, nil
}

func (r Relay) URL(target string) string {
	return strings.NewReplacer(
		placeholderEscaped, url.QueryEscape(target),
		placeholderRaw, target,
	).Replace(r.template)
}

// Host identifies the relay in logs and metrics.
func (r Relay) Host() string {
	return r.host
}
