package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the transport's proxy selector. Explicit proxy URLs
// win over the environment; hosts matching a noProxy entry connect
// directly. noProxy is a comma-separated list of hosts or domain suffixes.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	skip := splitHostList(noProxy)
	return func(req *http.Request) (*url.URL, error) {
		if bypassProxy(req.URL.Hostname(), skip) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func splitHostList(list string) []string {
	var out []string
	for _, h := range strings.Split(list, ",") {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			out = append(out, h)
		}
	}
	return out
}

// bypassProxy reports whether host equals an entry or is a subdomain of one
func bypassProxy(host string, skip []string) bool {
	host = strings.ToLower(host)
	for _, s := range skip {
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}
