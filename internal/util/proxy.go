package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds a proxy selector from explicit configuration, falling
// back to the standard environment variables when none is given. Hosts
// matching an entry in the comma-separated noProxy list bypass the proxy.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := parseNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if hostBypassed(req.URL.Hostname(), bypass) {
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

func parseNoProxy(noProxy string) []string {
	var entries []string
	for _, e := range strings.Split(noProxy, ",") {
		e = strings.TrimSpace(strings.ToLower(e))
		if e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// hostBypassed matches the host against noProxy entries: exact host, or a
// domain suffix for entries starting with a dot.
func hostBypassed(host string, bypass []string) bool {
	host = strings.ToLower(host)
	for _, e := range bypass {
		if e == "*" || host == e {
			return true
		}
		if strings.HasPrefix(e, ".") && strings.HasSuffix(host, e) {
			return true
		}
	}
	return false
}
