package web

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// mountProxies wires the same-origin rewrites:
//
//   - <api proxy prefix>/*   -> API base URL + API path prefix + /*
//     (the local prefix is stripped, like the original rewrite rule)
//   - <storage proxy prefix>/* -> storage base URL + storage path prefix + path
//     (the path is forwarded unchanged; upload links already carry the
//     full storage path, the proxy only swaps the origin)
//
// Routing browser calls and the CSV transfer through these keeps storage
// credentials off the client and sidesteps CORS entirely.
func (s *Server) mountProxies() {
	if api, err := url.Parse(s.cfg.API.BaseURL); err == nil {
		p := newProxy(api, s.cfg.API.ProxyPrefix, s.cfg.API.PathPrefix)
		s.router.Handle(s.cfg.API.ProxyPrefix+"/*", p)
	}

	if store, err := url.Parse(s.cfg.Storage.BaseURL); err == nil {
		p := newProxy(store, "", s.cfg.Storage.PathPrefix)
		s.router.Handle(s.cfg.Storage.ProxyPrefix+"/*", p)
	}
}

// newProxy builds a reverse proxy to target. stripPrefix is removed from
// the incoming path, upstreamPrefix is prepended before forwarding.
func newProxy(target *url.URL, stripPrefix, upstreamPrefix string) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)

	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		path := strings.TrimPrefix(req.URL.Path, stripPrefix)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		req.URL.Path = strings.TrimSuffix(target.Path, "/") + upstreamPrefix + path
		req.Host = target.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		slog.Error("proxy error", "path", r.URL.Path, "error", err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}

	return proxy
}
