package web

import (
	"net"
	"net/http"

	"github.com/roljohntorralba/imgopt/config"
)

// secure admits a request only when the white list is empty or the
// remote address falls inside one of its networks.
func secure(f http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(config.Current.WhiteList) == 0 {
			f(w, r)
			return
		}
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil {
			ip := net.ParseIP(host)
			for _, ipn := range config.Current.WhiteList {
				if ipn.Contains(ip) {
					f(w, r)
					return
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		writeJsonQuiet(w, r, map[string]interface{}{"error": "No write permission from " + host})
	})
}
