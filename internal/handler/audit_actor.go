package handler

import (
	"net"
	"net/http"
	"strings"

	"netops-cockpit/internal/model"
)

// actorFromRequest builds the audit actor from the request. The dashboard
// runs behind the office proxy without per-user auth, so the actor name
// comes from the X-Actor header the frontend forwards.
func actorFromRequest(r *http.Request) model.AuditActor {
	name := strings.TrimSpace(r.Header.Get("X-Actor"))
	if name == "" {
		name = "anonymous"
	}

	return model.AuditActor{Name: name, IP: clientIP(r)}
}

func clientIP(r *http.Request) string {
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}

	xri := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}

	return strings.TrimSpace(r.RemoteAddr)
}
