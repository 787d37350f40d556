package utils

import (
	"net"
	"net/http"
	"strings"
)

// clientIPHeaders are consulted in order; the first public address wins.
var clientIPHeaders = []string{
	"Client-IP",
	"X-Forwarded-For",
	"X-Forwarded",
	"X-Cluster-Client-IP",
	"Forwarded-For",
	"Forwarded",
}

// ResolveClientIP returns the first public IP found in the forwarding headers,
// falling back to the connection's remote address.
func ResolveClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		for _, candidate := range strings.Split(value, ",") {
			if ip := parseCandidate(candidate); ip != nil && isPublicIP(ip) {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseCandidate accepts a bare address or an RFC 7239 "for=" element.
func parseCandidate(raw string) net.IP {
	candidate := strings.TrimSpace(raw)
	for _, part := range strings.Split(candidate, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "for=") {
			candidate = strings.Trim(part[len("for="):], `"`)
			break
		}
	}
	if host, _, err := net.SplitHostPort(candidate); err == nil {
		candidate = host
	}
	candidate = strings.TrimPrefix(strings.TrimSuffix(candidate, "]"), "[")
	return net.ParseIP(candidate)
}

func isPublicIP(ip net.IP) bool {
	return !(ip.IsPrivate() || ip.IsLoopback() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsMulticast())
}
