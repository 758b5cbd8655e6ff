package pkg

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1(:\d{1,5})?$`)

// IPIsLocal reports loopback and docker bridge gateway addresses, with or without port.
func IPIsLocal(ipAddr string) bool {
	if strings.HasPrefix(ipAddr, "127.0.0.1") || strings.HasPrefix(ipAddr, "[::1]") || ipAddr == "::1" {
		return true
	}
	return localDockerIpRegex.MatchString(ipAddr)
}

// ReadUserIP returns the client IP, preferring proxy headers over the remote address.
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// first hop is the client
		forwarded := r.Header.Get("X-Forwarded-For")
		ipAddr = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if IPIsLocal(ipAddr) {
		return "localhost", nil
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	if net.ParseIP(ipAddr) == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	return ipAddr, nil
}
