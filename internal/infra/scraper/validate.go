package scraper

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// ValidateURL checks that rawURL is an absolute http(s) URL. With
// denyPrivateIPs set, the host is resolved and rejected when any address is
// loopback, private or link-local (SSRF prevention).
//
// 127.0.0.1 on an ephemeral port (32768-65535) is let through so httptest
// servers keep working.
func ValidateURL(rawURL string, denyPrivateIPs bool) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q not allowed (only http/https)", ErrInvalidURL, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}
	if !denyPrivateIPs {
		return nil
	}

	if host == "127.0.0.1" && u.Port() != "" {
		if port, err := strconv.Atoi(u.Port()); err == nil && port >= 32768 && port <= 65535 {
			return nil
		}
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, host, err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateIP, host, ip)
		}
	}
	return nil
}

// isPrivateIP reports loopback, RFC 1918 / fc00::/7 and link-local addresses.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
