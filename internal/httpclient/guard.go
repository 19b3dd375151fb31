// Package httpclient builds the HTTP client used to download remote catalog
// sources. Unless private networks are allowed it refuses loopback,
// link-local and RFC 1918 destinations, both in the URL and after DNS
// resolution, and re-checks every redirect.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// DefaultMaxRedirects bounds redirect chains.
const DefaultMaxRedirects = 10

// Options tunes the guard.
type Options struct {
	// AllowPrivate disables address checks, for catalogs on an intranet
	// or a test server.
	AllowPrivate bool
	MaxRedirects int
}

// New returns an http.Client that enforces opts on every dial and redirect.
func New(timeout time.Duration, opts Options) *http.Client {
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return errors.Newf("stopped after %d redirects", opts.MaxRedirects)
			}
			if err := CheckURL(req.URL, opts); err != nil {
				return errors.Wrap(err, "redirect blocked")
			}
			return nil
		},
	}
	if opts.AllowPrivate {
		return client
	}

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, errors.Wrap(err, "invalid address")
			}
			ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
			if err != nil {
				return nil, errors.Wrapf(err, "resolve %q", host)
			}
			for _, ip := range ips {
				if IsPrivate(ip) {
					return nil, blocked("%s resolves to private address %s", host, ip)
				}
			}
			// Dial the checked address so a second lookup cannot rebind.
			return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].String(), port))
		},
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return client
}

// CheckURL rejects URLs the client would refuse to fetch: schemes other than
// http and https, embedded credentials, and (unless AllowPrivate) private or
// loopback hosts given literally.
func CheckURL(u *url.URL, opts Options) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return blocked("scheme %q is not fetched over http", u.Scheme)
	}
	if u.User != nil {
		return blocked("URL carries credentials")
	}
	host := u.Hostname()
	if host == "" {
		return blocked("URL has no host")
	}
	if opts.AllowPrivate {
		return nil
	}

	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return blocked("localhost is a private destination")
	}
	if ip := net.ParseIP(host); ip != nil && IsPrivate(ip) {
		return blocked("private address %s", ip)
	}
	return nil
}

// IsPrivate reports whether ip is loopback, link-local, private, multicast,
// unspecified or otherwise not a public unicast address.
func IsPrivate(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return true
	}
	if ip4 := ip.To4(); ip4 != nil {
		// 0.0.0.0/8, 100.64.0.0/10 (CGNAT), 240.0.0.0/4
		return ip4[0] == 0 || (ip4[0] == 100 && ip4[1]&0xc0 == 64) || ip4[0] >= 240
	}
	// fec0::/10 site-local and 2001:db8::/32 documentation
	return (ip[0] == 0xfe && ip[1]&0xc0 == 0xc0) ||
		(ip[0] == 0x20 && ip[1] == 0x01 && ip[2] == 0x0d && ip[3] == 0xb8)
}

func blocked(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), errors.ErrValidation)
}
