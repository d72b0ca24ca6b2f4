package uri

import (
	"strconv"
	"strings"

	"github.com/nlnwa/whatwg-url/url"
	"golang.org/x/net/publicsuffix"
)

// URI is a decomposed absolute URL.
//
// Optional components are the empty string when absent and Port is 0 when
// the URL uses its scheme's default port. Scheme is always set on a URI
// produced by FromURL or Parse.
type URI struct {
	Scheme string `json:"scheme"`
	// Userinfo is "user" or "user:password".
	Userinfo string `json:"userinfo,omitempty"`
	// Host is the serialized host: a domain, an IPv4 address or a bracketed
	// IPv6 address.
	Host string `json:"host,omitempty"`
	// Authority is "[userinfo@]host[:port]".
	Authority string `json:"authority,omitempty"`
	// Domain is the registrable domain (eTLD+1) of Host. It is empty for IP
	// addresses and hosts without a public suffix.
	Domain   string `json:"domain,omitempty"`
	Port     uint16 `json:"port,omitempty"`
	Path     string `json:"path,omitempty"`
	Query    string `json:"query,omitempty"`
	Fragment string `json:"fragment,omitempty"`
}

// FromURL decomposes a parsed URL.
func FromURL(u *url.Url) URI {
	r := URI{
		Scheme:   u.Scheme(),
		Host:     u.Hostname(),
		Path:     u.Pathname(),
		Query:    u.Query(),
		Fragment: u.Fragment(),
	}

	if user := u.Username(); user != "" || u.Password() != "" {
		r.Userinfo = user
		if pass := u.Password(); pass != "" {
			r.Userinfo += ":" + pass
		}
	}

	// Port() is empty for the scheme's default port.
	if p := u.Port(); p != "" {
		if n, err := strconv.ParseUint(p, 10, 16); err == nil {
			r.Port = uint16(n)
		}
	}

	if r.Host != "" {
		r.Authority = r.Host
		if r.Userinfo != "" {
			r.Authority = r.Userinfo + "@" + r.Authority
		}
		if r.Port != 0 {
			r.Authority += ":" + strconv.Itoa(int(r.Port))
		}
		if !u.IsIPv4() && !u.IsIPv6() {
			r.Domain = registrableDomain(r.Host)
		}
	}

	return r
}

func registrableDomain(host string) string {
	d, err := publicsuffix.EffectiveTLDPlusOne(strings.TrimSuffix(host, "."))
	if err != nil {
		return ""
	}
	return d
}

// IsZero reports whether r holds no URL at all.
func (r URI) IsZero() bool {
	return r == URI{}
}

// HasAuthority reports whether the URL was serialized with a "//" authority
// section. file URLs always have one, even with an empty host.
func (r URI) HasAuthority() bool {
	return r.Host != "" || r.Scheme == "file"
}

// String reassembles the URL from its components.
func (r URI) String() string {
	if r.IsZero() {
		return ""
	}

	var b strings.Builder
	b.WriteString(r.Scheme)
	b.WriteByte(':')
	if r.HasAuthority() {
		b.WriteString("//")
		b.WriteString(r.Authority)
	}
	b.WriteString(r.Path)
	if r.Query != "" {
		b.WriteByte('?')
		b.WriteString(r.Query)
	}
	if r.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(r.Fragment)
	}
	return b.String()
}
