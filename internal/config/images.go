package config

import (
	"net/url"
	"strings"
)

// ImagePolicy decides which image sources pages may reference.
type ImagePolicy struct {
	hosts map[string]bool
}

// NewImagePolicy builds the allow-list from the site file plus any hosts
// known only at runtime, such as the storage bucket host.
func NewImagePolicy(site *Site, extra ...string) *ImagePolicy {
	p := &ImagePolicy{hosts: make(map[string]bool)}
	if site != nil {
		for _, h := range site.Images.RemoteHosts {
			p.add(h)
		}
	}
	for _, h := range extra {
		p.add(h)
	}
	return p
}

func (p *ImagePolicy) add(host string) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host != "" {
		p.hosts[host] = true
	}
}

// Allowed reports whether src may be used as an image source. Site-relative
// paths are always allowed.
func (p *ImagePolicy) Allowed(src string) bool {
	if strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//") {
		return true
	}
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	return p.hosts[strings.ToLower(u.Hostname())]
}

// Hosts returns the allowed hosts; order is unspecified.
func (p *ImagePolicy) Hosts() []string {
	out := make([]string, 0, len(p.hosts))
	for h := range p.hosts {
		out = append(out, h)
	}
	return out
}
