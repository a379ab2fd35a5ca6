// Package proxyline parses and formats plaintext proxy lists where every
// usable line has the shape "d.d.d.d:port".
package proxyline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrShape is returned by Parse when a line is not an IPv4-literal:port pair.
var ErrShape = errors.New("not an ipv4:port pair")

//  ███████╗███╗   ██╗████████╗██████╗ ██╗   ██╗
//  ██╔════╝████╗  ██║╚══██╔══╝██╔══██╗╚██╗ ██╔╝
//  █████╗  ██╔██╗ ██║   ██║   ██████╔╝ ╚████╔╝
//  ██╔══╝  ██║╚██╗██║   ██║   ██╔══██╗  ╚██╔╝
//  ███████╗██║ ╚████║   ██║   ██║  ██║   ██║
//  ╚══════╝╚═╝  ╚═══╝   ╚═╝   ╚═╝  ╚═╝   ╚═╝
//

// Proxy is a host:port pair. The zero value means "no proxy".
type Proxy struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// IsNone reports whether p is the zero Proxy.
func (p Proxy) IsNone() bool {
	return p == Proxy{}
}

func (p Proxy) String() string {
	if p.IsNone() {
		return ""
	}
	return p.Host + ":" + strconv.Itoa(p.Port)
}

//  ██████╗  █████╗ ██████╗ ███████╗███████╗██████╗
//  ██╔══██╗██╔══██╗██╔══██╗██╔════╝██╔════╝██╔══██╗
//  ██████╔╝███████║██████╔╝███████╗█████╗  ██████╔╝
//  ██╔═══╝ ██╔══██║██╔══██╗╚════██║██╔══╝  ██╔══██╗
//  ██║     ██║  ██║██║  ██║███████║███████╗██║  ██║
//  ╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═╝
//

// Parse trims line and checks that it is four dot-separated digit groups
// followed by a colon and a digit group. Octet values are not range checked.
func Parse(line string) (Proxy, error) {
	line = strings.TrimSpace(line)

	host, port, ok := strings.Cut(line, ":")
	if !ok {
		return Proxy{}, fmt.Errorf("%q: %w", line, ErrShape)
	}

	octets := strings.Split(host, ".")
	if len(octets) != 4 {
		return Proxy{}, fmt.Errorf("%q: %w", line, ErrShape)
	}
	for _, o := range octets {
		if !digits(o) {
			return Proxy{}, fmt.Errorf("%q: %w", line, ErrShape)
		}
	}

	if !digits(port) {
		return Proxy{}, fmt.Errorf("%q: %w", line, ErrShape)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return Proxy{}, fmt.Errorf("%q: %w", line, errors.Join(ErrShape, err))
	}

	return Proxy{Host: host, Port: p}, nil
}

// ParseList splits text into lines and keeps, in order, every line Parse
// accepts. Blank and malformed lines are dropped.
func ParseList(text string) []Proxy {
	var proxies []Proxy

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if p, err := Parse(line); err == nil {
			proxies = append(proxies, p)
		}
	}

	return proxies
}

// Format joins proxies one per line without a trailing newline.
func Format(proxies []Proxy) string {
	lines := make([]string, len(proxies))
	for i, p := range proxies {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
