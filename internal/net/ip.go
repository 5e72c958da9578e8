package net

import (
	"fmt"
	"net"
	"strings"
)

// OutgoingIP finds the address other machines on the network would reach
// this host at. Without a default route it falls back to the first
// non-loopback IPv4 interface address, then to loopback.
func OutgoingIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err == nil {
		defer conn.Close()
		return conn.LocalAddr().(*net.UDPAddr).IP
	}

	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}

// FeedAddress is the host:port viewers should connect to
func FeedAddress(port int) string {
	return fmt.Sprintf("%s:%d", OutgoingIP(), port)
}

// ShareScheme prefixes share links handed to viewers
const ShareScheme = "localslides://"

// ShareLink is the link a viewer can open to join the feed on port
func ShareLink(port int) string {
	return ShareScheme + FeedAddress(port)
}

// IsShareLink reports whether s is a share link rather than a file path
func IsShareLink(s string) bool {
	return strings.HasPrefix(s, ShareScheme)
}

// ParseShareLink returns the host:port of a share link. A bare address is
// returned as is.
func ParseShareLink(s string) (string, error) {
	addr := strings.TrimSuffix(strings.TrimPrefix(s, ShareScheme), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("invalid share link %q: %w", s, err)
	}
	return addr, nil
}
