package dns

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// ErrNoIPv4 is returned when a host has no IPv4 address.
var ErrNoIPv4 = errors.New("no IPv4 address found")

// HostnameToIP returns the first IPv4 address of hostname.
func HostnameToIP(hostname string) (net.IP, error) {
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoIPv4, hostname)
}

// AdvertiseAddr returns the host:port other services should use to reach
// this instance. It falls back to the bare hostname when it does not resolve.
func AdvertiseAddr(port int) (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}
	ip, err := HostnameToIP(hostname)
	if err != nil {
		return net.JoinHostPort(hostname, fmt.Sprint(port)), nil
	}
	return net.JoinHostPort(ip.String(), fmt.Sprint(port)), nil
}
