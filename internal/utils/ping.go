package utils

import (
	"fmt"
	"net"
	"time"
)

// PingService checks if a service is reachable at host:port over TCP
func PingService(host, port string, timeout time.Duration) error {
	address := net.JoinHostPort(host, port)

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}

// PingSMTP checks if the configured SMTP relay is reachable
func PingSMTP(host string, port int) error {
	return PingService(host, fmt.Sprintf("%d", port), 1500*time.Millisecond)
}
