// Package netutil holds small networking helpers for sharpd.
package netutil

import "net"

// AllocatePort reserves a free loopback port by binding to port 0 and
// releasing the listener immediately. The port is then handed to the spawned
// analysis server. Another process could grab the port between the release
// and the child's bind; this race is accepted, and a child that loses it
// surfaces as a failed aliveness/readiness check.
func AllocatePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, err
	}
	return port, nil
}
