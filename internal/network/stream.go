// Outbound TCP streams carrying metric lines to the backends
package network

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// Write side of a connected backend stream. Implementations are not safe for
// concurrent writes; callers serialize under their own stream mutex.
type Stream interface {
	Write(data []byte) error
	Close() error
}

// Connection attempt against a backend failed
type ConnectError struct {
	Endpoint string
	Cause    error
}

func (err *ConnectError) Error() string {
	return fmt.Sprintf("connect to '%s' failed: %v", err.Endpoint, err.Cause)
}

func (err *ConnectError) Unwrap() error {
	return err.Cause
}

// Write on an established stream failed, the stream must be abandoned
type WriteError struct {
	Endpoint string
	Cause    error
}

func (err *WriteError) Error() string {
	return fmt.Sprintf("write to '%s' failed: %v", err.Endpoint, err.Cause)
}

func (err *WriteError) Unwrap() error {
	return err.Cause
}

// Dialer shape the writers take, swapped for an in-memory one under test
type DialFunc func(ctx context.Context, host string, port uint16) (Stream, error)

// Blocking TCP dial with keepalive enabled on the raw socket
func DialTCP(ctx context.Context, host string, port uint16) (stream Stream, err error) {
	endpoint := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	// Using x/sys/unix package for more up-to-date syscall numbers
	dialer := net.Dialer{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
				if sockErr != nil {
					return
				}
				sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
			})
			return sockErr
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		err = &ConnectError{Endpoint: endpoint, Cause: err}
		return
	}

	stream = &tcpStream{conn: conn, endpoint: endpoint}
	return
}

type tcpStream struct {
	conn     net.Conn
	endpoint string
}

func (stream *tcpStream) Write(data []byte) (err error) {
	for len(data) > 0 {
		written, writeErr := stream.conn.Write(data)
		if writeErr != nil {
			err = &WriteError{Endpoint: stream.endpoint, Cause: writeErr}
			return
		}
		data = data[written:]
	}
	return
}

func (stream *tcpStream) Close() (err error) {
	err = stream.conn.Close()
	return
}
