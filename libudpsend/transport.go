package udpsend

import (
	"errors"
	"net"
	"os"
)

// Socket is one datagram socket, used for exactly one send.
type Socket interface {
	SendTo(p []byte, dst *net.UDPAddr) (int, error)
	LocalAddr() net.Addr
	Close() error
}

// Transport creates sockets.
type Transport interface {
	// Open creates a socket on network and binds it to local first if local is not nil.
	Open(network string, local *net.UDPAddr) (Socket, error)
}

// NetTransport is the Transport backed by the operating system.
type NetTransport struct{}

// Open creates a UDP socket. Without local the OS picks the source port, as it would on the first send from an unbound socket.
func (NetTransport) Open(network string, local *net.UDPAddr) (Socket, error) {
	conn, err := net.ListenUDP(network, local)
	if err != nil {
		kind := SocketCreateError
		// NOTE: the listen error wraps the failing syscall; only a requested bind counts as bind failure
		var sysErr *os.SyscallError
		if local != nil && errors.As(err, &sysErr) && sysErr.Syscall == "bind" {
			kind = BindError
		}
		return nil, &SocketError{Kind: kind, Code: errnoOf(err), Err: err}
	}
	return &udpSocket{conn: conn}, nil
}

type udpSocket struct {
	conn *net.UDPConn
}

func (s *udpSocket) SendTo(p []byte, dst *net.UDPAddr) (int, error) {
	n, err := s.conn.WriteToUDP(p, dst)
	if err != nil {
		return n, &SocketError{Kind: SendError, Code: errnoOf(err), Err: err}
	}
	return n, nil
}

func (s *udpSocket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *udpSocket) Close() error {
	return s.conn.Close()
}
