//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package transport

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/markkurossi/rtas/parallel"
)

// PartyID names one of the three parties in the mesh.
type PartyID string

// AddrMap maps each peer's PartyID to its "host:port" address.
type AddrMap map[PartyID]string

// AddressError reports a malformed "host:port" address.
type AddressError struct {
	Addr string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("transport: address %q is not a valid host:port", e.Addr)
}

// HandshakeError reports a failure during the address-claim exchange
// that follows a freshly accepted connection.
type HandshakeError struct {
	Msg string
}

func (e *HandshakeError) Error() string {
	return "transport: handshake: " + e.Msg
}

// Network is the full mesh of framed TCP connections among the three
// parties. Each peer contributes one receive connection (accepted by
// our listener) and one send connection (dialed by us), established
// during ConnectAll.
type Network struct {
	self     PartyID
	selfAddr string
	peers    AddrMap
	timeout  time.Duration

	listener net.Listener

	mu    sync.Mutex
	recv  map[PartyID]*Conn
	send  map[PartyID]*Conn
}

// Bind opens the listening socket for self at selfAddr. peers must
// list every other party's address; it must not include self.
func Bind(self PartyID, selfAddr string, peers AddrMap, timeout time.Duration) (*Network, error) {
	if _, _, err := net.SplitHostPort(selfAddr); err != nil {
		return nil, &AddressError{Addr: selfAddr}
	}
	l, err := net.Listen("tcp", selfAddr)
	if err != nil {
		return nil, &BindError{Addr: selfAddr, Err: err}
	}
	return &Network{
		self:     self,
		selfAddr: selfAddr,
		peers:    peers,
		timeout:  timeout,
		listener: l,
		recv:     make(map[PartyID]*Conn),
		send:     make(map[PartyID]*Conn),
	}, nil
}

// BindError reports a failure to bind the listening socket.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("transport: bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// ConnectError reports a failure to dial a peer.
type ConnectError struct {
	Peer PartyID
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("transport: connect to %s (%s): %v", e.Peer, e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// ConnectAll runs the full mesh join: a background goroutine accepts
// one inbound connection per peer and validates its address claim
// while this call dials every peer and sends our own address as the
// claim. It blocks until both directions are fully established for
// every peer in the mesh.
func (n *Network) ConnectAll() error {
	accepted := make(chan error, 1)
	go func() { accepted <- n.acceptAll() }()

	tasks := make([]parallel.Task, 0, len(n.peers))
	for name, addr := range n.peers {
		name, addr := name, addr
		tasks = append(tasks, parallel.Task{
			Name: string(name),
			Fn:   func() error { return n.connectOne(name, addr) },
		})
	}
	if err := parallel.Run(tasks...); err != nil {
		return err
	}

	return <-accepted
}

func (n *Network) connectOne(peer PartyID, addr string) error {
	raw, err := net.DialTimeout("tcp", addr, n.timeout)
	if err != nil {
		return &ConnectError{Peer: peer, Addr: addr, Err: err}
	}
	conn := NewConn(raw, n.timeout)
	if err := conn.Send([]byte(n.selfAddr)); err != nil {
		conn.Close()
		return &ConnectError{Peer: peer, Addr: addr, Err: err}
	}

	n.mu.Lock()
	n.send[peer] = conn
	n.mu.Unlock()
	return nil
}

func (n *Network) acceptAll() error {
	remaining := make(map[PartyID]bool, len(n.peers))
	for name := range n.peers {
		remaining[name] = true
	}

	for len(remaining) > 0 {
		if tl, ok := n.listener.(*net.TCPListener); ok && n.timeout > 0 {
			if err := tl.SetDeadline(time.Now().Add(n.timeout)); err != nil {
				return err
			}
		}
		raw, err := n.listener.Accept()
		if err != nil {
			return classifyTimeout(err)
		}
		conn := NewConn(raw, n.timeout)

		claim, err := conn.Recv()
		if err != nil {
			conn.Close()
			return &HandshakeError{Msg: fmt.Sprintf("no address claim from %s: %v", raw.RemoteAddr(), err)}
		}
		claimedAddr := string(claim)

		claimedHost, _, err := net.SplitHostPort(claimedAddr)
		if err != nil {
			conn.Close()
			return &HandshakeError{Msg: fmt.Sprintf("malformed claim %q", claimedAddr)}
		}
		sourceHost, _, err := net.SplitHostPort(raw.RemoteAddr().String())
		if err != nil {
			conn.Close()
			return &HandshakeError{Msg: fmt.Sprintf("malformed source address %q", raw.RemoteAddr())}
		}
		if !sameHost(claimedHost, sourceHost) {
			conn.Close()
			return &HandshakeError{Msg: fmt.Sprintf(
				"claimed address %s does not match source %s", claimedAddr, sourceHost)}
		}

		name := partyForAddr(n.peers, claimedAddr)
		if name == "" {
			conn.Close()
			return &HandshakeError{Msg: fmt.Sprintf("unexpected connection claiming %s", claimedAddr)}
		}
		if !remaining[name] {
			conn.Close()
			return &HandshakeError{Msg: fmt.Sprintf("duplicate connection from %s", name)}
		}

		n.mu.Lock()
		n.recv[name] = conn
		n.mu.Unlock()
		delete(remaining, name)
	}
	return nil
}

func partyForAddr(peers AddrMap, addr string) PartyID {
	for name, a := range peers {
		if a == addr {
			return name
		}
	}
	return ""
}

// sameHost treats loopback variants as interchangeable, since tests
// commonly mix "localhost", "127.0.0.1" and "::1".
func sameHost(a, b string) bool {
	if a == b {
		return true
	}
	loop := map[string]bool{"localhost": true, "127.0.0.1": true, "::1": true}
	return loop[strings.ToLower(a)] && loop[strings.ToLower(b)]
}

// SendTo writes one frame to peer's send connection.
func (n *Network) SendTo(peer PartyID, data []byte) error {
	conn, err := n.sendConn(peer)
	if err != nil {
		return err
	}
	return conn.Send(data)
}

// RecvFrom blocks for the next frame on peer's receive connection.
func (n *Network) RecvFrom(peer PartyID) ([]byte, error) {
	conn, err := n.recvConn(peer)
	if err != nil {
		return nil, err
	}
	return conn.Recv()
}

func (n *Network) sendConn(peer PartyID) (*Conn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.send[peer]
	if !ok {
		return nil, &HandshakeError{Msg: fmt.Sprintf("no send connection to %s", peer)}
	}
	return c, nil
}

func (n *Network) recvConn(peer PartyID) (*Conn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.recv[peer]
	if !ok {
		return nil, &HandshakeError{Msg: fmt.Sprintf("no receive connection from %s", peer)}
	}
	return c, nil
}

// Close tears down every established connection and the listener.
func (n *Network) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, c := range n.send {
		c.Close()
	}
	for _, c := range n.recv {
		c.Close()
	}
	return n.listener.Close()
}
