/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ntp

import (
	"errors"
	"fmt"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultServer is used when no NTP server is configured
const DefaultServer = "time.google.com:123"

// Client sends SNTP requests and picks up replies without blocking.
// Send and receive are deliberately split: the control loop fires a
// request at the top of a sync cycle and polls for the answer on
// later iterations, so a slow server never stalls the clock ticking.
type Client struct {
	// Server is a "host:port" address of the NTP server
	Server string

	conn *net.UDPConn
}

// NewClient opens the local UDP socket the client sends from and listens on
func NewClient(server string) (*Client, error) {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, fmt.Errorf("opening UDP socket: %w", err)
	}
	return &Client{Server: server, conn: conn}, nil
}

// SendRequest resolves the server address and fires a single request
// packet at it. No reply is awaited here.
func (c *Client) SendRequest() error {
	addr, err := net.ResolveUDPAddr("udp", c.Server)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", c.Server, err)
	}
	b, err := NewRequest().Bytes()
	if err != nil {
		return err
	}
	if _, err := c.conn.WriteToUDP(b, addr); err != nil {
		return fmt.Errorf("sending request to %v: %w", addr, err)
	}
	log.Debugf("sent NTP request to %v", addr)
	return nil
}

// PollReply checks whether a reply has already arrived.
// It returns the UTC Unix epoch from the reply and true if one was waiting,
// or false with a nil error if the socket is still empty.
func (c *Client) PollReply() (int64, bool, error) {
	// a deadline in the past turns the read into a pure drain of
	// whatever the kernel already buffered
	if err := c.conn.SetReadDeadline(time.Now()); err != nil {
		return 0, false, err
	}
	buf := make([]byte, PacketSizeBytes)
	n, _, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return 0, false, nil
		}
		return 0, false, err
	}
	if n != PacketSizeBytes {
		return 0, false, fmt.Errorf("short NTP reply: %d bytes", n)
	}
	packet, err := BytesToPacket(buf)
	if err != nil {
		return 0, false, err
	}
	epoch := packet.UnixTime()
	log.Debugf("got NTP reply, UTC epoch %d", epoch)
	return epoch, true, nil
}

// Close releases the client socket
func (c *Client) Close() error {
	return c.conn.Close()
}
