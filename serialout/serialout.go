// Package serialout carries the per cycle diagnostic line to a UART, or to
// any writer when no port is configured.
package serialout

import (
	"fmt"
	"io"
	"sync"

	logger "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

type Channel struct {
	lock   sync.Mutex
	w      io.Writer
	closer io.Closer
	name   string
}

// Open opens a serial port at baud, 8N1.
func Open(port string, baud int) (*Channel, error) {
	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}
	logger.Infof("Diagnostic output on %s at %d baud", port, baud)
	return &Channel{w: p, closer: p, name: port}, nil
}

func NewWriter(name string, w io.Writer) *Channel {
	return &Channel{w: w, name: name}
}

// Println writes line terminated by CRLF. Write failures are logged, the
// caller never sees them.
func (c *Channel) Println(line string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, err := io.WriteString(c.w, line+"\r\n"); err != nil {
		logger.Warnf("Write to %s failed [%v]", c.name, err)
	}
}

func (c *Channel) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
