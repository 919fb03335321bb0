package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// DefaultBaudRate is the bridge firmware's serial speed.
const DefaultBaudRate = 115200

// SerialSource reads line protocol events from a serial port.
type SerialSource struct {
	port      io.ReadCloser
	closeOnce sync.Once
	name      string
	cb        Callbacks
	logger    *zap.Logger
}

// OpenSerial opens portName at 8N1 and the given baud rate.
func OpenSerial(portName string, baud int, cb Callbacks, logger *zap.Logger) (*SerialSource, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("reset serial input %s: %w", portName, err)
	}
	return NewSerialSource(port, portName, cb, logger), nil
}

// NewSerialSource reads events from an already open port.
func NewSerialSource(port io.ReadCloser, name string, cb Callbacks, logger *zap.Logger) *SerialSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SerialSource{port: port, name: name, cb: cb, logger: logger}
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}

// Run reads lines until ctx is cancelled or the port fails. Malformed lines
// are logged and skipped. When the port fails or reaches EOF the sensor is
// reported disconnected. Run closes the port before returning.
func (s *SerialSource) Run(ctx context.Context) error {
	defer s.closePort()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			// unblocks the pending Read
			s.closePort()
		case <-stop:
		}
	}()

	s.logger.Info("[serial] reading", zap.String("port", s.name))
	scanner := bufio.NewScanner(s.port)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		ev, err := ParseLine(line)
		if err != nil {
			s.logger.Warn("[serial] skipping line", zap.String("port", s.name), zap.Error(err))
			continue
		}
		if err := Dispatch(ev, s.cb); err != nil {
			s.logger.Warn("[serial] dispatch failed", zap.String("port", s.name), zap.Error(err))
		}
	}

	if ctx.Err() != nil {
		s.logger.Info("[serial] exiting read loop", zap.String("port", s.name))
		return nil
	}
	s.closePort()

	err := scanner.Err()
	s.logger.Warn("[serial] port closed", zap.String("port", s.name), zap.Error(err))
	s.cb.OnDisconnected()
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read serial port %s: %w", s.name, err)
	}
	return nil
}

// closePort closes the port exactly once, whichever of cancellation or a
// read failure gets there first.
func (s *SerialSource) closePort() {
	s.closeOnce.Do(func() {
		if err := s.port.Close(); err != nil {
			s.logger.Debug("[serial] close", zap.String("port", s.name), zap.Error(err))
		}
	})
}
