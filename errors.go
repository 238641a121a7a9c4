package xbeeapi

import (
	"errors"
	"fmt"
)

var (
	// Per frame, recoverable by the reader.
	ErrChecksum         = errors.New("xbeeapi: checksum mismatch")
	ErrMalformedFrame   = errors.New("xbeeapi: malformed frame")
	ErrUnknownFrameType = errors.New("xbeeapi: unknown frame type")

	// Rejected before transmission.
	ErrEncoding         = errors.New("xbeeapi: cannot encode frame")
	ErrDuplicateFrameID = errors.New("xbeeapi: frame id already pending")
	ErrNoFrameID        = errors.New("xbeeapi: no free frame id")

	ErrResponseTimeout = errors.New("xbeeapi: response timeout")
	ErrClosed          = errors.New("xbeeapi: radio closed")

	ErrUnexpectedResponse = errors.New("xbeeapi: unexpected response")
	ErrCommandFailed      = errors.New("xbeeapi: command failed")
	ErrDeliveryFailed     = errors.New("xbeeapi: delivery failed")
)

// IsFrameError reports whether err concerns a single received frame, after
// which reading may continue.
func IsFrameError(err error) bool {
	return errors.Is(err, ErrChecksum) ||
		errors.Is(err, ErrMalformedFrame) ||
		errors.Is(err, ErrUnknownFrameType)
}

// CommandError is returned when an AT or remote AT command completes with a
// status other than OK.
type CommandError struct {
	Command string
	Status  CommandStatus
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("xbeeapi: command %s: %s", e.Command, e.Status)
}

func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}

// DeliveryError is returned when a transmission is not acknowledged.
type DeliveryError struct {
	Status  DeliveryStatus
	Retries byte
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("xbeeapi: delivery: %s after %d retries", e.Status, e.Retries)
}

func (e *DeliveryError) Unwrap() error {
	return ErrDeliveryFailed
}
