package xbeeapi

import (
	"context"
	"fmt"
	"strings"
)

// AtCommand runs an AT command on the local radio and returns its value.
// An empty parameter queries the setting; a parameter sets it.
func (r *Radio) AtCommand(ctx context.Context, cmd string, param []byte) ([]byte, error) {
	resp, err := r.Do(ctx, AtCommand{Command: cmd, Parameter: param})

	if err != nil {
		return nil, err
	}

	at, ok := resp.(AtCommandResponse)

	if !ok {
		return nil, fmt.Errorf("%w: %s to AT command %s", ErrUnexpectedResponse, resp.Type(), cmd)
	}

	if at.Status != CommandStatusOK {
		return nil, &CommandError{Command: cmd, Status: at.Status}
	}

	return at.Value, nil
}

// RemoteAtCommand runs an AT command on the radio with the 64 bit address dest.
func (r *Radio) RemoteAtCommand(ctx context.Context, dest uint64, cmd string, param []byte, opts RemoteOptions) ([]byte, error) {
	resp, err := r.Do(ctx, RemoteAtCommand{
		Destination: dest,
		Address16:   UnknownAddress16,
		Options:     opts,
		Command:     cmd,
		Parameter:   param,
	})

	if err != nil {
		return nil, err
	}

	rat, ok := resp.(RemoteAtCommandResponse)

	if !ok {
		return nil, fmt.Errorf("%w: %s to remote AT command %s", ErrUnexpectedResponse, resp.Type(), cmd)
	}

	if rat.Status != CommandStatusOK {
		return nil, &CommandError{Command: cmd, Status: rat.Status}
	}

	return rat.Value, nil
}

// Transmit sends data to dest and waits for the transmit status. Delivery
// failures are returned as a *DeliveryError along with the status.
func (r *Radio) Transmit(ctx context.Context, dest uint64, data []byte, opts TransmitOptions) (TransmitStatus, error) {
	resp, err := r.Do(ctx, TransmitRequest{
		Destination: dest,
		Address16:   UnknownAddress16,
		Options:     opts,
		Data:        data,
	})

	if err != nil {
		return TransmitStatus{}, err
	}

	ts, ok := resp.(TransmitStatus)

	if !ok {
		return TransmitStatus{}, fmt.Errorf("%w: %s to transmit request", ErrUnexpectedResponse, resp.Type())
	}

	if ts.Delivery != DeliverySuccess {
		return ts, &DeliveryError{Status: ts.Delivery, Retries: ts.Retries}
	}

	return ts, nil
}

// DeviceInfo identifies the local radio.
type DeviceInfo struct {
	Address64       uint64
	NodeID          string
	HardwareVersion uint16
	FirmwareVersion uint16
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%016X %q hw=%04X fw=%04X", d.Address64, d.NodeID, d.HardwareVersion, d.FirmwareVersion)
}

// Identify reads the serial number, node identifier and versions of the
// local radio.
func (r *Radio) Identify(ctx context.Context) (DeviceInfo, error) {
	var d DeviceInfo

	values := make(map[string][]byte)

	for _, cmd := range []string{"SH", "SL", "NI", "HV", "VR"} {
		v, err := r.AtCommand(ctx, cmd, nil)

		if err != nil {
			return d, fmt.Errorf("identify: %w", err)
		}

		values[cmd] = v
	}

	d.Address64 = uintBytes(values["SH"])<<32 | uintBytes(values["SL"])
	d.NodeID = strings.TrimRight(string(values["NI"]), "\x00\r ")
	d.HardwareVersion = uint16(uintBytes(values["HV"]))
	d.FirmwareVersion = uint16(uintBytes(values["VR"]))

	return d, nil
}

// uintBytes reads a big endian value of up to eight bytes. Radios drop
// leading zero bytes from numeric registers.
func uintBytes(b []byte) uint64 {
	var v uint64

	for _, c := range b {
		v = v<<8 | uint64(c)
	}

	return v
}
