package xbeeapi

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, f Frame) []byte {
	t.Helper()

	b, err := Encode(f)
	require.NoError(t, err)

	return b
}

// readAll collects frames and per-frame errors until the stream ends.
func readAll(t *testing.T, b []byte) ([]Frame, []error) {
	t.Helper()

	var (
		frames []Frame
		errs   []error
	)

	r := NewReader(bytes.NewReader(b))

	for {
		f, err := r.Next()

		if err == io.EOF {
			return frames, errs
		}

		if err != nil {
			if !IsFrameError(err) {
				t.Fatalf("Unexpected stream error: %v", err)
			}

			errs = append(errs, err)
			continue
		}

		frames = append(frames, f)
	}
}

func TestReaderFrames(t *testing.T) {
	var b []byte

	// Noise before the first delimiter is skipped.
	b = append(b, 0x00, 0x42, 0xFF)

	for _, f := range roundTripFrames {
		b = append(b, mustEncode(t, f)...)
	}

	frames, errs := readAll(t, b)

	assert.Empty(t, errs)

	if diff := cmp.Diff(roundTripFrames, frames, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("Frames mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderResync(t *testing.T) {
	bad := mustEncode(t, AtCommand{FrameID: 1, Command: "NI"})
	bad[len(bad)-1] ^= 0x01

	good := AtCommandResponse{FrameID: 2, Command: "MY", Status: CommandStatusOK, Value: []byte{0x12, 0x34}}

	frames, errs := readAll(t, append(bad, mustEncode(t, good)...))

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrChecksum)

	require.Len(t, frames, 1)
	assert.Equal(t, good, frames[0])
}

func TestReaderResyncCorruptLength(t *testing.T) {
	// A corrupted length swallows the following frame; the rescan finds it.
	bad := mustEncode(t, AtCommand{FrameID: 1, Command: "NI"})
	bad[2] = 0x20

	good := TransmitStatus{FrameID: 9, Address16: 0x1234, Delivery: DeliverySuccess}

	b := append(bad, mustEncode(t, good)...)
	b = append(b, bytes.Repeat([]byte{0x00}, 0x20)...)

	frames, errs := readAll(t, b)

	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], ErrChecksum)

	require.Len(t, frames, 1)
	assert.Equal(t, good, frames[0])
}

func TestReaderDelimiterInBody(t *testing.T) {
	f := TransmitRequest{
		FrameID:     0x7E,
		Destination: 0x7E7E7E7E7E7E7E7E,
		Address16:   0x7E7E,
		Data:        []byte{0x7E, 0x00, 0x04, 0x7E},
	}

	frames, errs := readAll(t, mustEncode(t, f))

	assert.Empty(t, errs)
	require.Len(t, frames, 1)

	if diff := cmp.Diff(Frame(f), frames[0]); diff != "" {
		t.Fatalf("Frame mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderDelimiterInLength(t *testing.T) {
	f := AtCommandResponse{FrameID: 1, Command: "NI", Value: bytes.Repeat([]byte{'A'}, 0x7E-5)}

	b := mustEncode(t, f)
	require.Equal(t, byte(StartDelimiter), b[2])

	frames, errs := readAll(t, b)

	assert.Empty(t, errs)
	require.Len(t, frames, 1)
	assert.Equal(t, Frame(f), frames[0])
}

func TestReaderUnknownType(t *testing.T) {
	unknown := RawFrame{Type: 0x90, Payload: []byte{0x01, 0x02}}
	unknown.Checksum = Checksum(unknown.Body())

	good := TransmitStatus{FrameID: 3}

	frames, errs := readAll(t, append(unknown.Bytes(), mustEncode(t, good)...))

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrUnknownFrameType)
	require.Len(t, frames, 1)
	assert.Equal(t, Frame(good), frames[0])
}

func TestReaderMalformed(t *testing.T) {
	short := RawFrame{Type: FrameTypeTransmitStatus, Payload: []byte{0x01}}
	short.Checksum = Checksum(short.Body())

	good := TransmitStatus{FrameID: 3}

	frames, errs := readAll(t, append(short.Bytes(), mustEncode(t, good)...))

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMalformedFrame)
	require.Len(t, frames, 1)
}

func TestReaderZeroLength(t *testing.T) {
	good := TransmitStatus{FrameID: 3}

	frames, errs := readAll(t, append([]byte{0x7E, 0x00, 0x00}, mustEncode(t, good)...))

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMalformedFrame)
	require.Len(t, frames, 1)
}

func TestReaderTruncated(t *testing.T) {
	b := mustEncode(t, AtCommand{FrameID: 1, Command: "NI"})

	r := NewReader(bytes.NewReader(b[:5]))

	_, err := r.Next()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.False(t, IsFrameError(err))
}

func TestReaderNextRaw(t *testing.T) {
	b := mustEncode(t, AtCommand{FrameID: 1, Command: "NI"})

	raw, err := NewReader(bytes.NewReader(b)).NextRaw()
	require.NoError(t, err)

	assert.Equal(t, FrameTypeAtCommand, raw.Type)
	assert.Equal(t, []byte{0x01, 'N', 'I'}, raw.Payload)
	assert.Equal(t, b, raw.Bytes())
}
