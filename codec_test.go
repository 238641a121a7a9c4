package xbeeapi

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAtCommand(t *testing.T) {
	b, err := Encode(AtCommand{FrameID: 1, Command: "NI"})
	require.NoError(t, err)

	// 0xFF - (0x08 + 0x01 + 0x4E + 0x49) = 0x5F
	want := []byte{0x7E, 0x00, 0x04, 0x08, 0x01, 0x4E, 0x49, 0x5F}

	if !bytes.Equal(b, want) {
		t.Fatalf("Received % X, expected % X", b, want)
	}
}

func TestEncodeAtCommandParameter(t *testing.T) {
	b, err := Encode(AtCommand{FrameID: 0x52, Command: "NH", Parameter: []byte{0x07}})
	require.NoError(t, err)

	want := []byte{0x7E, 0x00, 0x05, 0x08, 0x52, 0x4E, 0x48, 0x07, 0x08}

	if !bytes.Equal(b, want) {
		t.Fatalf("Received % X, expected % X", b, want)
	}
}

func TestEncodeTransmitRequest(t *testing.T) {
	f := TransmitRequest{
		FrameID:     0x01,
		Destination: 0x0013A200400A0127,
		Address16:   UnknownAddress16,
		Data:        []byte("TxData0A"),
	}

	b, err := Encode(f)
	require.NoError(t, err)

	want := []byte{
		0x7E, 0x00, 0x16, 0x10, 0x01,
		0x00, 0x13, 0xA2, 0x00, 0x40, 0x0A, 0x01, 0x27,
		0xFF, 0xFE, 0x00, 0x00,
		0x54, 0x78, 0x44, 0x61, 0x74, 0x61, 0x30, 0x41,
		0x13,
	}

	if !bytes.Equal(b, want) {
		t.Fatalf("Received % X, expected % X", b, want)
	}
}

var roundTripFrames = []Frame{
	AtCommand{FrameID: 1, Command: "NI"},
	AtCommand{FrameID: 2, Command: "ID", Parameter: []byte{0x7F, 0xFF}},
	AtCommandResponse{FrameID: 1, Command: "NI", Status: CommandStatusOK, Value: []byte("ROUTER")},
	AtCommandResponse{FrameID: 3, Command: "XX", Status: CommandStatusInvalidCommand},
	RemoteAtCommand{
		FrameID:     4,
		Destination: BroadcastAddress64,
		Address16:   UnknownAddress16,
		Options:     RemoteApplyChanges,
		Command:     "ID",
		Parameter:   []byte{0x7F, 0xFF},
	},
	RemoteAtCommandResponse{
		FrameID:   4,
		Source:    0x0013A20040522BAA,
		Address16: 0x7D84,
		Command:   "SL",
		Status:    CommandStatusOK,
		Value:     []byte{0x40, 0x52, 0x2B, 0xAA},
	},
	TransmitRequest{
		FrameID:     5,
		Destination: 0x0013A200400A0127,
		Address16:   UnknownAddress16,
		Radius:      2,
		Options:     TransmitDisableAck.WithMode(ModeDigiMesh),
		Data:        []byte{0x7E, 0x7D, 0x11, 0x13},
	},
	TransmitRequest{FrameID: 6, Destination: CoordinatorAddress64, Address16: 0},
	TransmitStatus{
		FrameID:   5,
		Address16: 0x7D84,
		Retries:   1,
		Delivery:  DeliverySuccess,
		Discovery: DiscoveryRoute,
	},
}

func TestRoundTrip(t *testing.T) {
	for _, f := range roundTripFrames {
		t.Run(f.Type().String(), func(t *testing.T) {
			b, err := Encode(f)
			require.NoError(t, err)

			got, err := Unmarshal(b)
			require.NoError(t, err)

			if diff := cmp.Diff(f, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("Round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalLength(t *testing.T) {
	for _, f := range roundTripFrames {
		r, err := Marshal(f)
		require.NoError(t, err)

		b := r.Bytes()

		assert.Equal(t, byte(StartDelimiter), b[0])
		assert.Equal(t, r.Length(), int(getUint16(b[1:])))
		assert.Len(t, b, 4+r.Length())
		assert.True(t, r.Valid())
	}
}

func TestEncodeBadCommand(t *testing.T) {
	_, err := Encode(AtCommand{FrameID: 1, Command: "N"})
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = Encode(RemoteAtCommand{FrameID: 1, Command: "NIX"})
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestEncodePayloadTooLarge(t *testing.T) {
	s, ok := Lookup(FrameTypeTransmitRequest)
	require.True(t, ok)
	assert.Equal(t, 65535-14, s.MaxTrailing())

	f := TransmitRequest{FrameID: 1, Data: make([]byte, s.MaxTrailing())}

	b, err := Encode(f)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF}, b[1:3])

	f.Data = append(f.Data, 0x00)

	_, err = Encode(f)
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode(RawFrame{Type: 0x90, Payload: []byte{0x01}})
	assert.ErrorIs(t, err, ErrUnknownFrameType)
}

func TestDecodeShortPayload(t *testing.T) {
	// Transmit status needs six payload bytes.
	_, err := Decode(RawFrame{Type: FrameTypeTransmitStatus, Payload: []byte{0x01, 0xFF, 0xFE}})
	assert.ErrorIs(t, err, ErrMalformedFrame)

	_, err = Decode(RawFrame{Type: FrameTypeAtCommandResponse, Payload: []byte{0x01, 'N'}})
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestDecodeLongFixedPayload(t *testing.T) {
	_, err := Decode(RawFrame{Type: FrameTypeTransmitStatus, Payload: make([]byte, 7)})
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestDecodeTrailing(t *testing.T) {
	f, err := Decode(RawFrame{
		Type:    FrameTypeAtCommandResponse,
		Payload: []byte{0x01, 'N', 'I', 0x00, ' ', 'A', 'B'},
	})
	require.NoError(t, err)

	want := AtCommandResponse{FrameID: 1, Command: "NI", Status: CommandStatusOK, Value: []byte(" AB")}

	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeDoesNotAlias(t *testing.T) {
	p := []byte{0x01, 'N', 'I', 0x00, 'A'}

	f, err := Decode(RawFrame{Type: FrameTypeAtCommandResponse, Payload: p})
	require.NoError(t, err)

	p[4] = 'Z'

	assert.Equal(t, []byte("A"), f.(AtCommandResponse).Value)
}

func TestUnmarshalChecksum(t *testing.T) {
	b, err := Encode(AtCommand{FrameID: 1, Command: "NI"})
	require.NoError(t, err)

	b[len(b)-1]++

	_, err = Unmarshal(b)
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestUnmarshalLength(t *testing.T) {
	_, err := Unmarshal([]byte{0x7E, 0x00, 0x09, 0x08, 0x01, 0x4E, 0x49, 0x5F})
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestFrameTypeString(t *testing.T) {
	assert.Equal(t, "Transmit Status", FrameTypeTransmitStatus.String())
	assert.Equal(t, "FrameType(0x90)", FrameType(0x90).String())
}

func TestSchemas(t *testing.T) {
	s := Schemas()
	require.Len(t, s, 6)

	for i := 1; i < len(s); i++ {
		assert.Less(t, s[i-1].Type, s[i].Type)
	}

	for _, v := range s {
		assert.Equal(t, "frame_id", v.Fields[0].Name, v.Name)
	}
}

func TestSchemaClass(t *testing.T) {
	for _, f := range roundTripFrames {
		s, ok := Lookup(f.Type())
		require.True(t, ok)

		_, isRequest := f.(RequestFrame)
		_, isResponse := responseOf(f)

		switch s.Class {
		case ClassRequest:
			assert.True(t, isRequest, s.Name)
			assert.False(t, isResponse, s.Name)
		case ClassResponse:
			assert.True(t, isResponse, s.Name)
			assert.False(t, isRequest, s.Name)
		}
	}
}

func TestTransmitOptions(t *testing.T) {
	o := (TransmitDisableAck | TransmitUnicastTraceRoute).WithMode(ModeDigiMesh)

	assert.Equal(t, TransmitOptions(0xC9), o)
	assert.Equal(t, ModeDigiMesh, o.Mode())
	assert.Equal(t, ModePointToPoint, o.WithMode(ModePointToPoint).Mode())
}
