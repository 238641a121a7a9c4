package xbeeapi

import "sort"

// Class tells requests from responses.
type Class int

const (
	ClassRequest Class = iota
	ClassResponse
)

// Field is one fixed width field of a frame payload.
type Field struct {
	Name  string
	Width int
}

// Schema describes the payload layout of a frame type. Fields are encoded in
// order; Trailing, when set, names a variable length field that consumes the
// rest of the payload.
type Schema struct {
	Type     FrameType
	Name     string
	Class    Class
	Fields   []Field
	Trailing string

	build func(v [][]byte) Frame
}

// FixedLength returns the number of payload bytes taken by fixed fields.
func (s *Schema) FixedLength() int {
	n := 0

	for _, f := range s.Fields {
		n += f.Width
	}

	return n
}

// MaxTrailing returns the largest trailing field the length field can
// describe, or zero when the type has no trailing field.
func (s *Schema) MaxTrailing() int {
	if s.Trailing == "" {
		return 0
	}

	return MaxFrameLength - 1 - s.FixedLength()
}

// The registry is never written after initialization.
var registry = map[FrameType]*Schema{
	FrameTypeAtCommand: {
		Type:  FrameTypeAtCommand,
		Name:  "AT Command",
		Class: ClassRequest,
		Fields: []Field{
			{"frame_id", 1},
			{"at_command", 2},
		},
		Trailing: "parameter",
		build: func(v [][]byte) Frame {
			return AtCommand{
				FrameID:   v[0][0],
				Command:   string(v[1]),
				Parameter: v[2],
			}
		},
	},
	FrameTypeAtCommandResponse: {
		Type:  FrameTypeAtCommandResponse,
		Name:  "AT Command Response",
		Class: ClassResponse,
		Fields: []Field{
			{"frame_id", 1},
			{"at_command", 2},
			{"status", 1},
		},
		Trailing: "value",
		build: func(v [][]byte) Frame {
			return AtCommandResponse{
				FrameID: v[0][0],
				Command: string(v[1]),
				Status:  CommandStatus(v[2][0]),
				Value:   v[3],
			}
		},
	},
	FrameTypeRemoteAtCommand: {
		Type:  FrameTypeRemoteAtCommand,
		Name:  "Remote AT Command Request",
		Class: ClassRequest,
		Fields: []Field{
			{"frame_id", 1},
			{"dest_addr64", 8},
			{"dest_addr16", 2},
			{"options", 1},
			{"at_command", 2},
		},
		Trailing: "parameter",
		build: func(v [][]byte) Frame {
			return RemoteAtCommand{
				FrameID:     v[0][0],
				Destination: getUint64(v[1]),
				Address16:   getUint16(v[2]),
				Options:     RemoteOptions(v[3][0]),
				Command:     string(v[4]),
				Parameter:   v[5],
			}
		},
	},
	FrameTypeRemoteAtCommandResponse: {
		Type:  FrameTypeRemoteAtCommandResponse,
		Name:  "Remote AT Command Response",
		Class: ClassResponse,
		Fields: []Field{
			{"frame_id", 1},
			{"src_addr64", 8},
			{"src_addr16", 2},
			{"at_command", 2},
			{"status", 1},
		},
		Trailing: "value",
		build: func(v [][]byte) Frame {
			return RemoteAtCommandResponse{
				FrameID:   v[0][0],
				Source:    getUint64(v[1]),
				Address16: getUint16(v[2]),
				Command:   string(v[3]),
				Status:    CommandStatus(v[4][0]),
				Value:     v[5],
			}
		},
	},
	FrameTypeTransmitRequest: {
		Type:  FrameTypeTransmitRequest,
		Name:  "Transmit Request",
		Class: ClassRequest,
		Fields: []Field{
			{"frame_id", 1},
			{"dest_addr64", 8},
			{"dest_addr16", 2},
			{"broadcast_radius", 1},
			{"options", 1},
		},
		Trailing: "payload",
		build: func(v [][]byte) Frame {
			return TransmitRequest{
				FrameID:     v[0][0],
				Destination: getUint64(v[1]),
				Address16:   getUint16(v[2]),
				Radius:      v[3][0],
				Options:     TransmitOptions(v[4][0]),
				Data:        v[5],
			}
		},
	},
	FrameTypeTransmitStatus: {
		Type:  FrameTypeTransmitStatus,
		Name:  "Transmit Status",
		Class: ClassResponse,
		Fields: []Field{
			{"frame_id", 1},
			{"dest_addr16", 2},
			{"retry_count", 1},
			{"delivery_status", 1},
			{"discovery_status", 1},
		},
		build: func(v [][]byte) Frame {
			return TransmitStatus{
				FrameID:   v[0][0],
				Address16: getUint16(v[1]),
				Retries:   v[2][0],
				Delivery:  DeliveryStatus(v[3][0]),
				Discovery: DiscoveryStatus(v[4][0]),
			}
		},
	},
}

// Lookup returns the schema registered for t. The returned schema must not
// be modified.
func Lookup(t FrameType) (*Schema, bool) {
	s, ok := registry[t]
	return s, ok
}

// Schemas returns every registered schema ordered by frame type.
func Schemas() []*Schema {
	s := make([]*Schema, 0, len(registry))

	for _, v := range registry {
		s = append(s, v)
	}

	sort.Slice(s, func(i, j int) bool { return s[i].Type < s[j].Type })

	return s
}
