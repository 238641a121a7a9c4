package xbeeapi

// Frame is one of the typed API frames listed in the registry. The set is
// closed: only this package can add variants.
type Frame interface {
	Type() FrameType

	// fields returns the encoded field values in schema order, followed by
	// the trailing field when the schema has one.
	fields() [][]byte
}

// RequestFrame is a frame sent to the radio that may solicit a response.
// An ID of zero asks the radio not to respond.
type RequestFrame interface {
	Frame
	ID() byte
	withID(id byte) RequestFrame
}

// ResponseFrame is a frame sent by the radio in reply to a request.
type ResponseFrame interface {
	Frame
	ID() byte
	response()
}

// AtCommand queries or sets a parameter of the local radio.
type AtCommand struct {
	FrameID   byte
	Command   string
	Parameter []byte
}

func (f AtCommand) Type() FrameType { return FrameTypeAtCommand }
func (f AtCommand) ID() byte        { return f.FrameID }

func (f AtCommand) withID(id byte) RequestFrame {
	f.FrameID = id
	return f
}

func (f AtCommand) fields() [][]byte {
	return [][]byte{{f.FrameID}, []byte(f.Command), f.Parameter}
}

// AtCommandResponse answers an AtCommand.
type AtCommandResponse struct {
	FrameID byte
	Command string
	Status  CommandStatus
	Value   []byte
}

func (f AtCommandResponse) Type() FrameType { return FrameTypeAtCommandResponse }
func (f AtCommandResponse) ID() byte        { return f.FrameID }
func (f AtCommandResponse) response()       {}

func (f AtCommandResponse) fields() [][]byte {
	return [][]byte{{f.FrameID}, []byte(f.Command), {byte(f.Status)}, f.Value}
}

// RemoteAtCommand queries or sets a parameter of a remote radio.
type RemoteAtCommand struct {
	FrameID     byte
	Destination uint64
	Address16   uint16
	Options     RemoteOptions
	Command     string
	Parameter   []byte
}

func (f RemoteAtCommand) Type() FrameType { return FrameTypeRemoteAtCommand }
func (f RemoteAtCommand) ID() byte        { return f.FrameID }

func (f RemoteAtCommand) withID(id byte) RequestFrame {
	f.FrameID = id
	return f
}

func (f RemoteAtCommand) fields() [][]byte {
	return [][]byte{
		{f.FrameID},
		uint64Bytes(f.Destination),
		uint16Bytes(f.Address16),
		{byte(f.Options)},
		[]byte(f.Command),
		f.Parameter,
	}
}

// RemoteAtCommandResponse answers a RemoteAtCommand.
type RemoteAtCommandResponse struct {
	FrameID   byte
	Source    uint64
	Address16 uint16
	Command   string
	Status    CommandStatus
	Value     []byte
}

func (f RemoteAtCommandResponse) Type() FrameType { return FrameTypeRemoteAtCommandResponse }
func (f RemoteAtCommandResponse) ID() byte        { return f.FrameID }
func (f RemoteAtCommandResponse) response()       {}

func (f RemoteAtCommandResponse) fields() [][]byte {
	return [][]byte{
		{f.FrameID},
		uint64Bytes(f.Source),
		uint16Bytes(f.Address16),
		[]byte(f.Command),
		{byte(f.Status)},
		f.Value,
	}
}

// TransmitRequest sends Data to the destination radio.
type TransmitRequest struct {
	FrameID     byte
	Destination uint64
	Address16   uint16
	Radius      byte
	Options     TransmitOptions
	Data        []byte
}

func (f TransmitRequest) Type() FrameType { return FrameTypeTransmitRequest }
func (f TransmitRequest) ID() byte        { return f.FrameID }

func (f TransmitRequest) withID(id byte) RequestFrame {
	f.FrameID = id
	return f
}

func (f TransmitRequest) fields() [][]byte {
	return [][]byte{
		{f.FrameID},
		uint64Bytes(f.Destination),
		uint16Bytes(f.Address16),
		{f.Radius},
		{byte(f.Options)},
		f.Data,
	}
}

// TransmitStatus reports the outcome of a TransmitRequest.
type TransmitStatus struct {
	FrameID   byte
	Address16 uint16
	Retries   byte
	Delivery  DeliveryStatus
	Discovery DiscoveryStatus
}

func (f TransmitStatus) Type() FrameType { return FrameTypeTransmitStatus }
func (f TransmitStatus) ID() byte        { return f.FrameID }
func (f TransmitStatus) response()       {}

func (f TransmitStatus) fields() [][]byte {
	return [][]byte{
		{f.FrameID},
		uint16Bytes(f.Address16),
		{f.Retries},
		{byte(f.Delivery)},
		{byte(f.Discovery)},
	}
}

// RawFrame is an untyped frame as it appears on the wire. It is valid when
// Checksum matches the type and payload bytes.
type RawFrame struct {
	Type     FrameType
	Payload  []byte
	Checksum byte
}

// Length returns the value of the length field: type byte plus payload.
func (r RawFrame) Length() int {
	return 1 + len(r.Payload)
}

// Body returns the frame type followed by the payload, the bytes covered by
// the checksum.
func (r RawFrame) Body() []byte {
	return append([]byte{byte(r.Type)}, r.Payload...)
}

func (r RawFrame) Valid() bool {
	return ValidChecksum(r.Body(), r.Checksum)
}

// Bytes returns the delimited wire form of the frame.
func (r RawFrame) Bytes() []byte {
	b := make([]byte, 3, 4+r.Length())

	b[0] = StartDelimiter
	putUint16(b[1:], uint16(r.Length()))

	b = append(b, byte(r.Type))
	b = append(b, r.Payload...)

	return append(b, r.Checksum)
}

func uint16Bytes(v uint16) []byte {
	b := make([]byte, 2)
	putUint16(b, v)
	return b
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	putUint64(b, v)
	return b
}
