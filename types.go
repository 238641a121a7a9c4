package xbeeapi

import (
	"encoding/binary"
	"fmt"
)

var (
	putUint16 = binary.BigEndian.PutUint16
	putUint64 = binary.BigEndian.PutUint64
	getUint16 = binary.BigEndian.Uint16
	getUint64 = binary.BigEndian.Uint64
)

// StartDelimiter begins every API frame on the wire.
const StartDelimiter = 0x7E

// MaxFrameLength is the largest value the two byte length field can hold.
const MaxFrameLength = 0xFFFF

const (
	// BroadcastAddress64 reaches every node on the network.
	BroadcastAddress64 uint64 = 0x000000000000FFFF

	// CoordinatorAddress64 addresses the network coordinator.
	CoordinatorAddress64 uint64 = 0x0000000000000000

	// UnknownAddress16 is used when the 16 bit address is unknown or unused.
	UnknownAddress16 uint16 = 0xFFFE
)

// FrameType is the one byte tag following the length field.
type FrameType byte

const (
	FrameTypeAtCommand               FrameType = 0x08
	FrameTypeTransmitRequest         FrameType = 0x10
	FrameTypeRemoteAtCommand         FrameType = 0x17
	FrameTypeAtCommandResponse       FrameType = 0x88
	FrameTypeTransmitStatus          FrameType = 0x8B
	FrameTypeRemoteAtCommandResponse FrameType = 0x97
)

func (t FrameType) String() string {
	if s, ok := registry[t]; ok {
		return s.Name
	}

	return fmt.Sprintf("FrameType(0x%02X)", byte(t))
}

// CommandStatus is the status byte of AT and remote AT responses.
type CommandStatus byte

const (
	CommandStatusOK               CommandStatus = 0x00
	CommandStatusError            CommandStatus = 0x01
	CommandStatusInvalidCommand   CommandStatus = 0x02
	CommandStatusInvalidParameter CommandStatus = 0x03
	CommandStatusTxFailure        CommandStatus = 0x04
)

var commandStatusNames = map[CommandStatus]string{
	CommandStatusOK:               "OK",
	CommandStatusError:            "ERROR",
	CommandStatusInvalidCommand:   "invalid command",
	CommandStatusInvalidParameter: "invalid parameter",
	CommandStatusTxFailure:        "transmission failure",
}

func (s CommandStatus) String() string {
	if n, ok := commandStatusNames[s]; ok {
		return n
	}

	return fmt.Sprintf("CommandStatus(0x%02X)", byte(s))
}

// DeliveryStatus is the delivery outcome reported by a Transmit Status frame.
type DeliveryStatus byte

const (
	DeliverySuccess           DeliveryStatus = 0x00
	DeliveryMACAckFailure     DeliveryStatus = 0x01
	DeliveryCCAFailure        DeliveryStatus = 0x02
	DeliveryInvalidEndpoint   DeliveryStatus = 0x15
	DeliveryNetworkAckFailure DeliveryStatus = 0x21
	DeliveryNotJoined         DeliveryStatus = 0x22
	DeliverySelfAddressed     DeliveryStatus = 0x23
	DeliveryAddressNotFound   DeliveryStatus = 0x24
	DeliveryRouteNotFound     DeliveryStatus = 0x25
	DeliveryPayloadTooLarge   DeliveryStatus = 0x74
)

var deliveryStatusNames = map[DeliveryStatus]string{
	DeliverySuccess:           "success",
	DeliveryMACAckFailure:     "MAC ACK failure",
	DeliveryCCAFailure:        "CCA failure",
	DeliveryInvalidEndpoint:   "invalid destination endpoint",
	DeliveryNetworkAckFailure: "network ACK failure",
	DeliveryNotJoined:         "not joined to network",
	DeliverySelfAddressed:     "self-addressed",
	DeliveryAddressNotFound:   "address not found",
	DeliveryRouteNotFound:     "route not found",
	DeliveryPayloadTooLarge:   "payload too large",
}

func (s DeliveryStatus) String() string {
	if n, ok := deliveryStatusNames[s]; ok {
		return n
	}

	return fmt.Sprintf("DeliveryStatus(0x%02X)", byte(s))
}

// DiscoveryStatus reports the discovery overhead of a transmission.
type DiscoveryStatus byte

const (
	DiscoveryNone            DiscoveryStatus = 0x00
	DiscoveryAddress         DiscoveryStatus = 0x01
	DiscoveryRoute           DiscoveryStatus = 0x02
	DiscoveryAddressAndRoute DiscoveryStatus = 0x03
	DiscoveryExtendedTimeout DiscoveryStatus = 0x40
)

var discoveryStatusNames = map[DiscoveryStatus]string{
	DiscoveryNone:            "no discovery overhead",
	DiscoveryAddress:         "address discovery",
	DiscoveryRoute:           "route discovery",
	DiscoveryAddressAndRoute: "address and route discovery",
	DiscoveryExtendedTimeout: "extended timeout discovery",
}

func (s DiscoveryStatus) String() string {
	if n, ok := discoveryStatusNames[s]; ok {
		return n
	}

	return fmt.Sprintf("DiscoveryStatus(0x%02X)", byte(s))
}

// MessagingMode selects the delivery method of a transmit request.
type MessagingMode byte

const (
	ModeDefault      MessagingMode = 0x0
	ModePointToPoint MessagingMode = 0x1
	ModeRepeater     MessagingMode = 0x2
	ModeDigiMesh     MessagingMode = 0x3
)

// TransmitOptions is the options byte of a Transmit Request.
type TransmitOptions byte

const (
	TransmitDisableAck            TransmitOptions = 1 << 0
	TransmitDisableRouteDiscovery TransmitOptions = 1 << 1
	TransmitUnicastNack           TransmitOptions = 1 << 2
	TransmitUnicastTraceRoute     TransmitOptions = 1 << 3
)

// WithMode returns o with the delivery method in bits 6 and 7 replaced by m.
func (o TransmitOptions) WithMode(m MessagingMode) TransmitOptions {
	return o&0x3F | TransmitOptions(m&0x3)<<6
}

// Mode returns the delivery method encoded in bits 6 and 7.
func (o TransmitOptions) Mode() MessagingMode {
	return MessagingMode(o >> 6)
}

// RemoteOptions is the options byte of a Remote AT Command Request.
type RemoteOptions byte

const (
	RemoteDisableAck   RemoteOptions = 0x01
	RemoteApplyChanges RemoteOptions = 0x02
)
