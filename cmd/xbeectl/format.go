package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/ebusto/xbeeapi"
)

// Parameters whose value is text rather than a number.
var textCommands = map[string]bool{
	"NI": true,
}

func formatValue(cmd string, v []byte) string {
	if len(v) == 0 {
		return "OK"
	}

	if textCommands[cmd] && printable(v) {
		return string(v)
	}

	return strings.ToUpper(hex.EncodeToString(v))
}

func printable(b []byte) bool {
	for _, c := range b {
		if c > unicode.MaxASCII || !unicode.IsPrint(rune(c)) {
			return false
		}
	}

	return true
}

func formatFrame(f xbeeapi.Frame) string {
	switch f := f.(type) {
	case xbeeapi.AtCommandResponse:
		return fmt.Sprintf("%s id=%d cmd=%s status=%s value=%s",
			f.Type(), f.FrameID, f.Command, f.Status, formatValue(f.Command, f.Value))

	case xbeeapi.RemoteAtCommandResponse:
		return fmt.Sprintf("%s id=%d from=%016X/%04X cmd=%s status=%s value=%s",
			f.Type(), f.FrameID, f.Source, f.Address16, f.Command, f.Status, formatValue(f.Command, f.Value))

	case xbeeapi.TransmitStatus:
		return fmt.Sprintf("%s id=%d to=%04X retries=%d delivery=%s discovery=%s",
			f.Type(), f.FrameID, f.Address16, f.Retries, f.Delivery, f.Discovery)

	case xbeeapi.TransmitRequest:
		return fmt.Sprintf("%s id=%d to=%016X data=%q", f.Type(), f.FrameID, f.Destination, f.Data)

	case xbeeapi.AtCommand:
		return fmt.Sprintf("%s id=%d cmd=%s param=%X", f.Type(), f.FrameID, f.Command, f.Parameter)

	case xbeeapi.RemoteAtCommand:
		return fmt.Sprintf("%s id=%d to=%016X cmd=%s param=%X", f.Type(), f.FrameID, f.Destination, f.Command, f.Parameter)
	}

	return f.Type().String()
}
