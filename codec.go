package xbeeapi

import "fmt"

// Marshal lays out the fields of f according to its schema and computes the
// checksum.
func Marshal(f Frame) (RawFrame, error) {
	s, ok := registry[f.Type()]

	if !ok {
		return RawFrame{}, fmt.Errorf("%w: 0x%02X", ErrUnknownFrameType, byte(f.Type()))
	}

	v := f.fields()
	p := make([]byte, 0, s.FixedLength())

	for i, fd := range s.Fields {
		if len(v[i]) != fd.Width {
			return RawFrame{}, fmt.Errorf("%w: %s: %s is %d bytes, want %d",
				ErrEncoding, s.Name, fd.Name, len(v[i]), fd.Width)
		}

		p = append(p, v[i]...)
	}

	if s.Trailing != "" {
		t := v[len(s.Fields)]

		if len(t) > s.MaxTrailing() {
			return RawFrame{}, fmt.Errorf("%w: %s: %s is %d bytes, max %d",
				ErrEncoding, s.Name, s.Trailing, len(t), s.MaxTrailing())
		}

		p = append(p, t...)
	}

	r := RawFrame{Type: s.Type, Payload: p}
	r.Checksum = Checksum(r.Body())

	return r, nil
}

// Encode returns the wire bytes of f: delimiter, length, type, payload and
// checksum.
func Encode(f Frame) ([]byte, error) {
	r, err := Marshal(f)

	if err != nil {
		return nil, err
	}

	return r.Bytes(), nil
}

// Decode promotes a raw frame to its typed form. The checksum is not
// checked; the reader does that before decoding.
func Decode(r RawFrame) (Frame, error) {
	s, ok := registry[r.Type]

	if !ok {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownFrameType, byte(r.Type))
	}

	n := s.FixedLength()

	if len(r.Payload) < n {
		return nil, fmt.Errorf("%w: %s payload is %d bytes, want at least %d",
			ErrMalformedFrame, s.Name, len(r.Payload), n)
	}

	if s.Trailing == "" && len(r.Payload) != n {
		return nil, fmt.Errorf("%w: %s payload is %d bytes, want %d",
			ErrMalformedFrame, s.Name, len(r.Payload), n)
	}

	// Copy so the frame does not alias the caller's buffer.
	p := append([]byte(nil), r.Payload...)
	v := make([][]byte, 0, len(s.Fields)+1)

	for _, fd := range s.Fields {
		v = append(v, p[:fd.Width])
		p = p[fd.Width:]
	}

	if s.Trailing != "" {
		if len(p) == 0 {
			p = nil
		}

		v = append(v, p)
	}

	return s.build(v), nil
}

// Unmarshal decodes one complete wire frame, including the delimiter and
// checksum.
func Unmarshal(b []byte) (Frame, error) {
	if len(b) < 5 {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrMalformedFrame, len(b))
	}

	if b[0] != StartDelimiter {
		return nil, fmt.Errorf("%w: start byte 0x%02X", ErrMalformedFrame, b[0])
	}

	l := int(getUint16(b[1:]))

	if l == 0 || len(b) != 4+l {
		return nil, fmt.Errorf("%w: length %d does not match %d bytes", ErrMalformedFrame, l, len(b))
	}

	r := RawFrame{
		Type:     FrameType(b[3]),
		Payload:  b[4 : 3+l],
		Checksum: b[3+l],
	}

	if !r.Valid() {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrChecksum, r.Checksum, Checksum(r.Body()))
	}

	return Decode(r)
}
