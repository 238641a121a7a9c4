package xbeeapi

import (
	"bufio"
	"fmt"
	"io"
)

type readState int

const (
	seekingDelimiter readState = iota
	readingLength
	readingBody
	validatingChecksum
)

func (s readState) String() string {
	switch s {
	case seekingDelimiter:
		return "seeking delimiter"
	case readingLength:
		return "reading length"
	case readingBody:
		return "reading body"
	case validatingChecksum:
		return "validating checksum"
	}

	return fmt.Sprintf("readState(%d)", int(s))
}

// Reader splits an unframed byte stream into frames. Once a delimiter has
// been seen the declared length is trusted, so 0x7E bytes inside the length
// or body are data. After a checksum failure the bytes of the rejected frame
// are scanned again for the next delimiter.
type Reader struct {
	br     io.ByteReader
	replay []byte // Bytes to rescan before reading br.
	state  readState
	length int
	body   []byte
}

func NewReader(r io.Reader) *Reader {
	br, ok := r.(io.ByteReader)

	if !ok {
		br = bufio.NewReader(r)
	}

	return &Reader{br: br}
}

// Next returns the next typed frame. Errors for which IsFrameError is true
// concern one frame only and the caller may call Next again; any other error
// comes from the underlying reader.
func (r *Reader) Next() (Frame, error) {
	raw, err := r.NextRaw()

	if err != nil {
		return nil, err
	}

	return Decode(raw)
}

// NextRaw returns the next checksum valid frame without decoding it.
func (r *Reader) NextRaw() (RawFrame, error) {
	for {
		c, err := r.readByte()

		if err != nil {
			if r.state != seekingDelimiter {
				r.reset()

				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
			}

			return RawFrame{}, err
		}

		switch r.state {
		case seekingDelimiter:
			if c == StartDelimiter {
				r.state = readingLength
				r.body = r.body[:0]
			}

		case readingLength:
			r.body = append(r.body, c)

			if len(r.body) < 2 {
				continue
			}

			r.length = int(getUint16(r.body))
			r.body = r.body[:0]

			if r.length == 0 {
				r.reset()
				return RawFrame{}, fmt.Errorf("%w: zero length", ErrMalformedFrame)
			}

			r.state = readingBody

		case readingBody:
			r.body = append(r.body, c)

			if len(r.body) == r.length {
				r.state = validatingChecksum
			}

		case validatingChecksum:
			body := r.body

			if !ValidChecksum(body, c) {
				want := Checksum(body)

				// The rejected bytes precede anything still queued.
				rescan := make([]byte, 0, len(body)+1+len(r.replay))
				rescan = append(append(rescan, body...), c)
				r.replay = append(rescan, r.replay...)
				r.reset()

				return RawFrame{}, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrChecksum, c, want)
			}

			raw := RawFrame{
				Type:     FrameType(body[0]),
				Payload:  append([]byte(nil), body[1:]...),
				Checksum: c,
			}

			r.reset()

			return raw, nil
		}
	}
}

func (r *Reader) readByte() (byte, error) {
	if len(r.replay) > 0 {
		c := r.replay[0]
		r.replay = r.replay[1:]
		return c, nil
	}

	return r.br.ReadByte()
}

func (r *Reader) reset() {
	r.state = seekingDelimiter
	r.length = 0
	r.body = nil
}
