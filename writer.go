package xbeeapi

import "context"

// DefaultChunkSize is the largest payload Writer puts in one frame.
const DefaultChunkSize = 100

// Writer sends a byte stream to one destination as a series of transmit
// requests, waiting for each to be delivered.
type Writer struct {
	Context     context.Context
	Destination uint64
	Options     TransmitOptions
	ChunkSize   int

	rd *Radio
}

func NewWriter(rd *Radio, dest uint64) *Writer {
	return &Writer{
		Context:     context.Background(),
		Destination: dest,
		ChunkSize:   DefaultChunkSize,
		rd:          rd,
	}
}

func (w *Writer) Write(p []byte) (int, error) {
	l := w.ChunkSize
	n := 0

	if l <= 0 {
		l = DefaultChunkSize
	}

	for len(p) > 0 {
		c := p

		if len(c) > l {
			c = c[:l]
		}

		if err := w.write(c); err != nil {
			return n, err
		}

		n += len(c)
		p = p[len(c):]
	}

	return n, nil
}

func (w *Writer) WriteByte(c byte) error {
	return w.write([]byte{c})
}

func (w *Writer) write(p []byte) error {
	ctx := w.Context

	if ctx == nil {
		ctx = context.Background()
	}

	_, err := w.rd.Transmit(ctx, w.Destination, p, w.Options)

	return err
}
