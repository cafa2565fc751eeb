package storage

import (
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

func decompress(key string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(key, ".zst"):
		dec, err := zstd.NewReader(rc)
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		return &readCloser{Reader: dec, close: func() error {
			dec.Close()
			return rc.Close()
		}}, nil
	case strings.HasSuffix(key, ".lz4"):
		return &readCloser{Reader: lz4.NewReader(rc), close: rc.Close}, nil
	}
	return rc, nil
}

func compress(key string, wc io.WriteCloser) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(key, ".zst"):
		enc, err := zstd.NewWriter(wc, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			_ = wc.Close()
			return nil, err
		}
		return &writeCloser{Writer: enc, flush: enc.Close, close: wc.Close}, nil
	case strings.HasSuffix(key, ".lz4"):
		zw := lz4.NewWriter(wc)
		return &writeCloser{Writer: zw, flush: zw.Close, close: wc.Close}, nil
	}
	return wc, nil
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r *readCloser) Close() error { return r.close() }

// writeCloser flushes the compressor before closing the underlying writer.
// The underlying writer is closed even when the flush fails.
type writeCloser struct {
	io.Writer
	flush func() error
	close func() error
}

func (w *writeCloser) Close() error {
	return errors.Join(w.flush(), w.close())
}
