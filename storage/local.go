package storage

import (
	"context"
	"io"
	"os"
)

// Local uses the local file system; Location.Key is the file path.
type Local struct{}

func (Local) Open(_ context.Context, loc Location) (io.ReadCloser, error) {
	f, err := os.Open(loc.Key)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (Local) Create(_ context.Context, loc Location) (io.WriteCloser, error) {
	f, err := os.Create(loc.Key)
	if err != nil {
		return nil, err
	}
	return f, nil
}
