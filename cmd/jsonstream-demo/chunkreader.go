package main

import (
	"context"
	"io"
)

// stdinChunkSource reads fixed-size byte chunks from r, simulating the
// arbitrarily-split delivery a real network stream would give the decoder.
type stdinChunkSource struct {
	r         io.Reader
	chunkSize int
}

func (s *stdinChunkSource) Next(ctx context.Context) ([]byte, bool, error) {
	buf := make([]byte, s.chunkSize)
	n, err := s.r.Read(buf)
	if n > 0 {
		return buf[:n], true, nil
	}
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return nil, false, nil
}
