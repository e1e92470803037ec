package feed

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zeusync/raidbot/internal/core/world"
)

// maxLine bounds a single perception line; crowded frames can be large.
const maxLine = 1 << 20

// JSONLines reads one JSON perception object per line.
type JSONLines struct {
	reader        *bufio.Reader
	minConfidence float64
	line          int
	frame         uint64
}

// NewJSONLines reads from r and drops detections below minConfidence.
func NewJSONLines(r io.Reader, minConfidence float64) *JSONLines {
	return &JSONLines{reader: bufio.NewReaderSize(r, 64*1024), minConfidence: minConfidence}
}

func (j *JSONLines) Next(ctx context.Context) (world.Perception, error) {
	for {
		if err := ctx.Err(); err != nil {
			return world.Perception{}, err
		}
		raw, tooLong, err := j.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return world.Perception{}, io.EOF
			}
			return world.Perception{}, fmt.Errorf("read perception feed: %w", err)
		}
		j.line++

		if tooLong {
			return world.Perception{}, fmt.Errorf("%w: line %d: too long", ErrRejected, j.line)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		return j.decode(raw)
	}
}

// readLine returns the next line without its terminator. A line longer than
// maxLine is consumed up to its newline and reported as tooLong so the
// following lines stay readable.
func (j *JSONLines) readLine() (line []byte, tooLong bool, err error) {
	var read int
	for {
		chunk, rerr := j.reader.ReadSlice('\n')
		read += len(chunk)
		if !tooLong {
			if len(line)+len(chunk) > maxLine+2 {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}

		switch {
		case errors.Is(rerr, bufio.ErrBufferFull):
			continue
		case errors.Is(rerr, io.EOF):
			if read == 0 {
				return nil, false, io.EOF
			}
		case rerr != nil:
			return nil, false, rerr
		}
		break
	}

	if !tooLong {
		line = bytes.TrimRight(line, "\r\n")
		tooLong = len(line) > maxLine
	}
	return line, tooLong, nil
}

func (j *JSONLines) decode(raw []byte) (world.Perception, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return world.Perception{}, fmt.Errorf("%w: line %d: %v", ErrRejected, j.line, err)
	}
	p, err := world.DecodePerception(payload)
	if err != nil {
		return world.Perception{}, fmt.Errorf("%w: line %d: %w", ErrRejected, j.line, err)
	}
	j.frame = nextFrame(j.frame, &p)
	return p.FilterConfidence(j.minConfidence), nil
}
