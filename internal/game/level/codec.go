package level

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// RunLengthMax is the longest run a single code byte can carry.
const RunLengthMax = 32

// maxCodeDimension is the largest width or height a one-byte header can carry.
const maxCodeDimension = 255

var (
	// ErrMalformedCode is returned when a level code cannot be decoded into a
	// consistent grid.
	ErrMalformedCode = errors.New("malformed level code")
	// ErrDimensions is returned when a board has an unusable width or height.
	ErrDimensions = errors.New("invalid level dimensions")
)

// Encode serializes g as a level code: a width byte, a height byte, then one
// byte per run of identical kinds in row-major order, where
// byte = (runLength-1) + kind*RunLengthMax. The byte stream is base64-encoded.
// Runs continue across row boundaries and never exceed RunLengthMax.
//
// Precondition: g.Width() and g.Height() are <= 255.
// Postcondition: Decode(code) reproduces g.
func Encode(g *Grid) (string, error) {
	if g.width > maxCodeDimension || g.height > maxCodeDimension {
		return "", fmt.Errorf("%w: %dx%d exceeds %d", ErrDimensions, g.width, g.height, maxCodeDimension)
	}

	out := make([]byte, 0, 2+len(g.tiles))
	out = append(out, byte(g.width), byte(g.height))

	prev := g.tiles[0]
	count := 0
	for _, k := range g.tiles {
		if k != prev || count == RunLengthMax {
			out = append(out, runByte(prev, count))
			prev = k
			count = 0
		}
		count++
	}
	out = append(out, runByte(prev, count))

	return base64.StdEncoding.EncodeToString(out), nil
}

func runByte(k Kind, count int) byte {
	return byte(count-1) + byte(k)*RunLengthMax
}

// Decode parses a level code produced by Encode.
//
// Postcondition: Returns a grid with exactly width*height tiles, or an error
// wrapping ErrMalformedCode.
func Decode(code string) (*Grid, error) {
	data, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCode, err)
	}
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: missing width/height header", ErrMalformedCode)
	}
	width, height := int(data[0]), int(data[1])
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: zero dimension %dx%d", ErrMalformedCode, width, height)
	}

	g := NewGrid(width, height)
	n := 0
	for i, b := range data[2:] {
		k := Kind(b / RunLengthMax)
		if k > Robot {
			return nil, fmt.Errorf("%w: byte %d has unknown symbol index %d", ErrMalformedCode, i+2, k)
		}
		count := int(b%RunLengthMax) + 1
		if n+count > len(g.tiles) {
			return nil, fmt.Errorf("%w: runs exceed %dx%d board", ErrMalformedCode, width, height)
		}
		for j := 0; j < count; j++ {
			g.tiles[n] = k
			n++
		}
	}
	if n != len(g.tiles) {
		return nil, fmt.Errorf("%w: decoded %d symbols, want %d", ErrMalformedCode, n, len(g.tiles))
	}
	return g, nil
}
