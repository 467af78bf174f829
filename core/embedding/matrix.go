package embedding

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// ReadMatrix reads numRows*dim little-endian float32 values from r. This is
// the raw layout the embedding export job writes: no header, rows
// concatenated in catalog order.
func ReadMatrix(r io.Reader, numRows, dim int) ([]float32, error) {
	if numRows < 0 || dim <= 0 {
		return nil, fmt.Errorf("embedding: invalid matrix shape %dx%d", numRows, dim)
	}

	total := numRows * dim
	vectors := make([]float32, total)
	buf := bufio.NewReaderSize(r, 1<<20)

	var scratch [4]byte
	for i := range total {
		if _, err := io.ReadFull(buf, scratch[:]); err != nil {
			return nil, fmt.Errorf("embedding: short matrix read at value %d of %d: %w", i, total, err)
		}
		vectors[i] = math.Float32frombits(binary.LittleEndian.Uint32(scratch[:]))
	}

	// Trailing bytes mean the metadata disagrees with the file.
	if _, err := buf.ReadByte(); err != io.EOF {
		return nil, fmt.Errorf("embedding: matrix file longer than %dx%d values", numRows, dim)
	}

	return vectors, nil
}

// OpenMatrix reads a matrix file from disk and wraps it in a Store.
func OpenMatrix(path string, numRows, dim int) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("embedding: open matrix: %w", err)
	}
	defer f.Close()

	vectors, err := ReadMatrix(f, numRows, dim)
	if err != nil {
		return nil, err
	}
	return NewStore(vectors, dim)
}
