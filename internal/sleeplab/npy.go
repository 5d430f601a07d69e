package sleeplab

import (
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Minimal NumPy .npy codec for the 1-D little-endian arrays sleeplab-format
// datasets store: float32, float64 and int64. Format reference:
// https://numpy.org/doc/stable/reference/generated/numpy.lib.format.html

// DType identifies the on-disk element type of an NPY array.
type DType string

const (
	Float32 DType = "<f4"
	Float64 DType = "<f8"
	Int64   DType = "<i8"
)

var npyMagic = []byte("\x93NUMPY")

// WriteNPY writes values as a 1-D NPY v1.0 array of the given dtype.
// Values are converted from float64 to the target element type.
func WriteNPY(w io.Writer, values []float64, dtype DType) error {
	switch dtype {
	case Float32, Float64, Int64:
	default:
		return fmt.Errorf("unsupported npy dtype %q", dtype)
	}

	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%d,), }", dtype, len(values))
	// Pad so magic+version+length+header is a multiple of 64, newline last.
	total := len(npyMagic) + 2 + 2 + len(header) + 1
	pad := (64 - total%64) % 64
	header += strings.Repeat(" ", pad) + "\n"

	if _, err := w.Write(npyMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{1, 0}); err != nil { // version 1.0
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	switch dtype {
	case Float32:
		out := make([]float32, len(values))
		for i, v := range values {
			out[i] = float32(v)
		}
		return binary.Write(w, binary.LittleEndian, out)
	case Int64:
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = int64(v)
		}
		return binary.Write(w, binary.LittleEndian, out)
	default:
		return binary.Write(w, binary.LittleEndian, values)
	}
}

var npyHeaderRe = regexp.MustCompile(`'descr':\s*'([^']+)',\s*'fortran_order':\s*(True|False),\s*'shape':\s*\(([0-9, ]*)\)`)

// ReadNPY reads a 1-D NPY array and returns its values as float64.
func ReadNPY(r io.Reader) ([]float64, error) {
	magic := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read npy magic: %w", err)
	}
	if string(magic[:len(npyMagic)]) != string(npyMagic) {
		return nil, fmt.Errorf("not an npy file")
	}
	if magic[len(npyMagic)] != 1 {
		return nil, fmt.Errorf("unsupported npy version %d.%d", magic[len(npyMagic)], magic[len(npyMagic)+1])
	}

	var hlen uint16
	if err := binary.Read(r, binary.LittleEndian, &hlen); err != nil {
		return nil, fmt.Errorf("read npy header length: %w", err)
	}
	hdr := make([]byte, hlen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("read npy header: %w", err)
	}

	m := npyHeaderRe.FindStringSubmatch(string(hdr))
	if m == nil {
		return nil, fmt.Errorf("malformed npy header %q", strings.TrimSpace(string(hdr)))
	}
	descr, fortran, shape := m[1], m[2], strings.TrimSuffix(strings.ReplaceAll(m[3], " ", ""), ",")
	if fortran != "False" {
		return nil, fmt.Errorf("fortran-order npy arrays are not supported")
	}
	if strings.Contains(shape, ",") {
		return nil, fmt.Errorf("npy array is not 1-D: shape (%s)", m[3])
	}
	n := 0
	if shape != "" {
		var err error
		n, err = strconv.Atoi(shape)
		if err != nil {
			return nil, fmt.Errorf("malformed npy shape (%s)", m[3])
		}
	}

	values := make([]float64, n)
	switch DType(descr) {
	case Float32:
		buf := make([]float32, n)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
		for i, v := range buf {
			values[i] = float64(v)
		}
	case Float64:
		if err := binary.Read(r, binary.LittleEndian, values); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
	case Int64:
		buf := make([]int64, n)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
		for i, v := range buf {
			values[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("unsupported npy dtype %q", descr)
	}
	return values, nil
}
