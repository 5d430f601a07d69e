package sleeplab

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNPYRoundTrip(t *testing.T) {
	values := []float64{0.5, -1.25, 3, 1e6}

	for _, dtype := range []DType{Float32, Float64, Int64} {
		t.Run(string(dtype), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteNPY(&buf, values, dtype))

			// header block (magic..dict) must be 64-byte aligned
			assert.Zero(t, (buf.Len()-dataSize(dtype, len(values)))%64)

			got, err := ReadNPY(&buf)
			require.NoError(t, err)
			require.Len(t, got, len(values))
			for i := range values {
				want := values[i]
				if dtype == Int64 {
					want = float64(int64(want))
				}
				assert.InDelta(t, want, got[i], 1e-3)
			}
		})
	}
}

func TestNPYEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNPY(&buf, nil, Float32))
	got, err := ReadNPY(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNPYRejects(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := ReadNPY(bytes.NewReader([]byte("not an npy file at all")))
		assert.Error(t, err)
	})

	t.Run("2-D shape", func(t *testing.T) {
		buf := npyWithHeader(t, "{'descr': '<f8', 'fortran_order': False, 'shape': (2, 2), }")
		_, err := ReadNPY(buf)
		assert.ErrorContains(t, err, "not 1-D")
	})

	t.Run("fortran order", func(t *testing.T) {
		buf := npyWithHeader(t, "{'descr': '<f8', 'fortran_order': True, 'shape': (2,), }")
		_, err := ReadNPY(buf)
		assert.ErrorContains(t, err, "fortran")
	})

	t.Run("unsupported dtype", func(t *testing.T) {
		buf := npyWithHeader(t, "{'descr': '<i2', 'fortran_order': False, 'shape': (0,), }")
		_, err := ReadNPY(buf)
		assert.ErrorContains(t, err, "dtype")
	})
}

func dataSize(dtype DType, n int) int {
	if dtype == Float32 {
		return 4 * n
	}
	return 8 * n
}

// npyWithHeader builds a file with an arbitrary header dict and no payload.
func npyWithHeader(t *testing.T, header string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	buf.Write([]byte("\x93NUMPY"))
	buf.Write([]byte{1, 0})
	buf.Write([]byte{byte(len(header)), byte(len(header) >> 8)})
	buf.WriteString(header)
	return bytes.NewReader(buf.Bytes())
}
