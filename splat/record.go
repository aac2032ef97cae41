package splat

import (
	"fmt"

	"github.com/arloliu/splatpack/endian"
	"github.com/arloliu/splatpack/errs"
)

var engine = endian.GetLittleEndianEngine()

// Record holds the float32 channels of one splat in record order.
type Record [ChannelCount]float32

// Position returns the x, y, z position channels.
func (r *Record) Position() [3]float32 {
	return [3]float32{r[IndexPosition], r[IndexPosition+1], r[IndexPosition+2]}
}

// Rotation returns the orientation quaternion as stored: w, x, y, z.
func (r *Record) Rotation() [4]float32 {
	return [4]float32{r[IndexRotation], r[IndexRotation+1], r[IndexRotation+2], r[IndexRotation+3]}
}

// SetRotation stores a quaternion given as w, x, y, z.
func (r *Record) SetRotation(q [4]float32) {
	copy(r[IndexRotation:IndexRotation+4], q[:])
}

// Get returns the value of a named channel.
func (r *Record) Get(name string) (float32, error) {
	ch, ok := ChannelByName(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownChannel, name)
	}

	return r[ch.Index], nil
}

// Set assigns the value of a named channel.
func (r *Record) Set(name string, v float32) error {
	ch, ok := ChannelByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrUnknownChannel, name)
	}
	r[ch.Index] = v

	return nil
}

// RecordCount validates that buf holds whole float records and returns how
// many it holds.
func RecordCount(buf []byte) (int, error) {
	if len(buf)%RecordStride != 0 {
		return 0, fmt.Errorf("%w: buffer length %d is not a multiple of %d", errs.ErrInvalidStride, len(buf), RecordStride)
	}

	return len(buf) / RecordStride, nil
}

// ReadRecord decodes record i of buf into r.
func ReadRecord(buf []byte, i int, r *Record) {
	rec := buf[i*RecordStride : (i+1)*RecordStride]
	for c := range r {
		r[c] = endian.Float32(engine, rec[c*4:])
	}
}

// WriteRecord encodes r into slot i of buf.
func WriteRecord(buf []byte, i int, r *Record) {
	rec := buf[i*RecordStride : (i+1)*RecordStride]
	for c, v := range r {
		endian.PutFloat32(engine, rec[c*4:], v)
	}
}

// Value reads a single channel of record i.
func Value(buf []byte, i int, ch Channel) float32 {
	return endian.Float32(engine, buf[i*RecordStride+ch.Offset:])
}

// SetValue writes a single channel of record i.
func SetValue(buf []byte, i int, ch Channel, v float32) {
	endian.PutFloat32(engine, buf[i*RecordStride+ch.Offset:], v)
}

// Decode converts a float record buffer into records.
func Decode(buf []byte) ([]Record, error) {
	n, err := RecordCount(buf)
	if err != nil {
		return nil, err
	}

	records := make([]Record, n)
	for i := range records {
		ReadRecord(buf, i, &records[i])
	}

	return records, nil
}

// Encode converts records into a newly allocated float record buffer.
func Encode(records []Record) []byte {
	buf := make([]byte, len(records)*RecordStride)
	for i := range records {
		WriteRecord(buf, i, &records[i])
	}

	return buf
}
