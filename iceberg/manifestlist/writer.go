package manifestlist

import (
	"bytes"

	"github.com/hamba/avro/v2/ocf"

	avroschema "github.com/TFMV/icecore/iceberg/avro"
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// Writer accumulates ManifestListEntry headers into one manifest-list Avro
// file (spec.md §4.C). One Writer is built per new snapshot.
type Writer struct {
	buf           *bytes.Buffer
	enc           *ocf.Encoder
	formatVersion spec.FormatVersion
	count         int
}

// New starts a manifest-list writer for the given table format version.
func New(formatVersion spec.FormatVersion) (*Writer, error) {
	buf := &bytes.Buffer{}
	schema := avroschema.ManifestListSchema(formatVersion)
	enc, err := ocf.NewEncoderWithSchema(schema, buf, ocf.WithCodec(ocf.Deflate))
	if err != nil {
		return nil, errors.Wrap(errors.External, "creating manifest list avro encoder", err)
	}
	return &Writer{buf: buf, enc: enc, formatVersion: formatVersion}, nil
}

// Append adds one manifest's summary header to the list being built.
func (w *Writer) Append(entry spec.ManifestListEntry) error {
	if w.formatVersion == spec.FormatVersionV1 {
		wire, err := toWireV1(entry)
		if err != nil {
			return err
		}
		if err := w.enc.Encode(wire); err != nil {
			return errors.Wrap(errors.External, "encoding manifest list entry", err)
		}
	} else {
		wire, err := toWireV2(entry)
		if err != nil {
			return err
		}
		if err := w.enc.Encode(wire); err != nil {
			return errors.Wrap(errors.External, "encoding manifest list entry", err)
		}
	}
	w.count++
	return nil
}

// Count is the number of manifest entries appended so far.
func (w *Writer) Count() int { return w.count }

// Finish closes the encoder and returns the serialized manifest-list bytes.
func (w *Writer) Finish() ([]byte, error) {
	if err := w.enc.Close(); err != nil {
		return nil, errors.Wrap(errors.External, "closing manifest list avro encoder", err)
	}
	return w.buf.Bytes(), nil
}
