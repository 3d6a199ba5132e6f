package manifestlist

import (
	"io"

	"github.com/hamba/avro/v2/ocf"

	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// Reader decodes manifest-list entries. Reading a V1 manifest list yields
// entries with Content/SequenceNumber/MinSequenceNumber zero-valued — V1
// has no sequence numbers — so downstream code should branch on the
// table's FormatVersion, not on these fields, when it needs to know
// whether they are meaningful (spec.md §6).
type Reader struct {
	dec           *ocf.Decoder
	formatVersion spec.FormatVersion
	partitionTypes []spec.TypeID
}

// NewReader opens a manifest list for reading. partitionTypes, if given,
// lets Next decode FieldSummary bounds back into typed values; with nil,
// every bound is decoded as the zero TypeID (boolean), which is only safe
// when the caller does not inspect bounds.
func NewReader(r io.Reader, formatVersion spec.FormatVersion, partitionTypes []spec.TypeID) (*Reader, error) {
	dec, err := ocf.NewDecoder(r)
	if err != nil {
		return nil, errors.Wrap(errors.External, "opening manifest list avro decoder", err)
	}
	return &Reader{dec: dec, formatVersion: formatVersion, partitionTypes: partitionTypes}, nil
}

// Next decodes the next manifest-list entry, returning io.EOF once
// exhausted.
func (r *Reader) Next() (spec.ManifestListEntry, error) {
	if !r.dec.HasNext() {
		if err := r.dec.Error(); err != nil {
			return spec.ManifestListEntry{}, errors.Wrap(errors.External, "reading manifest list", err)
		}
		return spec.ManifestListEntry{}, io.EOF
	}

	if r.formatVersion == spec.FormatVersionV1 {
		var wire wireManifestFileV1
		if err := r.dec.Decode(&wire); err != nil {
			return spec.ManifestListEntry{}, errors.Wrap(errors.External, "decoding manifest list entry", err)
		}
		return fromWireV1(wire, r.partitionTypes)
	}
	var wire wireManifestFileV2
	if err := r.dec.Decode(&wire); err != nil {
		return spec.ManifestListEntry{}, errors.Wrap(errors.External, "decoding manifest list entry", err)
	}
	return fromWireV2(wire, r.partitionTypes)
}

// ReadAll drains the manifest list into a slice.
func (r *Reader) ReadAll() ([]spec.ManifestListEntry, error) {
	var out []spec.ManifestListEntry
	for {
		entry, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
}
