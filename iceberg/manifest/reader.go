package manifest

import (
	"io"

	"github.com/hamba/avro/v2/ocf"

	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// Reader pulls manifest entries one at a time out of a manifest file's
// Avro bytes, inheriting snapshot id and sequence numbers from the
// enclosing ManifestListEntry when an entry didn't carry its own (spec.md
// §9, V2 sequence-number inheritance).
type Reader struct {
	dec           *ocf.Decoder
	partitionSpec *spec.PartitionSpec
	schema        *spec.Schema
	formatVersion spec.FormatVersion
	list          *spec.ManifestListEntry
}

// NewReader opens a manifest for reading. The enclosing ManifestListEntry,
// used to inherit snapshot id / sequence numbers into entries that omit
// them, is attached afterwards with WithManifestListEntry.
func NewReader(r io.Reader, partitionSpec *spec.PartitionSpec, schema *spec.Schema, formatVersion spec.FormatVersion) (*Reader, error) {
	dec, err := ocf.NewDecoder(r)
	if err != nil {
		return nil, errors.Wrap(errors.External, "opening manifest avro decoder", err)
	}
	return &Reader{dec: dec, partitionSpec: partitionSpec, schema: schema, formatVersion: formatVersion}, nil
}

// WithManifestListEntry attaches the enclosing ManifestListEntry so
// Next/ReadAll can inherit missing snapshot id / sequence numbers, and
// returns the same Reader for chaining.
func (r *Reader) WithManifestListEntry(list *spec.ManifestListEntry) *Reader {
	r.list = list
	return r
}

// Next decodes the next manifest entry, returning io.EOF once exhausted.
func (r *Reader) Next() (spec.ManifestEntry, error) {
	if !r.dec.HasNext() {
		if err := r.dec.Error(); err != nil {
			return spec.ManifestEntry{}, errors.Wrap(errors.External, "reading manifest", err)
		}
		return spec.ManifestEntry{}, io.EOF
	}

	var entry spec.ManifestEntry
	var err error
	if r.formatVersion == spec.FormatVersionV1 {
		var wire wireEntryV1
		if decErr := r.dec.Decode(&wire); decErr != nil {
			return spec.ManifestEntry{}, errors.Wrap(errors.External, "decoding manifest entry", decErr)
		}
		entry, err = fromWireEntryV1(wire, r.partitionSpec.Fields, r.schema)
	} else {
		var wire wireEntryV2
		if decErr := r.dec.Decode(&wire); decErr != nil {
			return spec.ManifestEntry{}, errors.Wrap(errors.External, "decoding manifest entry", decErr)
		}
		entry, err = fromWireEntryV2(wire, r.partitionSpec.Fields, r.schema)
	}
	if err != nil {
		return spec.ManifestEntry{}, err
	}

	if r.list != nil {
		entry.Inherit(r.list)
	}
	return entry, nil
}

// ReadAll drains the manifest into a slice, for callers (like
// FromExisting) that need the full entry set before deciding anything.
func (r *Reader) ReadAll() ([]spec.ManifestEntry, error) {
	var out []spec.ManifestEntry
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
