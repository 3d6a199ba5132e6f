// Package manifest reads and writes manifest files: the Avro object
// container files that list the data files belonging to one write
// operation (spec.md §4.B). It layers a typed Writer/Reader pair over
// github.com/hamba/avro/v2/ocf, the manifest wire format icebox's own
// metadata package never finished wiring (see SPEC_FULL.md §3).
package manifest

import (
	"bytes"
	"io"

	"github.com/hamba/avro/v2/ocf"

	avroschema "github.com/TFMV/icecore/iceberg/avro"
	"github.com/TFMV/icecore/iceberg/rectangle"
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// Writer accumulates manifest entries and produces both the serialized
// manifest bytes and the summary ManifestListEntry header that describes
// them (spec.md §4.B — "a manifest writer appends entries and tracks
// running counts/bounds needed to build a ManifestListEntry").
type Writer struct {
	buf           *bytes.Buffer
	enc           *ocf.Encoder
	partitionSpec *spec.PartitionSpec
	schema        *spec.Schema
	formatVersion spec.FormatVersion

	snapshotID     int64
	sequenceNumber int64

	addedFiles, existingFiles, deletedFiles int32
	addedRows, existingRows, deletedRows    int64

	bounds       *rectangle.Rectangle
	containsNull []bool
	containsNaN  []bool
}

// New starts a fresh manifest writer for the given partition spec, schema
// and format version, tagging every appended entry with snapshotID and
// sequenceNumber unless the entry already carries its own (spec.md §9).
func New(partitionSpec *spec.PartitionSpec, schema *spec.Schema, formatVersion spec.FormatVersion, snapshotID, sequenceNumber int64) (*Writer, error) {
	partSchema, err := avroschema.PartitionValueSchema(partitionSpec.Fields, schema)
	if err != nil {
		return nil, err
	}
	entrySchema, err := avroschema.ManifestEntrySchema(partSchema, formatVersion)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	enc, err := ocf.NewEncoderWithSchema(entrySchema, buf, ocf.WithCodec(ocf.Deflate))
	if err != nil {
		return nil, errors.Wrap(errors.External, "creating manifest avro encoder", err)
	}

	return &Writer{
		buf:            buf,
		enc:            enc,
		partitionSpec:  partitionSpec,
		schema:         schema,
		formatVersion:  formatVersion,
		snapshotID:     snapshotID,
		sequenceNumber: sequenceNumber,
		containsNull:   make([]bool, len(partitionSpec.Fields)),
		containsNaN:    make([]bool, len(partitionSpec.Fields)),
	}, nil
}

// FromExisting opens a Writer seeded with every entry already in an
// existing manifest, re-appended as StatusExisting (spec.md §4.E —
// extending an existing manifest in place rather than always creating a
// new one). The existing manifest is fully read into memory before any
// entry is re-appended.
func FromExisting(r io.Reader, partitionSpec *spec.PartitionSpec, schema *spec.Schema, formatVersion spec.FormatVersion, snapshotID, sequenceNumber int64) (*Writer, error) {
	reader, err := NewReader(r, partitionSpec, schema, formatVersion)
	if err != nil {
		return nil, err
	}
	entries, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	w, err := New(partitionSpec, schema, formatVersion, snapshotID, sequenceNumber)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		e.Status = spec.StatusExisting
		if err := w.Append(e); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Append encodes one manifest entry and folds its partition values into
// the writer's running bounding rectangle and per-status row/file counts.
func (w *Writer) Append(entry spec.ManifestEntry) error {
	if entry.SnapshotID == nil {
		id := w.snapshotID
		entry.SnapshotID = &id
	}
	if w.formatVersion == spec.FormatVersionV2 && entry.SequenceNumber == nil && entry.Status != spec.StatusExisting {
		sn := w.sequenceNumber
		entry.SequenceNumber = &sn
	}

	switch w.formatVersion {
	case spec.FormatVersionV1:
		wire, err := toWireEntryV1(entry, w.partitionSpec.Fields)
		if err != nil {
			return err
		}
		if err := w.enc.Encode(wire); err != nil {
			return errors.Wrap(errors.External, "encoding manifest entry", err)
		}
	default:
		wire, err := toWireEntryV2(entry, w.partitionSpec.Fields)
		if err != nil {
			return err
		}
		if err := w.enc.Encode(wire); err != nil {
			return errors.Wrap(errors.External, "encoding manifest entry", err)
		}
	}

	return w.accumulate(entry)
}

func (w *Writer) accumulate(entry spec.ManifestEntry) error {
	switch entry.Status {
	case spec.StatusAdded:
		w.addedFiles++
		w.addedRows += entry.DataFile.RecordCount
	case spec.StatusExisting:
		w.existingFiles++
		w.existingRows += entry.DataFile.RecordCount
	case spec.StatusDeleted:
		w.deletedFiles++
		w.deletedRows += entry.DataFile.RecordCount
	}

	fieldNames := w.partitionSpec.FieldNames()
	point := make([]spec.Value, len(fieldNames))
	for i, name := range fieldNames {
		v, ok := entry.DataFile.Partition[name]
		if !ok {
			return errors.Newf(errors.NotFound, "data file missing partition value %q", name)
		}
		if v.Null {
			w.containsNull[i] = true
		}
		point[i] = v
	}
	if len(point) == 0 {
		return nil
	}
	if w.bounds == nil {
		w.bounds = rectangle.FromPoint(point)
		return nil
	}
	return w.bounds.ExpandWithNode(point)
}

// FileCount is the number of manifest entries appended so far, of every
// status. The manifest selector does not use it; it reads the added-files
// count of manifest-list entries.
func (w *Writer) FileCount() int32 {
	return w.addedFiles + w.existingFiles + w.deletedFiles
}

// Bounds returns the writer's running bounding rectangle over appended
// partition tuples, or nil if nothing has been appended yet (unpartitioned
// table, or empty writer).
func (w *Writer) Bounds() *rectangle.Rectangle {
	return w.bounds
}

// Finish closes the underlying Avro encoder and returns the serialized
// manifest bytes together with a ManifestListEntry summarizing them.
// ManifestPath and ManifestLength are left zero-valued; the caller fills
// them in once the bytes have been uploaded to the object store.
func (w *Writer) Finish() ([]byte, *spec.ManifestListEntry, error) {
	if err := w.enc.Close(); err != nil {
		return nil, nil, errors.Wrap(errors.External, "closing manifest avro encoder", err)
	}

	var partitions []spec.FieldSummary
	if w.bounds != nil {
		summaries, err := w.bounds.ToSummary(w.containsNull)
		if err != nil {
			return nil, nil, err
		}
		for i := range summaries {
			summaries[i].ContainsNaN = &w.containsNaN[i]
		}
		partitions = summaries
	}

	entry := &spec.ManifestListEntry{
		PartitionSpecID:    int32(w.partitionSpec.SpecID),
		Content:            spec.ManifestContentData,
		SequenceNumber:     w.sequenceNumber,
		MinSequenceNumber:  w.sequenceNumber,
		AddedSnapshotID:    w.snapshotID,
		AddedFilesCount:    &w.addedFiles,
		ExistingFilesCount: &w.existingFiles,
		DeletedFilesCount:  &w.deletedFiles,
		AddedRowsCount:     &w.addedRows,
		ExistingRowsCount:  &w.existingRows,
		DeletedRowsCount:   &w.deletedRows,
		Partitions:         partitions,
	}
	return w.buf.Bytes(), entry, nil
}
