package manifestlist

import (
	"github.com/TFMV/icecore/iceberg/spec"
)

func toWireFieldSummaries(partitions []spec.FieldSummary) ([]wireFieldSummary, error) {
	if partitions == nil {
		return nil, nil
	}
	out := make([]wireFieldSummary, len(partitions))
	for i, p := range partitions {
		var lower, upper []byte
		var err error
		if p.LowerBound != nil {
			if lower, err = encodeBound(*p.LowerBound); err != nil {
				return nil, err
			}
		}
		if p.UpperBound != nil {
			if upper, err = encodeBound(*p.UpperBound); err != nil {
				return nil, err
			}
		}
		out[i] = wireFieldSummary{
			ContainsNull: p.ContainsNull,
			ContainsNaN:  p.ContainsNaN,
			LowerBound:   lower,
			UpperBound:   upper,
		}
	}
	return out, nil
}

func fromWireFieldSummaries(wire []wireFieldSummary, types []spec.TypeID) ([]spec.FieldSummary, error) {
	if wire == nil {
		return nil, nil
	}
	out := make([]spec.FieldSummary, len(wire))
	for i, w := range wire {
		var t spec.TypeID
		if i < len(types) {
			t = types[i]
		}
		lower, err := decodeBound(w.LowerBound, t)
		if err != nil {
			return nil, err
		}
		upper, err := decodeBound(w.UpperBound, t)
		if err != nil {
			return nil, err
		}
		out[i] = spec.FieldSummary{
			ContainsNull: w.ContainsNull,
			ContainsNaN:  w.ContainsNaN,
			LowerBound:   lower,
			UpperBound:   upper,
		}
	}
	return out, nil
}

func toWireV1(e spec.ManifestListEntry) (wireManifestFileV1, error) {
	partitions, err := toWireFieldSummaries(e.Partitions)
	if err != nil {
		return wireManifestFileV1{}, err
	}
	return wireManifestFileV1{
		ManifestPath:       e.ManifestPath,
		ManifestLength:     e.ManifestLength,
		PartitionSpecID:    e.PartitionSpecID,
		AddedSnapshotID:    e.AddedSnapshotID,
		AddedFilesCount:    e.AddedFilesCount,
		ExistingFilesCount: e.ExistingFilesCount,
		DeletedFilesCount:  e.DeletedFilesCount,
		AddedRowsCount:     e.AddedRowsCount,
		ExistingRowsCount:  e.ExistingRowsCount,
		DeletedRowsCount:   e.DeletedRowsCount,
		Partitions:         partitions,
	}, nil
}

func fromWireV1(w wireManifestFileV1, types []spec.TypeID) (spec.ManifestListEntry, error) {
	partitions, err := fromWireFieldSummaries(w.Partitions, types)
	if err != nil {
		return spec.ManifestListEntry{}, err
	}
	return spec.ManifestListEntry{
		ManifestPath:       w.ManifestPath,
		ManifestLength:     w.ManifestLength,
		PartitionSpecID:    w.PartitionSpecID,
		Content:            spec.ManifestContentData,
		AddedSnapshotID:    w.AddedSnapshotID,
		AddedFilesCount:    w.AddedFilesCount,
		ExistingFilesCount: w.ExistingFilesCount,
		DeletedFilesCount:  w.DeletedFilesCount,
		AddedRowsCount:     w.AddedRowsCount,
		ExistingRowsCount:  w.ExistingRowsCount,
		DeletedRowsCount:   w.DeletedRowsCount,
		Partitions:         partitions,
	}, nil
}

func toWireV2(e spec.ManifestListEntry) (wireManifestFileV2, error) {
	partitions, err := toWireFieldSummaries(e.Partitions)
	if err != nil {
		return wireManifestFileV2{}, err
	}
	return wireManifestFileV2{
		Content:            int32(e.Content),
		SequenceNumber:     e.SequenceNumber,
		MinSequenceNumber:  e.MinSequenceNumber,
		ManifestPath:       e.ManifestPath,
		ManifestLength:     e.ManifestLength,
		PartitionSpecID:    e.PartitionSpecID,
		AddedSnapshotID:    e.AddedSnapshotID,
		AddedFilesCount:    e.AddedFilesCount,
		ExistingFilesCount: e.ExistingFilesCount,
		DeletedFilesCount:  e.DeletedFilesCount,
		AddedRowsCount:     e.AddedRowsCount,
		ExistingRowsCount:  e.ExistingRowsCount,
		DeletedRowsCount:   e.DeletedRowsCount,
		Partitions:         partitions,
	}, nil
}

func fromWireV2(w wireManifestFileV2, types []spec.TypeID) (spec.ManifestListEntry, error) {
	partitions, err := fromWireFieldSummaries(w.Partitions, types)
	if err != nil {
		return spec.ManifestListEntry{}, err
	}
	return spec.ManifestListEntry{
		ManifestPath:       w.ManifestPath,
		ManifestLength:     w.ManifestLength,
		PartitionSpecID:    w.PartitionSpecID,
		Content:            spec.ManifestContent(w.Content),
		SequenceNumber:     w.SequenceNumber,
		MinSequenceNumber:  w.MinSequenceNumber,
		AddedSnapshotID:    w.AddedSnapshotID,
		AddedFilesCount:    w.AddedFilesCount,
		ExistingFilesCount: w.ExistingFilesCount,
		DeletedFilesCount:  w.DeletedFilesCount,
		AddedRowsCount:     w.AddedRowsCount,
		ExistingRowsCount:  w.ExistingRowsCount,
		DeletedRowsCount:   w.DeletedRowsCount,
		Partitions:         partitions,
	}, nil
}
