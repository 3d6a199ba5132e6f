package table

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// manifestPath builds the on-storage path for the i-th manifest file a
// snapshot writes, "<uuid>-m<index>.avro" under the table's metadata
// directory (spec.md §6).
func manifestPath(location string, id uuid.UUID, index int) string {
	return fmt.Sprintf("%s/metadata/%s-m%d.avro", strings.TrimRight(location, "/"), id.String(), index)
}

// manifestListPath builds the on-storage path for a snapshot's manifest
// list, "snap-<snapshot_id><uuid>.avro" under the table's metadata
// directory (spec.md §6).
func manifestListPath(location string, snapshotID int64, id uuid.UUID) string {
	return fmt.Sprintf("%s/metadata/snap-%d%s.avro", strings.TrimRight(location, "/"), snapshotID, id.String())
}
