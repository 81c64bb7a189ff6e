package storage

import "path/filepath"

// shardWidth is the number of leading hash characters used per shard
// directory level. Two levels of two characters keep directory fan-out
// manageable (256 entries per level).
const (
	shardLevels = 2
	shardWidth  = 2
)

// shardPath returns the relative sharded path for a reference.
//
// Example:
//
//	ref: "abcdef1234..."
//	result: "ab/cd/abcdef1234..."
func shardPath(ref string) string {
	if len(ref) < shardLevels*shardWidth {
		return ref
	}

	components := make([]string, 0, shardLevels+1)
	offset := 0
	for i := 0; i < shardLevels; i++ {
		components = append(components, ref[offset:offset+shardWidth])
		offset += shardWidth
	}
	components = append(components, ref)

	return filepath.Join(components...)
}
