package naptan

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"
)

// registryIndex is the gob image of a parsed stop registry together
// with the identity of the CSV it was built from. The image is only
// reused while the CSV on disk still matches.
type registryIndex struct {
	SourceModTime time.Time
	SourceSize    int64
	Stops         map[string]Stop
	Dups          map[string]int
}

// indexPath returns the sidecar location for a registry CSV.
func indexPath(csvPath string) string {
	return csvPath + ".gob"
}

// readIndex loads a previously serialized registry image. It returns
// false when the sidecar is missing, unreadable, or was built from a
// different version of the CSV; the caller then parses the CSV again.
func readIndex(path string, source os.FileInfo) (*registryIndex, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var idx registryIndex
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, false
	}
	if !idx.SourceModTime.Equal(source.ModTime()) || idx.SourceSize != source.Size() {
		return nil, false
	}
	return &idx, true
}

// writeIndex serializes a parsed registry next to its CSV. Decoding the
// gob image is much faster than parsing the national CSV, so repeat
// runs load the sidecar instead. The image is written to a temporary
// file and renamed so concurrent readers never see a partial index.
func writeIndex(path string, source os.FileInfo, stops map[string]Stop, dups map[string]int) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	idx := registryIndex{
		SourceModTime: source.ModTime(),
		SourceSize:    source.Size(),
		Stops:         stops,
		Dups:          dups,
	}
	if err := gob.NewEncoder(tmp).Encode(&idx); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
