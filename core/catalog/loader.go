package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adalundhe/resona/core/embedding"
)

// Snapshot file names as written by the export job.
const (
	tracksFile = "tracks.json"
	matrixFile = "embeddings.bin"
	metaFile   = "embeddings_meta.json"
)

// matrixMeta mirrors embeddings_meta.json.
type matrixMeta struct {
	NumTracks  int `json:"numTracks"`
	Dimensions int `json:"dimensions"`
}

// Load reads a full snapshot directory and returns the catalog plus the
// index-aligned embedding store. The track count in tracks.json must match
// the matrix metadata exactly; a mismatch means the snapshot is torn and
// nothing is returned.
func Load(dir string, logger *slog.Logger) (*Catalog, *embedding.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	tracks, err := loadTracks(filepath.Join(dir, tracksFile))
	if err != nil {
		return nil, nil, err
	}

	meta, err := loadMeta(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, nil, err
	}
	if meta.NumTracks != len(tracks) {
		return nil, nil, fmt.Errorf("catalog: snapshot mismatch: %d tracks but matrix metadata says %d rows", len(tracks), meta.NumTracks)
	}

	store, err := embedding.OpenMatrix(filepath.Join(dir, matrixFile), meta.NumTracks, meta.Dimensions)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("catalog loaded",
		"tracks", len(tracks),
		"dimensions", meta.Dimensions,
		"elapsed", time.Since(start))

	return New(tracks), store, nil
}

// loadTracks streams the {"tracks": [...]} document rather than unmarshaling
// it wholesale; the shipped snapshot runs to tens of megabytes.
func loadTracks(path string) ([]Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open tracks: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)

	// Walk to the "tracks" array.
	if _, err := dec.Token(); err != nil { // {
		return nil, fmt.Errorf("catalog: parse tracks: %w", err)
	}
	var (
		tracks []Track
		found  bool
	)
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("catalog: parse tracks: %w", err)
		}
		if key != "tracks" {
			// Skip unknown top-level values.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("catalog: parse tracks: %w", err)
			}
			continue
		}

		found = true
		if _, err := dec.Token(); err != nil { // [
			return nil, fmt.Errorf("catalog: parse tracks: %w", err)
		}
		for dec.More() {
			var t Track
			if err := dec.Decode(&t); err != nil {
				return nil, fmt.Errorf("catalog: parse track %d: %w", len(tracks), err)
			}
			tracks = append(tracks, t)
		}
		if _, err := dec.Token(); err != nil { // ]
			return nil, fmt.Errorf("catalog: parse tracks: %w", err)
		}
	}

	if !found {
		return nil, fmt.Errorf("catalog: %s has no tracks array", filepath.Base(path))
	}
	return tracks, nil
}

func loadMeta(path string) (matrixMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return matrixMeta{}, fmt.Errorf("catalog: read matrix metadata: %w", err)
	}

	var meta matrixMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return matrixMeta{}, fmt.Errorf("catalog: parse matrix metadata: %w", err)
	}
	if meta.NumTracks < 0 || meta.Dimensions <= 0 {
		return matrixMeta{}, fmt.Errorf("catalog: invalid matrix shape %dx%d", meta.NumTracks, meta.Dimensions)
	}
	return meta, nil
}
