package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// bucketVersion is written into every bucket file so future format changes
// can upgrade old data on load
const bucketVersion = "1"

// bucket is one JSON file of records keyed by ID
type bucket[T any] struct {
	path string
	data map[string]T
}

type bucketFile struct {
	Version string
	Data    map[string]json.RawMessage
}

func openBucket[T any](dataDir, name string) (*bucket[T], error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, errors.Wrap(err, "Error creating data directory")
	}
	b := &bucket[T]{
		path: filepath.Join(filepath.Clean(dataDir), name+".json"),
		data: make(map[string]T),
	}

	raw, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading bucket %q", name)
	}
	var file bucketFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrapf(err, "Error parsing bucket %q", name)
	}
	if file.Version != bucketVersion {
		return nil, errors.Errorf("Unsupported bucket version for %q: %q", name, file.Version)
	}
	for id, record := range file.Data {
		var value T
		if err := json.Unmarshal(record, &value); err != nil {
			return nil, errors.Wrapf(err, "Error parsing record %q in bucket %q", id, name)
		}
		b.data[id] = value
	}
	return b, nil
}

func (b *bucket[T]) values() []T {
	values := make([]T, 0, len(b.data))
	for _, value := range b.data {
		values = append(values, value)
	}
	return values
}

// update stages mutate on a copy of the data, persists it with an atomic file
// swap, and only then makes the copy visible. Any failure leaves both the
// file and the in-memory state untouched.
func (b *bucket[T]) update(mutate func(data map[string]T)) error {
	staged := make(map[string]T, len(b.data))
	for id, value := range b.data {
		staged[id] = value
	}
	mutate(staged)
	if err := b.save(staged); err != nil {
		return err
	}
	b.data = staged
	return nil
}

func (b *bucket[T]) save(data map[string]T) error {
	records := make(map[string]json.RawMessage, len(data))
	for id, value := range data {
		raw, err := json.Marshal(value)
		if err != nil {
			return errors.Wrapf(err, "Error encoding record %q", id)
		}
		records[id] = raw
	}
	raw, err := json.MarshalIndent(bucketFile{Version: bucketVersion, Data: records}, "", "\t")
	if err != nil {
		return errors.Wrap(err, "Error encoding bucket")
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0640); err != nil {
		return errors.Wrap(err, "Error staging bucket file")
	}
	return errors.Wrap(os.Rename(tmp, b.path), "Error swapping bucket file")
}
