package pbx

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
)

// Entry is one file registered with the manifest, together with the
// identifier pair referenced across the four insertion sites.
type Entry struct {
	Name        string
	FileType    string
	ReferenceID string
	BuildID     string

	// AlreadyListed is set when the manifest already mentioned the file
	// before this run. The entry is still inserted; callers may warn.
	AlreadyListed bool
}

// newEntries assigns each file name a fresh (reference, build) identifier
// pair, unique within the run.
func newEntries(files []string) ([]Entry, error) {
	seen := make(map[string]struct{}, 2*len(files))

	entries := make([]Entry, 0, len(files))
	for _, name := range files {
		ref, err := newIdentifier(seen)
		if err != nil {
			return nil, err
		}
		build, err := newIdentifier(seen)
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{
			Name:        name,
			FileType:    fileTypeFor(name),
			ReferenceID: ref,
			BuildID:     build,
		})
	}

	return entries, nil
}

// newIdentifier returns a 24-character uppercase hex token in the format
// Xcode uses for object identifiers, distinct from every token in seen.
func newIdentifier(seen map[string]struct{}) (string, error) {
	for {
		u, err := uuid.NewV4()
		if err != nil {
			return "", fmt.Errorf("generating identifier: %w", err)
		}

		id := strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[:24])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		return id, nil
	}
}
