package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// SweepGracePeriod is how long an unreferenced file is left alone. An upload
// stores its files before the catalog record exists, so a file younger than
// this may belong to an in-flight upload rather than be an orphan.
const SweepGracePeriod = time.Hour

// Sweep removes files under each kind's root that are not referenced by any
// catalog record and are older than SweepGracePeriod. This reclaims the
// orphans a crash between "delete record" and "delete file" can leave behind
// without racing a concurrent upload. Returns the number of files removed.
func (s *Store) Sweep(known map[Kind][]string) (int, error) {
	removed := 0
	cutoff := time.Now().Add(-SweepGracePeriod)
	for kind, root := range s.roots {
		live := make(map[string]bool, len(known[kind]))
		for _, ref := range known[kind] {
			live[ref] = true
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			return removed, fmt.Errorf("failed to read %s storage root: %w", kind, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || live[entry.Name()] {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			if err := os.Remove(filepath.Join(root, entry.Name())); err != nil {
				log.Printf("Sweep: failed to remove orphan %s asset %q: %v", kind, entry.Name(), err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}
