// Package macros merges the per-user macro files at the deployment root and
// redistributes the merged set to every known user, so that a macro defined
// by one user becomes available to all of them.
package macros

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/hollisdev/scriptsync/pkg/errors"
	"github.com/hollisdev/scriptsync/pkg/persist"
	"github.com/hollisdev/scriptsync/pkg/sync"
)

// Mocked out for unit testing.
var (
	fs             = afero.NewOsFs()
	lockDeployRoot = lockDeployRootImpl
)

// lockFileName guards the deployment root against concurrent merges. Two
// merges interleaving their per-user writes would leave users with different
// macro sets.
const lockFileName = ".macros.lock"

// A Record is a single macro definition: a name line followed by a body
// line. Its timestamp is the modification time of the file it was read
// from, not per-record.
type Record struct {
	Name    string
	Body    string
	ModTime time.Time
}

// Result summarizes a merge.
type Result struct {
	// Merged is the number of records in the merged output after the
	// naming filter.
	Merged int

	// Users is the number of users the merged output was written to.
	Users int
}

// Sync merges every macro file at the deployment root with
// latest-timestamp-wins semantics and writes the identical merged text to
// every known user's macro file. Records whose name starts with an
// uppercase rune are reserved and excluded from redistribution.
func Sync(deployRoot string) (Result, error) {
	unlock, err := lockDeployRoot(deployRoot)
	if err != nil {
		return Result{}, errors.WithContext(err, "lock deploy root")
	}
	defer unlock()

	entries, err := afero.ReadDir(fs, deployRoot)
	if err != nil {
		return Result{}, errors.WithContext(err, "read deploy root")
	}

	// best holds the winning record per name. The comparison is a strict
	// "greater than", so equal timestamps keep the earlier-scanned record.
	// ReadDir returns entries sorted by name, which makes ties
	// deterministic across platforms.
	best := map[string]Record{}
	var users []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		switch filepath.Ext(entry.Name()) {
		case sync.KeyExtension:
			users = append(users, strings.TrimSuffix(entry.Name(), sync.KeyExtension))
		case sync.MacroExtension:
			path := filepath.Join(deployRoot, entry.Name())
			records, err := readMacroFile(path, entry.ModTime())
			if err != nil {
				log.WithError(err).WithField("path", path).Warn(
					"Failed to read macro file. Skipping its records.")
				continue
			}

			for _, record := range records {
				if existing, ok := best[record.Name]; ok &&
					!record.ModTime.After(existing.ModTime) {
					continue
				}
				best[record.Name] = record
			}
		}
	}

	merged, mergedCount := mergedText(best)

	for _, user := range users {
		path := filepath.Join(deployRoot, user+sync.MacroExtension)
		if err := persist.Write(fs, path, []byte(merged)); err != nil {
			return Result{}, errors.WithContext(err, fmt.Sprintf("write macros for %q", user))
		}
	}

	return Result{Merged: mergedCount, Users: len(users)}, nil
}

// readMacroFile parses a macro file into records. The format is a flat
// sequence of lines in (name, body) pairs. A trailing unpaired line is
// dropped.
func readMacroFile(path string, modTime time.Time) ([]Record, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(contents), "\n")
	var records []Record
	for i := 0; i+1 < len(lines); i += 2 {
		records = append(records, Record{
			Name:    lines[i],
			Body:    lines[i+1],
			ModTime: modTime,
		})
	}
	return records, nil
}

// mergedText renders the winning records as repeated "name\nbody\n" blocks,
// ordered by name, keeping only names whose first rune is lowercase.
// Uppercase-leading names are reserved by the host and never redistributed.
func mergedText(best map[string]Record) (string, int) {
	var names []string
	for name := range best {
		if !startsLower(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	for _, name := range names {
		builder.WriteString(name)
		builder.WriteByte('\n')
		builder.WriteString(best[name].Body)
		builder.WriteByte('\n')
	}
	return builder.String(), len(names)
}

func startsLower(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLower(r)
}

func lockDeployRootImpl(deployRoot string) (func(), error) {
	lock := flock.New(filepath.Join(deployRoot, lockFileName))
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			log.WithError(err).Warn("Failed to release macro merge lock")
		}
	}, nil
}
