package sync

import (
	"fmt"
	"path/filepath"
	goSync "sync"

	"github.com/spf13/afero"

	"github.com/hollisdev/scriptsync/pkg/errors"
	"github.com/hollisdev/scriptsync/pkg/persist"
	"github.com/hollisdev/scriptsync/pkg/transform"
)

// Info records the outcome of syncing a single source file. One Info is
// produced per processed script, and handed to the caller's callback as soon
// as that script's writes have settled.
type Info struct {
	Source Source

	// Users are the users the script was actually deployed to.
	Users []string

	// MinifiedLength is the byte length of the deployed artifact. It's zero
	// when the transform failed.
	MinifiedLength int

	Error error
}

// A Syncer deploys script sources to the deployment root. Users and Scripts
// are optional filters: when empty, all known users and all scripts are
// eligible.
type Syncer struct {
	Transformer transform.Transformer
	SourceRoot  string
	DeployRoot  string
	Users       []string
	Scripts     []string
}

// Push synchronizes the full source tree (subject to the filters) to the
// deployment root. Each script is processed concurrently; onEach is invoked
// as each script settles, and the aggregate is returned once every scheduled
// write has completed. Results arrive in no particular order.
func (s Syncer) Push(onEach func(Info)) ([]Info, error) {
	globals, privates, skip, err := scanSources(s.SourceRoot)
	if err != nil {
		return nil, err
	}

	var jobs []func() Info
	for _, src := range privates {
		if !s.selected(src) {
			continue
		}
		src := src
		jobs = append(jobs, func() Info { return s.pushPrivate(src) })
	}

	if len(globals) > 0 {
		// The skip map from scanSources is complete at this point, and the
		// user set is resolved before any global deployment is scheduled.
		// A resolution failure only concerns the globals: it's recorded on
		// each global's Info, and the private jobs still run.
		users, usersErr := EffectiveUsers(s.DeployRoot, s.Users)
		if usersErr != nil {
			usersErr = errors.WithContext(usersErr, "resolve users")
		}

		for _, src := range globals {
			if !s.scriptSelected(src.Name) {
				continue
			}
			src := src
			if usersErr != nil {
				jobs = append(jobs, func() Info {
					return Info{Source: src, Error: usersErr}
				})
				continue
			}
			jobs = append(jobs, func() Info { return s.pushGlobal(src, users, skip) })
		}
	}

	results := make(chan Info, len(jobs))
	var wg goSync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		job := job
		go func() {
			defer wg.Done()
			results <- job()
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var infos []Info
	for info := range results {
		if onEach != nil {
			onEach(info)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// pushPrivate deploys a private script to its owning user.
func (s Syncer) pushPrivate(src Source) Info {
	info := Info{Source: src}

	minified, err := s.transformSource(src)
	if err != nil {
		info.Error = err
		return info
	}
	info.MinifiedLength = len(minified)

	path := DeployPath(s.DeployRoot, src.Owner, src.Name)
	if err := persist.Write(fs, path, []byte(minified)); err != nil {
		info.Error = errors.WithContext(err, "write")
		return info
	}

	info.Users = []string{src.Owner}
	return info
}

// pushGlobal deploys a global script to every given user that doesn't hold a
// private override for the same logical name. The script is transformed once
// and the identical output written per user.
func (s Syncer) pushGlobal(src Source, users []string, skip SkipMap) Info {
	info := Info{Source: src}

	minified, err := s.transformSource(src)
	if err != nil {
		info.Error = err
		return info
	}
	info.MinifiedLength = len(minified)

	for _, user := range users {
		if skip.Skips(src.Name, user) {
			continue
		}

		path := DeployPath(s.DeployRoot, user, src.Name)
		if err := persist.Write(fs, path, []byte(minified)); err != nil {
			// Keep deploying to the remaining users; the error surfaces
			// through the same channel as transform failures.
			if info.Error == nil {
				info.Error = errors.WithContext(err, fmt.Sprintf("write for %q", user))
			}
			continue
		}
		info.Users = append(info.Users, user)
	}
	return info
}

// transformSource reads and transforms a source file. Empty transformer
// output is an error: it would deploy an empty script over the user's code.
func (s Syncer) transformSource(src Source) (string, error) {
	source, err := afero.ReadFile(fs, src.Path)
	if err != nil {
		return "", errors.WithContext(err, "read source")
	}

	minified, err := s.Transformer.Transform(filepath.Base(src.Path), string(source))
	if err != nil {
		return "", err
	}
	if minified == "" {
		return "", errors.ErrEmptyOutput
	}
	return minified, nil
}

func (s Syncer) selected(src Source) bool {
	return matchesFilter(s.Users, src.Owner) && matchesFilter(s.Scripts, src.Name)
}

func (s Syncer) scriptSelected(name string) bool {
	return matchesFilter(s.Scripts, name)
}

// matchesFilter returns whether the item passes the filter. An empty filter
// passes everything.
func matchesFilter(filter []string, item string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, allowed := range filter {
		if allowed == item {
			return true
		}
	}
	return false
}
