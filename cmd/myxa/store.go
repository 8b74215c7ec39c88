package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/model"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	flock "github.com/theckman/go-flock"
)

const (
	defaultIndexPath   = "./myxa-index.json"
	defaultPackagePath = "./myxa-package.json"
	descriptorFile     = "myxa.toml"
)

// resolveIndexPath resolves which index file to use: an explicit
// --index flag wins, then $MYXA_INDEX, then the working directory's
// myxa-index.json with a logged warning.
func resolveIndexPath() string {
	if indexFlag != "" {
		return indexFlag
	}
	if env := os.Getenv("MYXA_INDEX"); env != "" {
		return env
	}
	log.Warnf("MYXA_INDEX not set and --index not passed, defaulting to %s", defaultIndexPath)
	return defaultIndexPath
}

// withIndex loads the index at the resolved path (a missing file reads
// as an empty index), holds an advisory lock on a sibling ".lock" file
// for the duration of fn so two concurrent myxa invocations against the
// same path don't interleave writes, and — if fn succeeds — writes the
// index back atomically via rename-over.
func withIndex(fn func(idx *index.Index) error) error {
	path := resolveIndexPath()

	lock := flock.NewFlock(path + ".lock")
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "locking index at %s", path)
	}
	defer lock.Unlock()

	idx := index.New()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, idx); err != nil {
			return errors.Wrapf(err, "parsing index at %s", path)
		}
	case os.IsNotExist(err):
		// fresh index
	default:
		return errors.Wrapf(err, "reading index at %s", path)
	}

	if err := fn(idx); err != nil {
		return err
	}

	return writeIndex(path, idx)
}

func writeIndex(path string, idx *index.Index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding index")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing temp index file %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "renaming temp index file into place at %s", path)
	}
	return nil
}

func loadPackage() (*model.Package, error) {
	data, err := os.ReadFile(packageFlag)
	if err != nil {
		return nil, errors.Wrapf(err, "reading working package at %s (run 'myxa init' first)", packageFlag)
	}
	pkg := &model.Package{}
	if err := json.Unmarshal(data, pkg); err != nil {
		return nil, errors.Wrapf(err, "parsing working package at %s", packageFlag)
	}
	return pkg, nil
}

func savePackage(pkg *model.Package) error {
	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding working package")
	}
	if err := os.WriteFile(packageFlag, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing working package to %s", packageFlag)
	}
	return saveDescriptor(pkg)
}

// descriptor is the small human-editable myxa.toml companion written
// alongside the JSON working package — a human-authored manifest
// distinct from the tool-owned lock state, holding just
// (name, description, version).
type descriptor struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Version     string `toml:"version"`
}

func saveDescriptor(pkg *model.Package) error {
	desc := descriptor{
		Name:        pkg.Info.Name,
		Description: pkg.Info.Description,
		Version:     pkg.Info.Version.String(),
	}
	data, err := toml.Marshal(desc)
	if err != nil {
		return errors.Wrap(err, "encoding myxa.toml")
	}
	path := filepath.Join(filepath.Dir(packageFlag), descriptorFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
