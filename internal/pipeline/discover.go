package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/fixbatch/internal/naming"
)

// Recording is one data file of a participant.
type Recording struct {
	ID   string // file name without extension, unique within its group
	Path string
}

// Group is one participant directory and its recordings in listing order.
type Group struct {
	ID         string // directory base name
	Dir        string
	Recordings []Recording
}

// Source is the set of groups found under a data root. It is built once,
// before any recording is processed, and never changes afterwards.
type Source struct {
	root   string
	groups []Group
}

// Root returns the scanned data directory.
func (s *Source) Root() string { return s.root }

// Len returns the number of groups, including empty ones.
func (s *Source) Len() int { return len(s.groups) }

// Recordings returns the total number of recordings across all groups.
func (s *Source) Recordings() int {
	n := 0
	for _, g := range s.groups {
		n += len(g.Recordings)
	}
	return n
}

// Groups yields the groups in traversal order.
func (s *Source) Groups() iter.Seq[Group] {
	return func(yield func(Group) bool) {
		for _, g := range s.groups {
			if !yield(g) {
				return
			}
		}
	}
}

// Discover scans root top-down. Every directory below root becomes a group,
// nested ones included, in the order the filesystem lists them (no sorting).
// A group's recordings are its non-hidden regular files, optionally limited
// to exts (lowercase, with leading dot). Files directly in root are not
// recordings. Hidden directories are not descended into and symlinked
// directories are not followed.
func Discover(root string, exts []string) (*Source, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, &ConfigError{Path: root, Err: fmt.Errorf("data directory: %w", err)}
	}
	if !fi.IsDir() {
		return nil, &ConfigError{Path: root, Err: errors.New("data path is not a directory")}
	}

	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[e] = true
	}

	s := &Source{root: root}
	_, subdirs, err := listDir(root, allowed)
	if err != nil {
		return nil, &ConfigError{Path: root, Err: err}
	}
	for _, d := range subdirs {
		if err := s.walk(d, allowed); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// walk appends dir as a group, then descends into its subdirectories.
func (s *Source) walk(dir string, allowed map[string]bool) error {
	files, subdirs, err := listDir(dir, allowed)
	if err != nil {
		return &ConfigError{Path: dir, Err: err}
	}

	resolver := naming.NewCollisionResolver()
	g := Group{ID: naming.GroupID(dir), Dir: dir}
	for _, f := range files {
		g.Recordings = append(g.Recordings, Recording{
			ID:   resolver.Resolve(f, naming.RecordingID(f)),
			Path: f,
		})
	}
	s.groups = append(s.groups, g)

	for _, d := range subdirs {
		if err := s.walk(d, allowed); err != nil {
			return err
		}
	}
	return nil
}

// listDir splits dir's entries into recording files and subdirectories,
// both in listing order.
func listDir(dir string, allowed map[string]bool) (files, subdirs []string, err error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, nil, err
	}
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		return nil, nil, err
	}

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			// Follow links to files; linked directories are not walked.
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			mode = 0
		}
		switch {
		case mode.IsDir():
			subdirs = append(subdirs, path)
		case mode.IsRegular():
			if len(allowed) > 0 && !allowed[strings.ToLower(filepath.Ext(name))] {
				continue
			}
			files = append(files, path)
		}
	}
	return files, subdirs, nil
}
