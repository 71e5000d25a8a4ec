package loader

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/overlay-lang/overlay/internal/ir"
)

// DirDefs converts a directory of mixin files into a scope definition.
// Each mixin file contributes its stem as a child name, and each
// non-hidden subdirectory contributes its name. When a stem and a
// subdirectory collide the child gets both origins, file first. When
// two files share a stem the first in lexical order wins.
func DirDefs(dir string) (*ir.ScopeDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newLoadError(ErrCodeNotFound, dir, "directory not found")
		}
		return nil, newLoadError(ErrCodeParse, dir, "reading directory: %v", err)
	}

	files := make(map[string]string)
	var fileStems []string
	subdirs := make(map[string]string)
	var subdirNames []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if strings.HasPrefix(name, ".") {
				continue
			}
			subdirs[name] = filepath.Join(dir, name)
			subdirNames = append(subdirNames, name)
			continue
		}
		stem, _, ok := splitMixinExt(name)
		if !ok {
			continue
		}
		if _, dup := files[stem]; dup {
			slog.Debug("duplicate mixin stem ignored", "dir", dir, "file", name)
			continue
		}
		files[stem] = filepath.Join(dir, name)
		fileStems = append(fileStems, stem)
	}

	sd := &ir.ScopeDef{
		IsPublic: true,
		Children: make(map[string][]ir.Definition),
	}
	addChild := func(name string, defs []ir.Definition) {
		if _, ok := sd.Children[name]; !ok {
			sd.Keys = append(sd.Keys, name)
		}
		sd.Children[name] = append(sd.Children[name], defs...)
	}

	for _, stem := range fileStems {
		defs, err := FileDefs(files[stem], stem)
		if err != nil {
			return nil, err
		}
		addChild(stem, defs)
	}
	for _, name := range subdirNames {
		sub, err := DirDefs(subdirs[name])
		if err != nil {
			return nil, err
		}
		addChild(name, []ir.Definition{sub})
	}
	return sd, nil
}

// Load parses a directory tree into the root scope's definitions.
// Alongside the mixin files, a directory containing CUE sources gets
// the exported CUE value merged in as additional origins.
func Load(dir string) ([]ir.Definition, error) {
	sd, err := DirDefs(dir)
	if err != nil {
		return nil, err
	}
	defs := []ir.Definition{sd}

	hasCUE, err := containsCUE(dir)
	if err != nil {
		return nil, err
	}
	if hasCUE {
		cueDef, err := cueDefs(dir)
		if err != nil {
			return nil, err
		}
		defs = append(defs, cueDef)
	}
	slog.Debug("loaded mixin directory", "dir", dir, "children", len(sd.Keys), "cue", hasCUE)
	return defs, nil
}

func containsCUE(dir string) (bool, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return false, newLoadError(ErrCodeParse, dir, "scanning for CUE files: %v", err)
	}
	return len(matches) > 0, nil
}
