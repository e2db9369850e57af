package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/sceneforge/pkg/persist"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// AssetDir is the project subdirectory imported files are copied into.
const AssetDir = "assets"

// AssetInfo describes a file in the project's assets directory.
type AssetInfo struct {
	Name string            `json:"name"`
	Path string            `json:"path"`
	Kind persist.AssetKind `json:"kind,omitempty"`
	MIME string            `json:"mime,omitempty"`
	Size int64             `json:"size"`
}

// AssetStore lists and imports the current project's assets. Assets live
// next to the project, so only directory-backed projects support them.
type AssetStore struct {
	app      *App
	importer persist.AssetImporter
	assets   []AssetInfo
}

// Assets returns the known assets sorted by name.
func (s *AssetStore) Assets() []AssetInfo { return slices.Clone(s.assets) }

// Dir returns the assets directory of the current project.
func (s *AssetStore) Dir() (string, error) {
	p := s.app.Project
	if p.Project() == nil {
		return "", errNoProject()
	}
	loc, ok := p.Repository().(interface{ ProjectDir(string) (string, bool) })
	if !ok {
		return "", sferrors.New(sferrors.ErrCodeUnsupported, "project storage has no asset directory")
	}
	dir, ok := loc.ProjectDir(p.Path())
	if !ok {
		return "", sferrors.New(sferrors.ErrCodeUnsupported, "save the project before importing assets")
	}
	return filepath.Join(dir, AssetDir), nil
}

// ImportAsset asks the importer for a file and copies it into the assets
// directory, replacing a previous file of the same name. A dismissed picker
// returns a CANCELED error and changes nothing.
func (s *AssetStore) ImportAsset(ctx context.Context) (AssetInfo, error) {
	if s.importer == nil {
		return AssetInfo{}, sferrors.New(sferrors.ErrCodeUnsupported, "asset import is not available")
	}
	dir, err := s.Dir()
	if err != nil {
		return AssetInfo{}, err
	}
	asset, err := s.importer.Import(ctx)
	mutated("asset.import", "", err)
	if err != nil {
		if sferrors.IsCanceled(err) {
			s.app.logger.Debug("asset import canceled")
		}
		return AssetInfo{}, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return AssetInfo{}, sferrors.Wrap(sferrors.ErrCodeIO, err, "create %s", dir)
	}
	dst := filepath.Join(dir, asset.FileName)
	if err := os.WriteFile(dst, asset.Data, 0644); err != nil {
		return AssetInfo{}, sferrors.Wrap(sferrors.ErrCodeIO, err, "write %s", dst)
	}

	info := AssetInfo{
		Name: asset.FileName,
		Path: dst,
		Kind: asset.Kind,
		MIME: asset.MIME,
		Size: int64(len(asset.Data)),
	}
	s.app.logger.Debug("imported asset", "name", info.Name, "size", info.Size, "from", asset.Path)
	s.put(info)
	return info, nil
}

func (s *AssetStore) put(info AssetInfo) {
	i, found := slices.BinarySearchFunc(s.assets, info.Name, func(a AssetInfo, name string) int {
		return strings.Compare(a.Name, name)
	})
	if found {
		s.assets[i] = info
		return
	}
	s.assets = slices.Insert(s.assets, i, info)
}

// reload rescans the assets directory. Projects without one have no assets.
func (s *AssetStore) reload() {
	s.assets = nil
	dir, err := s.Dir()
	if err != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info := AssetInfo{Name: e.Name(), Path: filepath.Join(dir, e.Name())}
		if kind, ok := persist.AssetKindFor(e.Name()); ok {
			info.Kind = kind
		}
		if fi, err := e.Info(); err == nil {
			info.Size = fi.Size()
		}
		s.assets = append(s.assets, info)
	}
}
