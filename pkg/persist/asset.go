package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// AssetKind groups importable files.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetModel AssetKind = "model"
)

var assetFilters = map[AssetKind][]string{
	AssetImage: {"png", "jpg", "jpeg"},
	AssetModel: {"gltf", "glb", "obj", "fbx"},
}

// DefaultMaxAssetSize caps imported payloads.
const DefaultMaxAssetSize = 256 << 20

// Asset is an imported file.
type Asset struct {
	FileName string
	Data     []byte
	Path     string
	Kind     AssetKind
	MIME     string
}

// AssetImporter produces one asset per call, or a CANCELED error.
type AssetImporter interface {
	Import(ctx context.Context) (Asset, error)
}

// AssetKindFor returns the kind accepted for a file name's extension.
func AssetKindFor(name string) (AssetKind, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for kind, exts := range assetFilters {
		if slices.Contains(exts, ext) {
			return kind, true
		}
	}
	return "", false
}

// FileImporter reads assets from the local file system. The picker chooses
// the file; its extension must pass the import filters and, for images, the
// content must be an image of the same format.
type FileImporter struct {
	Picker  Picker
	MaxSize int64
}

// Import implements AssetImporter.
func (im FileImporter) Import(ctx context.Context) (Asset, error) {
	path, err := im.Picker.OpenPath(ctx)
	if err != nil {
		return Asset{}, err
	}
	name := filepath.Base(path)
	if err := sferrors.ValidateAssetName(name); err != nil {
		return Asset{}, err
	}
	kind, ok := AssetKindFor(name)
	if !ok {
		return Asset{}, sferrors.New(sferrors.ErrCodeUnsupported, "unsupported asset type: %s", name)
	}

	limit := im.MaxSize
	if limit <= 0 {
		limit = DefaultMaxAssetSize
	}
	info, err := os.Stat(path)
	if err != nil {
		return Asset{}, sferrors.Wrap(sferrors.ErrCodeIO, err, "stat %s", path)
	}
	if info.Size() > limit {
		return Asset{}, sferrors.New(sferrors.ErrCodeInvalidInput, "%s is larger than %d bytes", name, limit)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Asset{}, sferrors.Wrap(sferrors.ErrCodeIO, err, "read %s", path)
	}

	mime, err := sniff(name, kind, data)
	if err != nil {
		return Asset{}, err
	}
	return Asset{FileName: name, Data: data, Path: path, Kind: kind, MIME: mime}, nil
}

// sniff checks the payload against the extension. Images must match their
// format; model formats are mostly text or unregistered, so they only fail
// when the content is recognizably something else.
func sniff(name string, kind AssetKind, data []byte) (string, error) {
	detected, err := filetype.Match(data)
	if err != nil {
		return "", sferrors.Wrap(sferrors.ErrCodeIO, err, "inspect %s", name)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")

	switch kind {
	case AssetImage:
		if detected == filetype.Unknown {
			return "", sferrors.New(sferrors.ErrCodeInvalidInput, "%s is not a recognizable image", name)
		}
		want := ext
		if want == "jpeg" {
			want = "jpg"
		}
		if detected.Extension != want {
			return "", sferrors.New(sferrors.ErrCodeInvalidInput, "%s contains %s data", name, detected.Extension)
		}
		return detected.MIME.Value, nil
	default:
		if detected != filetype.Unknown {
			return "", sferrors.New(sferrors.ErrCodeInvalidInput, "%s contains %s data", name, detected.Extension)
		}
		return modelMIME(ext), nil
	}
}

func modelMIME(ext string) string {
	switch ext {
	case "gltf":
		return "model/gltf+json"
	case "glb":
		return "model/gltf-binary"
	case "obj":
		return "model/obj"
	default:
		return fmt.Sprintf("application/x-%s", ext)
	}
}

var _ AssetImporter = FileImporter{}
