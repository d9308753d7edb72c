package frontend

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrAssetMissing is returned when the entry file does not exist, usually because the front-end was never built.
var ErrAssetMissing = errors.New("asset missing")

// MissingAssetMessage is the body served with a 501 when the named entry file does not exist
func MissingAssetMessage(name string) string {
	return name + " not found. Did you run 'npm run build'?"
}

// Asset is a single read-only file produced by the front-end build
type Asset struct {
	path string
}

func NewAsset(path string) Asset {
	return Asset{path: path}
}

func (a Asset) Path() string {
	return a.path
}

// Read returns the full contents of the asset.
// A missing file is reported as ErrAssetMissing, any other failure is returned wrapped as-is.
func (a Asset) Read() ([]byte, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, wrapAssetError(err)
	}
	return data, nil
}

// Stat reports the current state of the asset without reading it
func (a Asset) Stat() (fs.FileInfo, error) {
	info, err := os.Stat(a.path)
	if err != nil {
		return nil, wrapAssetError(err)
	}
	return info, nil
}

func wrapAssetError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrAssetMissing, err)
	}
	return err
}
