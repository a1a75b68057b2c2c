package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cshum/cvjsgen/internal/whitelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFormats(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"opencvjs.yaml", "opencvjs.json", "opencvjs.hcl"} {
		t.Run(name, func(t *testing.T) {
			wl, err := Load(ctx, filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, whitelist.OpenCVJS(), wl)
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join("testdata", "split", "README.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	ctx := context.Background()

	_, err := Load(ctx, filepath.Join("testdata", "invalid", "duplicate_class.hcl"))
	assert.ErrorIs(t, err, ErrDuplicateClass)

	_, err = Load(ctx, filepath.Join("testdata", "invalid", "duplicate_member.yaml"))
	assert.ErrorIs(t, err, whitelist.ErrDuplicateMember)

	wl, err := Load(ctx, filepath.Join("testdata", "invalid", "duplicate_module.json"))
	assert.Nil(t, wl)
	assert.ErrorIs(t, err, whitelist.ErrDuplicateModule)

	_, err = Load(ctx, filepath.Join("testdata", "invalid", "duplicate_class.json"))
	assert.ErrorIs(t, err, ErrDuplicateClass)
}

func TestDecodeJSONDuplicateKeys(t *testing.T) {
	_, err := Decode([]byte(`{"imgproc": {"": ["cvtColor"]}, "imgproc": {"": ["blur"]}}`), FormatJSON)
	assert.ErrorIs(t, err, whitelist.ErrDuplicateModule)

	_, err = Decode([]byte("imgproc:\n  \"\": [cvtColor]\nimgproc:\n  \"\": [blur]\n"), FormatYAML)
	assert.Error(t, err)

	groups, err := Decode([]byte(`{"imgproc": {"": ["cvtColor"]}, "objdetect": {"": ["groupRectangles"]}}`), FormatJSON)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestLoadFiles(t *testing.T) {
	wl, err := LoadFiles(context.Background(),
		filepath.Join("testdata", "split", "objdetect.hcl"),
		filepath.Join("testdata", "split", "imgproc.yml"),
	)
	require.NoError(t, err)
	assert.Equal(t, whitelist.OpenCVJS(), wl)
}

func TestLoadFilesDuplicateModule(t *testing.T) {
	_, err := LoadFiles(context.Background(),
		filepath.Join("testdata", "opencvjs.yaml"),
		filepath.Join("testdata", "invalid", "imgproc_again.json"),
	)
	assert.ErrorIs(t, err, whitelist.ErrDuplicateModule)
}

func TestLoadFilesPropagatesError(t *testing.T) {
	_, err := LoadFiles(context.Background(),
		filepath.Join("testdata", "split", "imgproc.yml"),
		filepath.Join("testdata", "invalid", "duplicate_class.hcl"),
	)
	assert.ErrorIs(t, err, ErrDuplicateClass)
}

func TestLoadFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFiles(ctx, filepath.Join("testdata", "opencvjs.yaml"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDir(t *testing.T) {
	wl, err := LoadDir(context.Background(), filepath.Join("testdata", "split"))
	require.NoError(t, err)
	assert.Equal(t, whitelist.OpenCVJS(), wl)
}

func TestLoadDirEmpty(t *testing.T) {
	wl, err := LoadDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, wl)
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, whitelist.OpenCVJS(), format))

			groups, err := Decode(buf.Bytes(), format)
			require.NoError(t, err)
			wl, err := whitelist.MakeWhiteList(groups...)
			require.NoError(t, err)
			assert.Equal(t, whitelist.OpenCVJS(), wl)
		})
	}
}

func TestEncodeToFileAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelist.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Encode(f, whitelist.OpenCVJS(), FormatYAML))
	require.NoError(t, f.Close())

	wl, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, whitelist.OpenCVJS().Equal(wl))
}

func TestEncodeUnsupported(t *testing.T) {
	err := Encode(&bytes.Buffer{}, whitelist.OpenCVJS(), FormatHCL)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.json": FormatJSON,
		"a.hcl":  FormatHCL,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := FormatFromPath("opencv_js.config.py")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
