package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixcrypt/pixcrypt/internal/manifest"
)

const sample = `[
	// penguin, encrypted block by block
	{
		"source": "penguin.bmp",
		"destination": "penguin.enc.bmp",
		"operation": "encrypt",
		"mode": "ECB",
		"workers": 4,
	},
	/* decrypt with the partitioning used to encrypt */
	{
		"name": "landscape",
		"source": "landscape.enc.bmp",
		"destination": "landscape.bmp",
		"key": "other-key",
		"operation": "decrypt",
		"mode": "cbc",
	},
]`

func TestParse(t *testing.T) {
	t.Parallel()

	entries, err := manifest.Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, manifest.Entry{
		Name:        "penguin.bmp",
		Source:      "penguin.bmp",
		Destination: "penguin.enc.bmp",
		Operation:   "encrypt",
		Mode:        "ECB",
		Workers:     4,
	}, entries[0])

	assert.Equal(t, "landscape", entries[1].Name)
	assert.Equal(t, "other-key", entries[1].Key)
	assert.Zero(t, entries[1].Workers)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":          `[]`,
		"not json":       `{`,
		"bad operation":  `[{"source":"a","destination":"b","operation":"redact","mode":"ecb"}]`,
		"bad mode":       `[{"source":"a","destination":"b","operation":"encrypt","mode":"gcm"}]`,
		"no destination": `[{"source":"a","operation":"encrypt","mode":"ecb"}]`,
		"neg workers":    `[{"source":"a","destination":"b","operation":"encrypt","mode":"ecb","workers":-1}]`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := manifest.Parse([]byte(data))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jobs.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	entries, err := manifest.Load(path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = manifest.Load(filepath.Join(t.TempDir(), "missing.jsonc"))
	require.Error(t, err)
}

func TestParseAcceptsModeInAnyCase(t *testing.T) {
	t.Parallel()

	entries, err := manifest.Parse([]byte(`[{"source":"a","destination":"b","operation":"encrypt","mode":"Cbc"}]`))
	require.NoError(t, err)
	assert.Equal(t, "Cbc", entries[0].Mode)
}
