package commands_test

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/pixcrypt/pixcrypt/internal/commands"
	"github.com/pixcrypt/pixcrypt/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := commands.NewRootCommand(&config.Config{}, "test")
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()

	return out.String(), err
}

func writeBitmap(t *testing.T, dir string, size int) (string, []byte) {
	t.Helper()

	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)

	path := filepath.Join(dir, "image.bmp")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path, data
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, mode := range []string{"ecb", "cbc"} {
		t.Run(mode, func(t *testing.T) {
			dir := t.TempDir()
			input, original := writeBitmap(t, dir, 54+1000)

			_, err := execute(t, "encrypt", "-q", "-k", "secret", "-m", mode, "-w", "3", input)
			require.NoError(t, err)

			encrypted, err := os.ReadFile(filepath.Join(dir, "image.enc.bmp"))
			require.NoError(t, err)
			require.Len(t, encrypted, len(original))
			assert.Equal(t, original[:54], encrypted[:54], "header is carried verbatim")
			assert.NotEqual(t, original[54:], encrypted[54:])

			restored := filepath.Join(dir, "restored.bmp")

			_, err = execute(t, "decrypt", "-q", "-k", "secret", "-m", mode, "-w", "3", "-o", restored,
				filepath.Join(dir, "image.enc.bmp"))
			require.NoError(t, err)

			got, err := os.ReadFile(restored)
			require.NoError(t, err)
			assert.Equal(t, original, got)
		})
	}
}

func TestEncryptWithKeyFileFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	input, original := writeBitmap(t, dir, 54+64)

	keyFile := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(keyFile, []byte("secret\n"), 0o600))

	t.Setenv("PIXCRYPT_KEY_FILE", keyFile)

	_, err := execute(t, "encrypt", "-q", input)
	require.NoError(t, err)

	_, err = execute(t, "decrypt", "-q", filepath.Join(dir, "image.enc.bmp"))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "image.bmp"))
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestValidation(t *testing.T) {
	dir := t.TempDir()
	input, _ := writeBitmap(t, dir, 100)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing key", args: []string{"encrypt", input}},
		{name: "both keys", args: []string{"encrypt", "-k", "a", "-f", "b", input}},
		{name: "unknown mode", args: []string{"encrypt", "-k", "a", "-m", "ctr", input}},
		{name: "zero workers", args: []string{"encrypt", "-k", "a", "-w", "0", input}},
		{name: "output with many files", args: []string{"encrypt", "-k", "a", "-o", "x", input, input}},
		{name: "no files", args: []string{"encrypt", "-k", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestBatchAndResults(t *testing.T) {
	dir := t.TempDir()
	input, _ := writeBitmap(t, dir, 54+160)
	storeDir := filepath.Join(dir, "store")

	manifest := filepath.Join(dir, "jobs.jsonc")
	require.NoError(t, os.WriteFile(manifest, []byte(`[
		// one job
		{"name": "first", "source": "`+filepath.ToSlash(input)+`", "destination": "`+
		filepath.ToSlash(filepath.Join(dir, "out.bmp"))+`", "operation": "encrypt", "mode": "CBC"},
	]`), 0o600))

	_, err := execute(t, "batch", "-q", "-k", "secret", "--store", storeDir, manifest)
	require.NoError(t, err)

	out, err := execute(t, "results", "last", "--store", storeDir)
	require.NoError(t, err)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "CBC")

	exported := filepath.Join(dir, "exported.bmp")

	_, err = execute(t, "results", "export", "0000000000000001", exported, "--store", storeDir)
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join(dir, "out.bmp"))
	require.NoError(t, err)

	got, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGenerate(t *testing.T) {
	first, err := execute(t, "generate")
	require.NoError(t, err)

	second, err := execute(t, "generate")
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9a-f]{16}\n$`, first)
	assert.NotEqual(t, first, second)
}

func TestShowExitsBeforeProcessing(t *testing.T) {
	dir := t.TempDir()
	input, _ := writeBitmap(t, dir, 54+16)

	_, err := execute(t, "encrypt", "--show", "-k", "secret", input)
	require.ErrorIs(t, err, cobraext.ErrExitGracefully)

	assert.NoFileExists(t, filepath.Join(dir, "image.enc.bmp"))
}

func TestValidationMessages(t *testing.T) {
	dir := t.TempDir()
	input, _ := writeBitmap(t, dir, 100)

	_, err := execute(t, "encrypt", "-k", "a", "-m", "ctr", input)
	require.ErrorIs(t, err, config.ErrUsage)
	assert.Contains(t, err.Error(), "--mode must be ECB or CBC")
	assert.NotContains(t, err.Error(), "failed on the")
}

func TestModeInAnyCase(t *testing.T) {
	dir := t.TempDir()
	input, original := writeBitmap(t, dir, 54+160)

	_, err := execute(t, "encrypt", "-q", "-k", "secret", "-m", "Cbc", "--delete", input)
	require.NoError(t, err)
	assert.NoFileExists(t, input)

	_, err = execute(t, "decrypt", "-q", "-k", "secret", "-m", "cBC", filepath.Join(dir, "image.enc.bmp"))
	require.NoError(t, err)

	got, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}
