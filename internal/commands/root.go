package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/pixcrypt/pixcrypt/internal/bitmap"
	"github.com/pixcrypt/pixcrypt/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version, readConfigFile)

	root.Use = "pixcrypt [flags] command [flags]"
	root.Short = "Bitmap pixel encryption utility"
	root.Long = `Encrypts or decrypts the pixel data of uncompressed bitmaps with AES-128.
The header is kept as is, so the result is still a viewable image.

ECB transforms every 16-byte block independently. CBC chains the blocks of each
worker's partition from a zero IV, so CBC output must be decrypted with the same
number of workers it was encrypted with.`

	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.String("config", "", "Path to a config file (yaml, json or toml)")

	flags.StringP("key", "k", "", "Encryption key, zero-padded or truncated to 16 bytes")
	flags.StringP("key-file", "f", "", "Path to a file holding the encryption key")
	flags.StringP("mode", "m", "ecb", "Cipher mode: ecb or cbc")
	flags.IntP("workers", "w", 4, "Number of partitions per image; CBC requires the same value to decrypt")
	flags.IntP("threads", "t", runtime.NumCPU(), "Goroutines per worker in ECB mode")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of images processed in parallel")

	flags.Int("header-size", bitmap.DefaultHeaderSize, "Size of the image header copied verbatim")
	flags.Int64("max-size", 150<<20, "Largest accepted input file in bytes, 0 disables the limit")

	flags.String("encrypt-ext", ".enc", "Suffix inserted before the extension of encrypted files")
	flags.String("decrypt-ext", "", "Suffix inserted before the extension of decrypted files, after stripping the encrypted suffix")
	flags.StringSliceP("exclude", "e", nil, "Patterns (find -path style) of files to skip in directories")
	flags.StringP("output", "o", "", "Output path, only valid for a single input file")

	flags.String("store", "", "Directory of the result store; outputs are recorded when set")

	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print statistics after processing")
	flags.Bool("dry", false, "Print the partition plan without processing")
	flags.BoolP("verbose", "v", false, "Log per-worker diagnostics")
	flags.Bool("preserve-timestamps", false, "Copy the modification time of the input to the output")
	flags.BoolP("delete", "d", false, "Delete the input file after successful processing")

	root.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewBatchCommand(cfg),
		NewResultsCommand(cfg),
		NewGenerateCommand(cfg),
	)

	return root
}
