// Runtime configuration.
//
// Settings come from the process environment, optionally backed by a .env
// file. Variables already present in the environment win over the file, and
// empty values fall back to the defaults. Relative paths are resolved
// against the project root: the directory holding the .env file, or the
// working directory when there is none.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	trdb "github.com/imenihs/TRDB-Searcher"
)

// Environment keys.
const (
	KeyDataPath     = "TR_DATA_PATH"
	KeyPDFBase      = "TR_PDF_BASE"
	KeyPDFFSBase    = "TR_PDF_FS_BASE"
	KeyModPath      = "TR_PDF_MOD_PATH"
	KeyUsersPath    = "TR_USERS_PATH"
	KeyDefaultStart = "TR_DEFAULT_START"
)

// Defaults for unset keys.
const (
	DefaultDataPath  = "tr-book/TRDB/TR.txt"
	DefaultPDFBase   = "/tr-book"
	DefaultPDFFSBase = "tr-book"
	DefaultModPath   = "tr-book/TRDB/TRmod.txt"
)

// EnvFile is the file name looked for when no explicit file is given.
const EnvFile = ".env"

// rootSearchDepth bounds the upward search for a .env file.
const rootSearchDepth = 6

// ErrInvalidValue is returned for a setting that cannot be parsed.
var ErrInvalidValue = errors.New("invalid configuration value")

// Config is the resolved runtime configuration.
type Config struct {
	Root         string // project root used for relative paths
	EnvFile      string // .env file that was read, empty if none
	DataPath     string // catalogue file
	PDFBase      string // URL prefix of the document store, reported to clients
	PDFFSBase    string // filesystem root of the document store
	ModPath      string // page offset override file
	UsersPath    string // users file, empty disables authentication
	DefaultStart int    // physical page of an issue's first article
}

// Load builds the configuration. envFile names a .env file to read; when
// empty, a .env file is searched for from the working directory upwards and
// its absence is not an error.
func Load(envFile string) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	if envFile == "" {
		envFile = findEnvFile(wd)
	} else if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(wd, envFile)
	}

	file := map[string]string{}
	root := wd
	if envFile != "" {
		file, err = godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("reading env file '%s': %w", envFile, err)
		}
		root = filepath.Dir(envFile)
	}

	lookup := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		if v := strings.TrimSpace(file[key]); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Root:      root,
		EnvFile:   envFile,
		DataPath:  resolve(root, lookup(KeyDataPath, DefaultDataPath)),
		PDFBase:   lookup(KeyPDFBase, DefaultPDFBase),
		PDFFSBase: resolve(root, lookup(KeyPDFFSBase, DefaultPDFFSBase)),
		ModPath:   resolve(root, lookup(KeyModPath, DefaultModPath)),
		UsersPath: resolve(root, lookup(KeyUsersPath, "")),
	}

	start := lookup(KeyDefaultStart, strconv.Itoa(trdb.DefaultStart))
	cfg.DefaultStart, err = strconv.Atoi(start)
	if err != nil || cfg.DefaultStart <= 0 {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidValue, KeyDefaultStart, start)
	}

	return cfg, nil
}

// findEnvFile walks up from dir looking for a .env file.
func findEnvFile(dir string) string {
	for range rootSearchDepth {
		candidate := filepath.Join(dir, EnvFile)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// resolve makes a relative path absolute against root. Empty stays empty.
func resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
