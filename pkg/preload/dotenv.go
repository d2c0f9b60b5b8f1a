// SPDX-License-Identifier: MPL-2.0

package preload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
)

// ModuleDotenv loads a dotenv file into the process environment. The
// argument is the file, relative to the base directory, and defaults to
// ".env". A trailing "?" makes a missing file acceptable. Variables already
// set in the environment are left alone.
const ModuleDotenv = "dotenv"

func init() {
	Register(ModuleDotenv, loadDotenv)
}

func loadDotenv(baseDir, arg string) (any, error) {
	path := arg
	if path == "" {
		path = ".env"
	}
	optional := strings.HasSuffix(path, "?")
	path = strings.TrimSuffix(path, "?")

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, filepath.FromSlash(path))
	}

	f, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return gotenv.Env{}, nil
		}
		return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file '%s': %w", path, err)
	}

	for k, v := range env {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", k, err)
		}
	}
	return env, nil
}
