// SPDX-License-Identifier: MPL-2.0

package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/invowk/liftoff/pkg/fspath"
)

// externalDecoder runs a program with the file path as its only argument and
// decodes the JSON document it prints.
type externalDecoder struct {
	program string
}

// isPathLike reports whether a loader name refers to a program on disk
// rather than to a catalog entry.
func isPathLike(name string) bool {
	return strings.HasPrefix(name, ".") || filepath.IsAbs(name) || strings.ContainsAny(name, `/\`)
}

func newExternalModule(name string) Module {
	return func(contextDir string) (Decoder, error) {
		program, err := fspath.Resolve(contextDir, name)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(program)
		if err != nil {
			return nil, fmt.Errorf("loader program not found: %s: %w", program, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("loader program is a directory: %s", program)
		}
		return &externalDecoder{program: program}, nil
	}
}

// Decode implements Decoder.
func (d *externalDecoder) Decode(path string, _ []byte) (any, error) {
	cmd := exec.Command(d.program, path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("run loader %s: %w: %s", filepath.Base(d.program), err, msg)
		}
		return nil, fmt.Errorf("run loader %s: %w", filepath.Base(d.program), err)
	}

	var v any
	if err := json.Unmarshal(out, &v); err != nil {
		return nil, fmt.Errorf("loader %s printed invalid JSON: %w", filepath.Base(d.program), err)
	}
	return v, nil
}
