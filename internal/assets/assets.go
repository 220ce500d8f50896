// Package assets embeds the browser runtime that attaches the page
// behaviors: the Go wasm support script and the compiled behavior host.
//
// Both files are produced by go generate; wasm_exec.js must come from the
// same toolchain that compiled behavior.wasm.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:generate sh -c "cp \"$(go env GOROOT)/lib/wasm/wasm_exec.js\" js/ 2>/dev/null || cp \"$(go env GOROOT)/misc/wasm/wasm_exec.js\" js/"
//go:generate env GOOS=js GOARCH=wasm go build -trimpath -ldflags=-s -o js/behavior.wasm ../../cmd/pagesmith-wasm

//go:embed js
var files embed.FS

// Dir is the directory, relative to the built page, the runtime is written to.
const Dir = "js"

// Runtime file names referenced by the page template.
const (
	WasmExec     = "wasm_exec.js"
	BehaviorWasm = "behavior.wasm"
)

// File is one embedded runtime file.
type File struct {
	Name string
	Data []byte
}

// Files returns the embedded runtime files sorted by name.
func Files() ([]File, error) {
	entries, err := fs.ReadDir(files, Dir)
	if err != nil {
		return nil, err
	}

	out := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := files.ReadFile(path.Join(Dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, File{Name: e.Name(), Data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Has reports whether name is embedded.
func Has(name string) bool {
	_, err := fs.Stat(files, path.Join(Dir, name))
	return err == nil
}
