package assets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	list, err := Files()
	require.NoError(t, err)
	require.NotEmpty(t, list)

	var names []string
	for _, f := range list {
		names = append(names, f.Name)
		assert.NotEmpty(t, f.Data, f.Name)
	}
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, WasmExec)
	assert.True(t, Has(WasmExec))
	assert.False(t, Has("missing.js"))
}

func TestWasmExecDefinesGo(t *testing.T) {
	list, err := Files()
	require.NoError(t, err)
	for _, f := range list {
		if f.Name == WasmExec {
			assert.True(t, bytes.Contains(f.Data, []byte("globalThis.Go")))
			return
		}
	}
	t.Fatal("wasm_exec.js not embedded")
}

func TestBehaviorWasmIsWebAssembly(t *testing.T) {
	if !Has(BehaviorWasm) {
		t.Skip("behavior.wasm not generated; run go generate ./internal/assets")
	}
	data, err := files.ReadFile(Dir + "/" + BehaviorWasm)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x00asm")))
}
