//go:build js && wasm

// These run under Node through the toolchain's go_js_wasm_exec:
//   GOOS=js GOARCH=wasm go test -exec="$(go env GOROOT)/lib/wasm/go_js_wasm_exec" ./cmd/pagesmith-wasm

package main

import (
	"errors"
	"syscall/js"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/pagesmith/internal/behavior"
)

func object(props map[string]any) js.Value {
	obj := js.Global().Get("Object").New()
	for k, v := range props {
		obj.Set(k, v)
	}
	return obj
}

// jsFunction builds a plain JavaScript function from source.
func jsFunction(args, body string) js.Value {
	return js.Global().Get("Function").New(args, body)
}

func TestElement(t *testing.T) {
	tests := []struct {
		name   string
		value  js.Value
		isNil  bool
		isForm bool
	}{
		{name: "null", value: js.Null(), isNil: true},
		{name: "undefined", value: js.Undefined(), isNil: true},
		{name: "text node", value: object(map[string]any{"nodeType": 3}), isNil: true},
		{name: "div", value: object(map[string]any{"nodeType": 1, "tagName": "DIV"})},
		{name: "form", value: object(map[string]any{"nodeType": 1, "tagName": "FORM"}), isForm: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := element(tt.value)
			if tt.isNil {
				assert.Nil(t, el)
				return
			}
			require.NotNil(t, el)
			_, isForm := el.(behavior.Form)
			assert.Equal(t, tt.isForm, isForm)
		})
	}
}

func TestTry(t *testing.T) {
	assert.True(t, try(func() {}))

	assert.False(t, try(func() {
		js.Global().Get("JSON").Call("parse", "{")
	}), "a thrown SyntaxError is reported as failure")

	assert.Panics(t, func() {
		try(func() { panic(errors.New("go panic")) })
	}, "non-JavaScript panics propagate")
}

func TestMatchesSwallowsSelectorErrors(t *testing.T) {
	el := &jsElement{v: object(map[string]any{
		"nodeType": 1,
		"tagName":  "A",
		"matches":  jsFunction("sel", "if (sel === 'a') return true; throw new SyntaxError('bad selector ' + sel);"),
	})}

	assert.True(t, el.Matches("a"))
	assert.False(t, el.Matches("a[["))
}

func TestTiming(t *testing.T) {
	win := &jsWindow{v: object(map[string]any{
		"performance": object(map[string]any{
			"timing": object(map[string]any{
				"navigationStart": 1000,
				"loadEventStart":  1450,
				"loadEventEnd":    1500,
			}),
		}),
	})}

	assert.Equal(t, behavior.NavigationTiming{
		NavigationStart: 1000,
		LoadEventStart:  1450,
		LoadEventEnd:    1500,
	}, win.Timing())

	bare := &jsWindow{v: object(nil)}
	assert.Equal(t, behavior.NavigationTiming{}, bare.Timing())

	noTiming := &jsWindow{v: object(map[string]any{"performance": object(nil)})}
	assert.Equal(t, behavior.NavigationTiming{}, noTiming.Timing())
}
