//go:build js && wasm

// Command pagesmith-wasm runs the landing page behaviors in the browser.
// Build it with GOOS=js GOARCH=wasm and serve it as js/behavior.wasm next to
// the Go runtime's wasm_exec.js.
package main

import (
	"context"
	"os"

	"syscall/js"

	"github.com/conneroisu/pagesmith/internal/behavior"
	"github.com/conneroisu/pagesmith/internal/logging"
)

func main() {
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LevelWarn,
		Output:    os.Stderr,
		Component: "behavior",
	})

	window := js.Global()
	doc := &jsDocument{v: window.Get("document")}
	win := &jsWindow{v: window, doc: doc.v}

	attach := func() {
		report := behavior.Attach(doc, win, analytics(),
			behavior.WithErrorHandler(func(name string, err error) {
				logger.Error(context.Background(), err, "Page behavior failed", "behavior", name)
			}))
		logger.Debug(context.Background(), "Behaviors attached",
			"attached", report.Attached, "skipped", report.Skipped)
	}

	// The module loads asynchronously and may start after DOMContentLoaded.
	if doc.v.Get("readyState").String() == "loading" {
		var ready js.Func
		ready = js.FuncOf(func(js.Value, []js.Value) any {
			attach()
			ready.Release()
			return nil
		})
		doc.v.Call("addEventListener", "DOMContentLoaded", ready)
	} else {
		attach()
	}

	select {}
}

// analytics resolves the page's tracking functions on every call so that
// scripts loaded after the module are still picked up.
func analytics() behavior.Analytics {
	return behavior.Analytics{
		Gtag: behavior.GtagFunc(func(name string, params map[string]any) {
			if gtag := js.Global().Get("gtag"); gtag.Type() == js.TypeFunction {
				gtag.Invoke("event", name, params)
			}
		}),
		Pixel: behavior.PixelFunc(func(event string) {
			if fbq := js.Global().Get("fbq"); fbq.Type() == js.TypeFunction {
				fbq.Invoke("track", event)
			}
		}),
	}
}
