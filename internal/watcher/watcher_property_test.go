//go:build property

package watcher

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDebouncerProperties checks batching invariants of the debouncer.
func TestDebouncerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a flush holds one event per distinct path", prop.ForAll(
		func(ids []int) bool {
			d := &Debouncer{
				delay:  time.Hour,
				events: make(chan ChangeEvent, 1),
				output: make(chan []ChangeEvent, 1),
			}

			distinct := make(map[string]struct{})
			for _, id := range ids {
				path := fmt.Sprintf("file-%d", id)
				distinct[path] = struct{}{}
				d.addEvent(ChangeEvent{Type: EventTypeModified, Path: path})
			}
			d.stop()
			d.flush()

			if len(ids) == 0 {
				return len(d.output) == 0
			}

			batch := <-d.output
			if len(batch) != len(distinct) {
				return false
			}
			for i := 1; i < len(batch); i++ {
				if batch[i-1].Path >= batch[i].Path {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 9)),
	))

	properties.TestingRun(t)
}
