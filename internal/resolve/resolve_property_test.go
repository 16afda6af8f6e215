package resolve

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"dropsort/internal/classify"
)

// genCollectorFilename generates well-formed collector filenames.
func genCollectorFilename() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("twitter", "reddit", "instagram", "youtube"),
		gen.Int64Range(0, 1e15),
		gen.IntRange(0, 9999),
		gen.OneConstOf(".jpg", ".txt"),
	).Map(func(vals []interface{}) string {
		return fmt.Sprintf("%s_%d_%04d%s",
			vals[0].(string), vals[1].(int64), vals[2].(int), vals[3].(string))
	})
}

func TestResolveProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("resolution without collision returns the original filename", prop.ForAll(
		func(filename string) bool {
			r := New("/data")
			desc := &classify.Descriptor{Label: strings.Split(filename, "_")[0], Kind: classify.KindImage}

			plan := r.Resolve(desc, filename, func(string) bool { return false })
			return plan.Filename == filename && !plan.Collided
		},
		genCollectorFilename(),
	))

	properties.Property("resolution with collision returns a distinct marked path", prop.ForAll(
		func(filename string, unix int64) bool {
			r := NewWithClock("/data", func() time.Time { return time.Unix(unix, 0) })
			desc := &classify.Descriptor{Label: strings.Split(filename, "_")[0], Kind: classify.KindImage}

			plan := r.Resolve(desc, filename, func(string) bool { return true })
			if !plan.Collided {
				return false
			}
			if plan.Filename == filename {
				return false
			}
			marker := fmt.Sprintf("_dup_%d", unix)
			return strings.Contains(plan.Filename, marker)
		},
		genCollectorFilename(),
		gen.Int64Range(0, 1e10),
	))

	properties.TestingRun(t)
}
