//go:build flowheavy

package table

import (
	"slices"
	"testing"
	"time"

	"github.com/jask/adminconsole/internal/testdata"
)

func TestFilterSortWindowPerformance10kP95(t *testing.T) {
	rows := testdata.Users(10_000, 42)
	filter := FilterState{}.With(ColumnFirstName, "mi").With(ColumnEmail, "example")

	runs := 60
	durations := make([]time.Duration, 0, runs)
	for i := 0; i < runs; i++ {
		start := time.Now()
		_ = Window(filter.Apply(rows), Sort{Column: ColumnLastName, Direction: Descending}, 3, 25)
		durations = append(durations, time.Since(start))
	}

	slices.Sort(durations)
	p95 := durations[int(float64(len(durations)-1)*0.95)]
	if p95 > 100*time.Millisecond {
		t.Fatalf("filter+sort+window p95=%s exceeds 100ms target", p95)
	}
}

func BenchmarkFilterApply(b *testing.B) {
	rows := testdata.Users(10_000, 42)
	filter := FilterState{}.With(ColumnLastName, "straße")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = filter.Apply(rows)
	}
}
