/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package aggregate_test

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/s1879281/systemic-investing-evaluation/evaluation/aggregate"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/table"
)

func row(criterion string, score float64, justification, indicators string) table.Row {
	return table.Row{Criterion: criterion, Score: score, Justification: justification, Indicators: indicators}
}

func TestAggregateTwoChunks(t *testing.T) {
	t.Parallel()
	res := aggregate.Aggregate([]aggregate.ChunkRows{
		{Index: 0, Rows: []table.Row{row("Systems Thinking", 6.0, "A", "X")}},
		{Index: 1, Rows: []table.Row{row("Systems Thinking", 8.5, "B", "Y")}},
	})

	rec, ok := res.Get("Systems Thinking")
	require.True(t, ok)
	require.Equal(t, 8.5, rec.MaxScore)
	require.Equal(t, "A B", rec.JoinedJustification)
	require.Equal(t, "X Y", rec.JoinedIndicators)
	require.Equal(t, []int{0, 1}, rec.Chunks)
}

func TestAggregateAbsentCriteria(t *testing.T) {
	t.Parallel()
	res := aggregate.Aggregate([]aggregate.ChunkRows{
		{Index: 0, Rows: []table.Row{row("A", 1, "j", "i")}},
		{Index: 1},
	})
	require.Equal(t, 1, res.Len())
	_, ok := res.Get("B")
	require.False(t, ok)

	empty := aggregate.Aggregate(nil)
	require.Equal(t, 0, empty.Len())
	require.Empty(t, empty.Records)
}

func TestAggregateChunkThenRowOrder(t *testing.T) {
	t.Parallel()
	chunks := []aggregate.ChunkRows{
		{Index: 2, Rows: []table.Row{row("C", 1, "c2", "")}},
		{Index: 0, Rows: []table.Row{row("C", 3, "c0a", "i0"), row("D", 2, "d0", "x"), row("C", 3, "c0b", "i0")}},
		{Index: 1, Rows: []table.Row{row("D", 9, "d1", "y")}},
	}
	res := aggregate.Aggregate(chunks)

	want := map[string]*aggregate.Record{
		"C": {Criterion: "C", MaxScore: 3, JoinedJustification: "c0a c0b c2", JoinedIndicators: "i0 i0 ", Chunks: []int{0, 2}},
		"D": {Criterion: "D", MaxScore: 9, JoinedJustification: "d0 d1", JoinedIndicators: "x y", Chunks: []int{0, 1}},
	}
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"C", "D"}, res.Order)
}

func TestAggregateJoinFollowsChunkIndex(t *testing.T) {
	t.Parallel()
	a := table.Row{Criterion: "H", Score: 5, Justification: "A", Indicators: "a"}
	b := table.Row{Criterion: "H", Score: 7, Justification: "B", Indicators: "b"}

	forward := aggregate.Aggregate([]aggregate.ChunkRows{{Index: 0, Rows: []table.Row{a}}, {Index: 1, Rows: []table.Row{b}}})
	reversed := aggregate.Aggregate([]aggregate.ChunkRows{{Index: 1, Rows: []table.Row{a}}, {Index: 0, Rows: []table.Row{b}}})

	fwd, _ := forward.Get("H")
	rev, _ := reversed.Get("H")
	require.Equal(t, "A B", fwd.JoinedJustification)
	require.Equal(t, "B A", rev.JoinedJustification)
	require.Equal(t, "b a", rev.JoinedIndicators)
	require.Equal(t, fwd.MaxScore, rev.MaxScore)
}

func TestAggregateMaxIsOrderIndependent(t *testing.T) {
	t.Parallel()
	scores := []float64{3.5, 9.1, 0, 7.25, 9.0, 4}
	var chunks []aggregate.ChunkRows
	for i, s := range scores {
		chunks = append(chunks, aggregate.ChunkRows{Index: i, Rows: []table.Row{row("H", s, "j", "i")}})
	}
	base := aggregate.Aggregate(chunks)

	r := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		shuffled := append([]aggregate.ChunkRows(nil), chunks...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := aggregate.Aggregate(shuffled)
		if diff := cmp.Diff(base.Records, got.Records); diff != "" {
			t.Fatalf("Aggregate() depends on completion order (-want +got):\n%s", diff)
		}
	}
	rec, _ := base.Get("H")
	require.Equal(t, 9.1, rec.MaxScore)
}

func TestAggregatorConcurrentAdds(t *testing.T) {
	t.Parallel()
	var agg aggregate.Aggregator
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Add(i, []table.Row{row("H", float64(i), string(rune('a'+i)), "")})
		}()
	}
	wg.Wait()

	rec, ok := agg.Result().Get("H")
	require.True(t, ok)
	require.Equal(t, 15.0, rec.MaxScore)
	require.Equal(t, "a b c d e f g h i j k l m n o p", rec.JoinedJustification)
	require.Len(t, rec.Chunks, 16)
}
