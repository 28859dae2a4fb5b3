package avlmap

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/commands"
	"github.com/stretchr/testify/require"
)

func benchmarkStdMapInsert(factor int, b *testing.B) {
	m := map[int]int{}
	for n := 0; n < factor*b.N; n++ {
		m[n] = n
	}
}

func BenchmarkStdMapInsert1(b *testing.B)    { benchmarkStdMapInsert(1, b) }
func BenchmarkStdMapInsert1k(b *testing.B)   { benchmarkStdMapInsert(1_000, b) }
func BenchmarkStdMapInsert100k(b *testing.B) { benchmarkStdMapInsert(100_000, b) }

func benchmarkStdMapGet(factor int, b *testing.B) {
	m := map[int]int{}
	b.StopTimer()
	for n := 0; n < factor*b.N; n++ {
		m[n] = n
	}
	b.StartTimer()
	for n := 0; n < factor*b.N; n++ {
		_ = m[n]
	}
}

func BenchmarkStdMapGet1(b *testing.B)    { benchmarkStdMapGet(1, b) }
func BenchmarkStdMapGet1k(b *testing.B)   { benchmarkStdMapGet(1_000, b) }
func BenchmarkStdMapGet100k(b *testing.B) { benchmarkStdMapGet(100_000, b) }

func benchmarkInsert(factor int, b *testing.B) {
	m := newTestMap()
	for n := 0; n < factor*b.N; n++ {
		m.Insert(n, n)
	}
}

func BenchmarkInsert1(b *testing.B)    { benchmarkInsert(1, b) }
func BenchmarkInsert1k(b *testing.B)   { benchmarkInsert(1_000, b) }
func BenchmarkInsert100k(b *testing.B) { benchmarkInsert(100_000, b) }

func benchmarkFind(factor int, b *testing.B) {
	m := newTestMap()
	b.StopTimer()
	for n := 0; n < factor*b.N; n++ {
		m.Insert(n, n)
	}
	b.StartTimer()
	for n := 0; n < factor*b.N; n++ {
		m.Find(n)
	}
}

func BenchmarkFind1(b *testing.B)    { benchmarkFind(1, b) }
func BenchmarkFind1k(b *testing.B)   { benchmarkFind(1_000, b) }
func BenchmarkFind100k(b *testing.B) { benchmarkFind(100_000, b) }

func benchmarkBalance(size int, b *testing.B) {
	m := newTestMap()
	for n := 0; n < size; n++ {
		m.Insert(n, n)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Balance()
	}
}

func BenchmarkBalance1k(b *testing.B)   { benchmarkBalance(1_000, b) }
func BenchmarkBalance100k(b *testing.B) { benchmarkBalance(100_000, b) }

func BenchmarkExerciser(b *testing.B) {
	parameters := gopter.DefaultTestParametersWithSeed(1593228262585360000)
	parameters.MaxSize = 2048
	parameters.MinSuccessfulTests = b.N
	properties := gopter.NewProperties(parameters)
	properties.Property("avlmap exerciser", commands.Prop(avlmapCommands))
	out := bytes.NewBuffer(nil)
	reporter := gopter.NewFormatedReporter(false, 98, out)
	require.True(b, properties.Run(reporter))
}
