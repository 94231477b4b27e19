package propagate_test

import (
	"testing"

	"github.com/suksuki/bazi-sub001/graph"
	"github.com/suksuki/bazi-sub001/propagate"
	"github.com/suksuki/bazi-sub001/symbol"
)

var sinkR propagate.Result

func BenchmarkRun(b *testing.B) {
	b.ReportAllocs()
	c, err := symbol.ParseChart([]string{"甲子", "丙寅", "甲申", "乙亥"}, "庚辰", "辛巳")
	if err != nil {
		b.Fatal(err)
	}
	nodes := graph.BuildNodes(c, symbol.StemJia)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		adj, err := graph.BuildAdjacency(nodes, symbol.StemJia)
		if err != nil {
			b.Fatal(err)
		}
		r, err := propagate.Run(adj)
		if err != nil {
			b.Fatal(err)
		}
		sinkR = r
	}
}
