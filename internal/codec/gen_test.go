package codec

import (
	"netsimbridge/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
)

func genPosition() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(-1000, 1000),
	).Map(func(v []interface{}) domain.Position {
		return domain.Position{X: v[0].(float64), Y: v[1].(float64)}
	})
}

func genEdge() gopter.Gen {
	return gopter.CombineGens(
		gen.Identifier(),
		gen.Identifier(),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 50),
		gen.PtrOf(genPosition()),
		gen.PtrOf(genPosition()),
	).Map(func(v []interface{}) domain.EdgeRecord {
		return domain.EdgeRecord{
			Src:          v[0].(string),
			Dst:          v[1].(string),
			PacketLoss:   v[2].(float64),
			LatencyMean:  v[3].(float64),
			LatencySigma: v[4].(float64),
			SrcPosition:  v[5].(*domain.Position),
			DstPosition:  v[6].(*domain.Position),
		}
	})
}
