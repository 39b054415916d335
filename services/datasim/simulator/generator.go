package simulator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/iulianpascalau/fabric-telemetry/telemetry"
)

const (
	latencySpikePct = 0.03
	pktErrBurstPct  = 0.01
	cpuSpikePct     = 0.05
	bufBurstPct     = 0.08
	dropsBurstPct   = 0.02
)

// generator produces synthetic per-entity telemetry snapshots. It owns its randomness
// source, so two generators with the same seed produce the same sequence of snapshots.
type generator struct {
	rnd *rand.Rand
}

// NewGenerator creates a new snapshot generator from the provided seed
func NewGenerator(seed int64) *generator {
	return &generator{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// Generate produces a fresh snapshot with entityCount rows and version prevVersion+1.
// Every metric is drawn independently per entity:
//   - bandwidth: N(120,15), ≥0
//   - latency: N(10,2) with 3% spikes drawn from U(50,150), ≥1
//   - packet_errors: small count, λ=0.6, 1% bursts of 5..30
//   - cpu_util_pct: N(35,10) with 5% spikes U(80,100), clipped 0..100
//   - mem_util_pct: N(60,15), clipped 0..100
//   - buffer_occupancy_pct: N(30,15) with 8% microbursts U(70,100), clipped 0..100
//   - egress_drops: small count, λ=1+0.5·(buffer/100), 2% bursts U(100,1000)
//   - temperature_c: N(45,3)+0.06·cpu, clipped 30..90
//
// Percentage metrics and gauges are rounded to 2 decimals, counts are stored whole.
func (g *generator) Generate(entityCount int, prevVersion uint64) telemetry.Snapshot {
	fields := telemetry.MetricFields()
	rows := make(map[string]map[string]float64, entityCount)

	for i := 0; i < entityCount; i++ {
		bandwidth := math.Max(0, g.rnd.NormFloat64()*15+120)

		latency := math.Max(1, g.rnd.NormFloat64()*2+10)
		if g.chance(latencySpikePct) {
			latency = g.uniform(50, 150)
		}

		pktErrors := float64(g.smallCount(0.6))
		if g.chance(pktErrBurstPct) {
			pktErrors = float64(5 + g.rnd.Intn(26))
		}

		cpu := clip(g.rnd.NormFloat64()*10+35, 0, 100)
		if g.chance(cpuSpikePct) {
			cpu = g.uniform(80, 100)
		}

		mem := clip(g.rnd.NormFloat64()*15+60, 0, 100)

		buf := clip(g.rnd.NormFloat64()*15+30, 0, 100)
		if g.chance(bufBurstPct) {
			buf = g.uniform(70, 100)
		}

		drops := float64(g.smallCount(1.0 + 0.5*buf/100))
		if g.chance(dropsBurstPct) {
			drops = math.Floor(g.uniform(100, 1000))
		}

		temp := clip(g.rnd.NormFloat64()*3+45+0.06*cpu, 30, 90)

		rows[entityID(i)] = map[string]float64{
			"bandwidth":            round2(bandwidth),
			"latency":              round2(latency),
			"packet_errors":        pktErrors,
			"cpu_util_pct":         round2(cpu),
			"mem_util_pct":         round2(mem),
			"buffer_occupancy_pct": round2(buf),
			"egress_drops":         drops,
			"temperature_c":        round2(temp),
		}
	}

	return telemetry.Snapshot{
		Version:     prevVersion + 1,
		TimestampMs: time.Now().UnixMilli(),
		Fields:      fields,
		Rows:        rows,
	}
}

// smallCount draws a small non-negative count whose mean is approximately lambda,
// using the product-of-uniforms method. Adequate for lambda up to a few units.
func (g *generator) smallCount(lambda float64) int {
	threshold := math.Exp(-lambda)
	k := 0
	p := 1.0
	for p > threshold {
		k++
		p *= g.rnd.Float64()
	}

	if k < 1 {
		return 0
	}

	return k - 1
}

func (g *generator) chance(probability float64) bool {
	return g.rnd.Float64() < probability
}

func (g *generator) uniform(low float64, high float64) float64 {
	return low + g.rnd.Float64()*(high-low)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (g *generator) IsInterfaceNil() bool {
	return g == nil
}

func entityID(i int) string {
	return fmt.Sprintf("entity-%03d", i)
}

func clip(x float64, low float64, high float64) float64 {
	return math.Max(low, math.Min(high, x))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
