package sensor_simulator

import (
	"errors"
	"math"
	"math/rand"
	"sync"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/validator"
)

// ====== Tunables ======
const (
	// stepFrac bounds one random-walk step as a fraction of the variable's range.
	stepFrac = 0.05

	// maxAttempts before giving up on a reading that passes the pre-submit gate.
	maxAttempts = 16
)

var ErrNoValidReading = errors.New("simulator: no valid reading generated")

// DataGenerator produces plausible field readings. The first reading is
// uniform over each variable's range; later ones random-walk from it, like a
// plot sampled over successive visits.
type DataGenerator struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	seeded bool
	state  entities.Values
}

func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{rnd: rand.New(rand.NewSource(seed))}
}

// Next returns a FieldSet that always passes validator.Check.
func (g *DataGenerator) Next() (entities.FieldSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		g.step()
		fs := g.render()
		if _, err := validator.Check(fs); err == nil {
			return fs, nil
		}
		g.seeded = false
	}
	return entities.FieldSet{}, ErrNoValidReading
}

// Category picks one of the two coffee types.
func (g *DataGenerator) Category() entities.Category {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rnd.Intn(2) == 0 {
		return entities.CategoryManabi01
	}
	return entities.CategorySarchimor
}

func (g *DataGenerator) step() {
	for i, v := range entities.Variables {
		if !g.seeded {
			g.state[i] = v.Min + g.rnd.Float64()*(v.Max-v.Min)
			continue
		}
		delta := (g.rnd.Float64()*2 - 1) * stepFrac * (v.Max - v.Min)
		g.state[i] = clamp(g.state[i]+delta, v.Min, v.Max)
	}
	g.seeded = true
}

func (g *DataGenerator) render() entities.FieldSet {
	fs := entities.NewFieldSet()
	for i, v := range entities.Variables {
		x := round(g.state[i], v.Decimals)
		if v.Name == entities.AgeVariable && x < entities.MinAgeDays {
			x = entities.MinAgeDays
		}
		fs.Set(v.Name, v.Format(x))
	}
	return fs
}

// ===== Helpers =====

func round(x float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(x*p) / p
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
