package ga

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/florianmende/marketroute/logging"
	"github.com/florianmende/marketroute/routing"
)

// Config holds the GA hyperparameters.
type Config struct {
	// PopulationSize is the number of individuals per generation.
	PopulationSize int `yaml:"population_size"`
	// Generations is the evolution budget.
	Generations int `yaml:"generations"`
	// CrossoverProb is the probability a mating pair recombines.
	CrossoverProb float64 `yaml:"crossover_prob"`
	// MutationProb is the probability an offspring mutates.
	MutationProb float64 `yaml:"mutation_prob"`
	// SwapProb is the per-index shuffle probability inside a mutation.
	SwapProb float64 `yaml:"swap_prob"`
	// TournamentSize controls selection pressure.
	TournamentSize int `yaml:"tournament_size"`
	// ServiceTime is the fixed per-market service duration in minutes.
	ServiceTime int `yaml:"service_time"`
	// Seed makes runs reproducible when non-zero.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the baseline parameter set.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 100,
		Generations:    300,
		CrossoverProb:  0.7,
		MutationProb:   0.2,
		SwapProb:       0.1,
		TournamentSize: 3,
		ServiceTime:    30,
	}
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("ga: population size must be at least 2, got %d", c.PopulationSize)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("ga: generations must be positive, got %d", c.Generations)
	}
	if c.CrossoverProb < 0 || c.CrossoverProb > 1 {
		return fmt.Errorf("ga: crossover probability must be in [0,1], got %v", c.CrossoverProb)
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		return fmt.Errorf("ga: mutation probability must be in [0,1], got %v", c.MutationProb)
	}
	if c.SwapProb < 0 || c.SwapProb > 1 {
		return fmt.Errorf("ga: swap probability must be in [0,1], got %v", c.SwapProb)
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("ga: tournament size must be at least 1, got %d", c.TournamentSize)
	}
	return nil
}

// Optimizer evolves market-id permutations toward maximal feasible routes.
type Optimizer struct {
	markets routing.Markets
	travel  routing.TravelTimes
	cfg     Config
	rng     *rand.Rand
	logger  logging.Logger
}

// New creates an optimizer over the given market set.
func New(markets routing.Markets, travel routing.TravelTimes, cfg Config, logger logging.Logger) *Optimizer {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Optimizer{
		markets: markets,
		travel:  travel,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger,
	}
}

// Run evolves the population and returns the best feasible route found and
// its visit count. Cancelling ctx stops evolution at the next generation
// boundary and returns the hall-of-fame so far.
func (o *Optimizer) Run(ctx context.Context) (routing.Tour, int, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, 0, err
	}
	ids := o.markets.IDs()
	if len(ids) == 0 {
		return nil, 0, fmt.Errorf("ga: no markets to visit")
	}

	population := make([][]int, o.cfg.PopulationSize)
	for i := range population {
		population[i] = o.randomPermutation(ids)
	}

	var hallOfFame []int
	hallOfFameFitness := -1

	evaluate := func(ind []int) int {
		return len(routing.FeasibleSubsequence(ind, o.markets, o.travel, o.cfg.ServiceTime))
	}

	for gen := 0; gen < o.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			break
		}

		fitness := make([]int, len(population))
		for i, ind := range population {
			fitness[i] = evaluate(ind)
			if fitness[i] > hallOfFameFitness {
				hallOfFameFitness = fitness[i]
				hallOfFame = append([]int(nil), ind...)
			}
		}

		offspring := o.selectTournament(population, fitness)

		for i := 0; i+1 < len(offspring); i += 2 {
			if o.rng.Float64() < o.cfg.CrossoverProb {
				offspring[i], offspring[i+1] = o.orderedCrossover(offspring[i], offspring[i+1])
			}
		}
		for i := range offspring {
			if o.rng.Float64() < o.cfg.MutationProb {
				o.shuffleIndexes(offspring[i])
			}
		}

		population = offspring
	}

	// Final sweep so the last generation can still enter the hall of fame.
	for _, ind := range population {
		if f := evaluate(ind); f > hallOfFameFitness {
			hallOfFameFitness = f
			hallOfFame = append([]int(nil), ind...)
		}
	}

	best := routing.FeasibleSubsequence(hallOfFame, o.markets, o.travel, o.cfg.ServiceTime)
	o.logger.Info("evolution finished", "generations", o.cfg.Generations, "best_count", len(best))
	return best, len(best), nil
}

func (o *Optimizer) randomPermutation(ids []int) []int {
	perm := append([]int(nil), ids...)
	o.rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	return perm
}

// selectTournament draws len(population) winners, each the fittest of a
// random tournament.
func (o *Optimizer) selectTournament(population [][]int, fitness []int) [][]int {
	selected := make([][]int, len(population))
	for i := range selected {
		bestIdx := o.rng.Intn(len(population))
		for k := 1; k < o.cfg.TournamentSize; k++ {
			challenger := o.rng.Intn(len(population))
			if fitness[challenger] > fitness[bestIdx] {
				bestIdx = challenger
			}
		}
		selected[i] = append([]int(nil), population[bestIdx]...)
	}
	return selected
}

// orderedCrossover recombines two permutations: each child keeps a random
// segment of one parent and fills the remaining positions in the other
// parent's relative order, preserving permutation validity.
func (o *Optimizer) orderedCrossover(p1, p2 []int) ([]int, []int) {
	n := len(p1)
	if n < 2 {
		return p1, p2
	}

	a, b := o.rng.Intn(n), o.rng.Intn(n)
	if a > b {
		a, b = b, a
	}

	child := func(keep, fill []int) []int {
		c := make([]int, n)
		inSegment := make(map[int]bool, b-a+1)
		for i := a; i <= b; i++ {
			c[i] = keep[i]
			inSegment[keep[i]] = true
		}
		pos := (b + 1) % n
		for i := 0; i < n; i++ {
			v := fill[(b+1+i)%n]
			if inSegment[v] {
				continue
			}
			c[pos] = v
			pos = (pos + 1) % n
		}
		return c
	}

	return child(p1, p2), child(p2, p1)
}

// shuffleIndexes swaps each position with a random other one with probability
// SwapProb, mutating the permutation in place.
func (o *Optimizer) shuffleIndexes(ind []int) {
	for i := range ind {
		if o.rng.Float64() < o.cfg.SwapProb {
			j := o.rng.Intn(len(ind))
			ind[i], ind[j] = ind[j], ind[i]
		}
	}
}
