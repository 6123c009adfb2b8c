// Command marketroute is the application composition root. It loads the run
// configuration and the dataset, wires the Planner and executes the selected
// optimizer(s) day by day, printing the detailed route evaluation and
// optionally writing run statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/florianmende/marketroute"
	"github.com/florianmende/marketroute/config"
	"github.com/florianmende/marketroute/dataset"
	"github.com/florianmende/marketroute/logging"
	"github.com/florianmende/marketroute/routing"
	"github.com/florianmende/marketroute/stats"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found (using environment variables)")
	}

	var (
		configPath  = flag.String("config", "", "path to YAML run configuration")
		algorithm   = flag.String("algorithm", "", "optimizer to run: aco, ga or all")
		placesFile  = flag.String("places", "", "path to the market table JSON")
		travelFile  = flag.String("travel-times", "", "path to the travel-time matrix JSON")
		days        = flag.Int("days", 0, "number of planning days")
		serviceTime = flag.Int("service-time", -1, "per-market service duration in minutes")
		outputDir   = flag.String("out", "", "directory for run statistics JSON")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags take precedence over file and environment values.
	if *algorithm != "" {
		cfg.Algorithm = *algorithm
	}
	if *placesFile != "" {
		cfg.PlacesFile = *placesFile
	}
	if *travelFile != "" {
		cfg.TravelTimesFile = *travelFile
	}
	if *days > 0 {
		cfg.Days = *days
	}
	if *serviceTime >= 0 {
		cfg.ServiceTime = *serviceTime
		cfg.ACO.ServiceTime = *serviceTime
		cfg.GA.ServiceTime = *serviceTime
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
	})

	mode, err := dataset.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	markets, err := dataset.LoadMarkets(cfg.PlacesFile)
	if err != nil {
		return err
	}
	travel, err := dataset.LoadTravelTimes(cfg.TravelTimesFile, mode)
	if err != nil {
		return err
	}

	planner, err := marketroute.New(markets, travel, cfg, func(o *marketroute.Options) {
		o.Logger = logger
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	heading := color.New(color.FgCyan, color.Bold)
	heading.Printf("MARKET ROUTE OPTIMIZATION: %d markets, %d day(s), service %d min\n",
		len(markets), cfg.Days, cfg.ServiceTime)

	totals := map[marketroute.Algorithm]int{}
	for _, alg := range selectedAlgorithms(cfg.Algorithm) {
		recorder := stats.NewRecorder(map[string]any{
			"algorithm":    string(alg),
			"days":         cfg.Days,
			"service_time": cfg.ServiceTime,
			"mode":         cfg.Mode,
		})

		heading.Printf("\n=== %s ===\n", algorithmTitle(alg))
		plans, err := planner.PlanDays(ctx, alg, recorder)
		if err != nil {
			return err
		}

		for _, plan := range plans {
			printDayPlan(plan, markets)
			totals[alg] += plan.Best.Count
		}
		fmt.Printf("\n%s total: %d markets over %d day(s)\n", algorithmTitle(alg), totals[alg], len(plans))

		recorder.Finish(true)
		if cfg.OutputDir != "" {
			path, err := recorder.WriteJSON(cfg.OutputDir)
			if err != nil {
				return err
			}
			fmt.Println("statistics written to", path)
		}
	}

	if cfg.Algorithm == "all" {
		printComparison(totals[marketroute.AlgorithmGA], totals[marketroute.AlgorithmACO])
	}
	return nil
}

func selectedAlgorithms(algorithm string) []marketroute.Algorithm {
	switch algorithm {
	case "ga":
		return []marketroute.Algorithm{marketroute.AlgorithmGA}
	case "all":
		return []marketroute.Algorithm{marketroute.AlgorithmGA, marketroute.AlgorithmACO}
	default:
		return []marketroute.Algorithm{marketroute.AlgorithmACO}
	}
}

func algorithmTitle(alg marketroute.Algorithm) string {
	if alg == marketroute.AlgorithmGA {
		return "GENETIC ALGORITHM"
	}
	return "ANT COLONY OPTIMIZATION"
}

// printDayPlan prints the timed expansion of one day's best route, in the
// shape of the detailed route evaluation the optimizers are judged by.
func printDayPlan(plan marketroute.DayPlan, markets routing.Markets) {
	bold := color.New(color.Bold)
	bold.Printf("\nDay %d: %d markets visited\n", plan.Day, plan.Best.Count)

	for i, stop := range plan.Schedule.Stops {
		market := markets[stop.MarketID]
		fmt.Printf("  %2d. %s (id %d)\n", i+1, market.Name, market.ID)
		fmt.Printf("      window %s–%s", routing.FormatClock(market.Opens), routing.FormatClock(market.Closes))
		if stop.Waiting > 0 {
			fmt.Printf(", waited %d min", stop.Waiting)
		}
		fmt.Printf(", arrive %s, leave %s\n", routing.FormatClock(stop.Arrival), routing.FormatClock(stop.Departure))
	}

	sched := plan.Schedule
	fmt.Printf("  start %s, end %s | travel %d min, waiting %d min, service %d min\n",
		routing.FormatClock(sched.Start()), routing.FormatClock(sched.End()),
		sched.TotalTravel, sched.TotalWaiting, sched.TotalService)
}

func printComparison(gaTotal, acoTotal int) {
	heading := color.New(color.FgGreen, color.Bold)
	heading.Println("\n=== COMPARISON ===")
	fmt.Printf("GA:  %d markets\nACO: %d markets\n", gaTotal, acoTotal)
	switch {
	case gaTotal > acoTotal:
		fmt.Println("Winner: GA")
	case acoTotal > gaTotal:
		fmt.Println("Winner: ACO")
	default:
		fmt.Println("Winner: Tie")
	}
}
