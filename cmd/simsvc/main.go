package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"squadtactics/internal/combat"
	"squadtactics/internal/config"
	"squadtactics/internal/logging"
	"squadtactics/internal/report"
	"squadtactics/internal/util"
)

func main() {
	var cfgDir, out, pdfOut, level string
	var seed int64
	var n, rounds, workers int
	var saveLog bool
	flag.StringVar(&cfgDir, "config", "assets", "config dir (empty for the built-in encounter)")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.StringVar(&pdfOut, "pdf", "", "after-action PDF path (single run only)")
	flag.StringVar(&level, "level", "info", "log level")
	flag.Int64Var(&seed, "seed", 12345, "seed")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&rounds, "rounds", combat.DefaultMaxRounds, "round cap per battle")
	flag.IntVar(&workers, "workers", 8, "parallel battles in batch mode")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.Parse()

	log, err := logging.New(level, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	enc := config.Default()
	if cfgDir != "" {
		if enc, err = config.LoadAll(cfgDir); err != nil {
			log.Fatal("load config", zap.String("dir", cfgDir), zap.Error(err))
		}
	}

	if n <= 1 {
		res := combat.RunAuto(enc, combat.SimOptions{Seed: seed, MaxRounds: rounds, Record: saveLog, Logger: log})
		logging.Warnings(log, res.Warnings)
		if err := os.WriteFile(out, combat.MarshalPretty(res), 0o644); err != nil {
			log.Fatal("write result", zap.String("path", out), zap.Error(err))
		}
		if pdfOut != "" {
			pdf, err := report.Generate(&res, fmt.Sprintf("Battle seed %d", seed))
			if err != nil {
				log.Fatal("render report", zap.Error(err))
			}
			if err := os.WriteFile(pdfOut, pdf, 0o644); err != nil {
				log.Fatal("write report", zap.String("path", pdfOut), zap.Error(err))
			}
		}
		log.Info("single simsvc finished",
			zap.String("outcome", res.Outcome),
			zap.Int("rounds", res.Rounds),
			zap.String("out", out))
		return
	}

	type stat struct {
		Win, Lost, TimedOut int
		SumRounds           int
		Shots, Hits         map[string]int
		ByUnit              map[string]int
		Warned              bool
	}
	st := stat{Shots: map[string]int{}, Hits: map[string]int{}, ByUnit: map[string]int{}}
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	jobs := make(chan int, n)
	for w := 0; w < max(1, workers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := combat.RunAuto(enc, combat.SimOptions{Seed: int64(util.Seed(seed).Run(i)), MaxRounds: rounds})

				mu.Lock()
				switch {
				case res.Win:
					st.Win++
				case res.TimedOut:
					st.TimedOut++
				default:
					st.Lost++
				}
				st.SumRounds += res.Rounds
				for k, v := range res.Shots {
					st.Shots[k] += v
				}
				for k, v := range res.Hits {
					st.Hits[k] += v
				}
				for k, v := range res.DamageByUnit {
					st.ByUnit[k] += v
				}
				if !st.Warned && len(res.Warnings) > 0 {
					st.Warned = true
					logging.Warnings(log, res.Warnings)
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	totalDmg := 0
	for _, v := range st.ByUnit {
		totalDmg += v
	}
	ids := make([]string, 0, len(st.ByUnit))
	for id := range st.ByUnit {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	byUnit := map[string]any{}
	for _, id := range ids {
		share := 0.0
		if totalDmg > 0 {
			share = float64(st.ByUnit[id]) / float64(totalDmg)
		}
		byUnit[id] = map[string]any{"total": st.ByUnit[id], "avg": float64(st.ByUnit[id]) / float64(n), "ratio": share}
	}
	accuracy := map[string]float64{}
	for team, shots := range st.Shots {
		if shots > 0 {
			accuracy[team] = float64(st.Hits[team]) / float64(shots)
		}
	}

	summary := map[string]any{
		"runs":         n,
		"seed":         seed,
		"win_rate":     float64(st.Win) / float64(n),
		"loss_rate":    float64(st.Lost) / float64(n),
		"timeout_rate": float64(st.TimedOut) / float64(n),
		"avg_rounds":   float64(st.SumRounds) / float64(n),
		"total_damage": totalDmg,
		"hit_rate":     accuracy,
		"by_unit":      byUnit,
	}
	if err := os.WriteFile(out, combat.MarshalPretty(summary), 0o644); err != nil {
		log.Fatal("write summary", zap.String("path", out), zap.Error(err))
	}
	log.Info("batch done", zap.Int("runs", n), zap.String("out", filepath.Base(out)))
}
