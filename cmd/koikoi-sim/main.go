// koikoi-sim plays automated games end to end and prints the results.
// Useful for eyeballing rule behavior and score distributions.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/hanafuda/koikoi-go/internal/game"
)

type config struct {
	Games     int  `env:"SIM_GAMES" envDefault:"10"`
	MaxRounds int  `env:"SIM_ROUNDS" envDefault:"3"`
	Verbose   bool `env:"SIM_VERBOSE"`
}

func main() {
	logger := log.New(os.Stderr, "[sim] ", 0)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatalf("config: %v", err)
	}

	wins := map[game.PlayerKey]int{}
	draws := 0
	totalRounds := 0

	for i := 0; i < cfg.Games; i++ {
		gameConfig := game.DefaultConfig()
		gameConfig.MaxRounds = cfg.MaxRounds

		session, err := game.NewSession(gameConfig, logger)
		if err != nil {
			logger.Fatalf("game %d: %v", i+1, err)
		}
		if err := session.PlayAutoGame(); err != nil {
			logger.Fatalf("game %d: %v", i+1, err)
		}

		board := session.Data.ComputeScoreboard(gameConfig.MaxRounds)
		totalRounds += len(session.Data.RoundHistory)
		switch {
		case board.P1 > board.P2:
			wins[game.P1]++
		case board.P2 > board.P1:
			wins[game.P2]++
		default:
			draws++
		}

		if cfg.Verbose {
			fmt.Printf("game %d (%s): %d-%d over %d rounds\n",
				i+1, session.Data.GameID, board.P1, board.P2, len(session.Data.RoundHistory))
			for _, result := range session.Data.RoundHistory {
				winner := string(result.Winner)
				if winner == "" {
					winner = "draw"
				}
				fmt.Printf("  round %d: %s", result.Round, winner)
				if result.Score > 0 {
					fmt.Printf(" +%d", result.Score)
				}
				for _, report := range result.CompletedYaku {
					fmt.Printf(" %s(%d)", report.Name, report.Points)
				}
				fmt.Println()
			}
		}
	}

	fmt.Printf("%d games, %d rounds: p1 %d / p2 %d / drawn %d\n",
		cfg.Games, totalRounds, wins[game.P1], wins[game.P2], draws)
}
