package sim

import (
	"grimdelve/internal/narrate"
)

// Score ranks a finished run:
// (TotalExperience * 10) + (Gold * 5) + (AverageLevel * 1000) + (FloorsCleared * 250)
func (r Result) Score() int {
	return r.Experience*10 + r.Gold*5 + r.AverageLevel*1000 + r.FloorsCleared*250
}

// Aggregate summarizes a batch of runs.
type Aggregate struct {
	Runs           int
	Survived       int
	Wipes          int
	BossesDefeated int
	BossesFled     int
	MeanGold       float64
	MeanFloors     float64
	BestScore      int
	BestRunID      string
}

// Summarize folds results into an Aggregate.
func Summarize(results []Result) Aggregate {
	agg := Aggregate{Runs: len(results)}
	if len(results) == 0 {
		return agg
	}
	gold, floors := 0, 0
	for i, r := range results {
		if r.Wiped {
			agg.Wipes++
		} else {
			agg.Survived++
		}
		agg.BossesDefeated += r.BossesDefeated
		agg.BossesFled += r.BossesFled
		gold += r.Gold
		floors += r.FloorsCleared
		if score := r.Score(); i == 0 || score > agg.BestScore {
			agg.BestScore = score
			agg.BestRunID = r.RunID
		}
	}
	agg.MeanGold = float64(gold) / float64(len(results))
	agg.MeanFloors = float64(floors) / float64(len(results))
	return agg
}

func (a Aggregate) String() string {
	return narrate.Sprintf("%d runs: %d survived, %d wiped, %d bosses defeated, %d fled\n"+
		"mean gold %.1f, mean floors cleared %.2f, best score %d (%s)",
		a.Runs, a.Survived, a.Wipes, a.BossesDefeated, a.BossesFled,
		a.MeanGold, a.MeanFloors, a.BestScore, a.BestRunID)
}
