// Package main provides a demo program for the dashboard over generated expenses.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/Veraticus/expense-analysis/internal/dataset"
	"github.com/Veraticus/expense-analysis/internal/model"
	"github.com/Veraticus/expense-analysis/internal/tui"
)

type merchant struct {
	label        string
	mainCategory string
	category     string
	typical      float64
}

var merchants = []merchant{
	{"Whole Foods Market", "dailyLife", "groceries", 85},
	{"Starbucks", "dailyLife", "coffee", 5},
	{"Chipotle", "chillOut", "restaurant", 18},
	{"Netflix", "culture", "streaming", 15},
	{"Shell Oil", "car", "fuel", 60},
	{"Uber", "transport", "taxi", 22},
	{"CVS Pharmacy", "health", "pharmacy", 25},
	{"Home Depot", "appartment", "diy", 120},
	{"Amazon.com", "gifts", "presents", 45},
	{"Air France", "travel", "flights", 420},
}

func main() {
	records := generate(rand.New(rand.NewPCG(2022, 2024)), 600)

	if err := tui.Run(context.Background(), records, tui.WithSize(120, 40), tui.WithSource("demo")); err != nil {
		// Use explicit error check to satisfy forbidigo
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// generate spreads n expenses over 2022 to 2024.
func generate(r *rand.Rand, n int) []model.Record {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	days := int(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Sub(start).Hours() / 24)

	records := make([]model.Record, 0, n)
	for i := range n {
		m := merchants[r.IntN(len(merchants))]
		amount := -m.typical * (0.5 + r.Float64())
		rec := model.Record{
			ID:           i,
			Date:         start.AddDate(0, 0, r.IntN(days)).Format("2006-01-02"),
			BankName:     "demo",
			Label:        m.label,
			Amount:       amount,
			RealAmount:   amount,
			Shared:       "perso",
			MainCategory: m.mainCategory,
			CategoryName: m.category,
		}
		if r.IntN(4) == 0 {
			rec.Shared = "share"
			rec.RealAmount = amount / 2
		}
		dataset.FillCalendar(&rec)
		records = append(records, rec)
	}
	return records
}
