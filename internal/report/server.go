package report

import (
	"bufio"
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/Jelly-Pudding/ereddicator/internal/journal"
)

// StartServer serves charts over the decision journal so a run (or a
// dry run) can be reviewed in a browser.
func StartServer(journalFile string, port string) error {
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		records := loadRecords(journalFile)

		// 1. Decisions per category
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Decisions by Category"}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		)

		catCounts := make(map[string]int)
		for _, rec := range records {
			catCounts[string(rec.Category)]++
		}

		var pieItems []opts.PieData
		for k, v := range catCounts {
			pieItems = append(pieItems, opts.PieData{Name: k, Value: v})
		}
		pie.AddSeries("Items", pieItems)

		// 2. Actions taken (or would-be, for dry runs)
		bar := charts.NewBar()
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Actions"}))

		actionCounts := make(map[string]int)
		for _, rec := range records {
			actionCounts[rec.Action]++
		}

		var barX []string
		var barY []opts.BarData
		for k, v := range actionCounts {
			barX = append(barX, k)
			barY = append(barY, opts.BarData{Value: v})
		}
		bar.SetXAxis(barX).AddSeries("Count", barY)

		pie.Render(w)
		bar.Render(w)
	})

	return http.ListenAndServe(":"+port, nil)
}

func loadRecords(path string) []journal.Record {
	f, _ := os.Open(path)
	defer f.Close()
	var records []journal.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec journal.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records
}
