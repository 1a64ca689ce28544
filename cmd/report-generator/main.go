package main

import (
	"fmt"
	"log"
	"path/filepath"

	"aipe-market/internal/config"
	"aipe-market/internal/models"
	"aipe-market/internal/report"
	"aipe-market/internal/services/eastmoney"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	policy := eastmoney.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.FetchMaxAttempts
	policy.BaseDelay = cfg.FetchBaseDelay
	client := eastmoney.NewClient(cfg.ProviderBaseURL, policy)

	log.Println("--- Starting data acquisition phase ---")
	stock, hk, etf := client.FetchAll()
	stamp := report.NewStamp(etf.TradeDate)
	log.Printf("Base trade date set to: %s", stamp.TradeDate)

	log.Println("--- Reading local files & dynamic inputs ---")
	flow := report.ReadFlowInfo(filepath.Join(cfg.OutputDir, cfg.FlowInfoFile))
	aShareWatchlist := report.ReadWatchlist(filepath.Join(cfg.OutputDir, cfg.AShareWatchlistFile))
	hkWatchlist := report.ReadWatchlist(filepath.Join(cfg.OutputDir, cfg.HKWatchlistFile))
	observeList := report.ReadWatchlist(filepath.Join(cfg.OutputDir, cfg.ObserveListFile))

	// 动态组合：三个输入按 A股 → 港股 → ETF 顺序合并
	var dynamicList []string
	dynamicList = append(dynamicList, report.ParseDynamicList(cfg.DynamicAList)...)
	dynamicList = append(dynamicList, report.ParseDynamicList(cfg.DynamicHKList)...)
	dynamicList = append(dynamicList, report.ParseDynamicList(cfg.DynamicETFList)...)
	if len(dynamicList) > 0 {
		log.Printf("Processing a unified list of %d dynamic securities", len(dynamicList))
	}

	log.Println("--- Starting data processing phase ---")
	if !etf.Empty() {
		runTask(cfg.OutputDir, "ETF Report", "etf_data.json", func() any {
			return report.FullMarketReport(etf, stamp)
		})
	}
	if !stock.Empty() {
		runTask(cfg.OutputDir, "A-Share Report", "stock_data.json", func() any {
			return report.FullMarketReport(stock, stamp)
		})
		runTask(cfg.OutputDir, "A-Share Watchlist", "stock_10days_data.json", func() any {
			return report.WatchlistReport(stock, aShareWatchlist, stamp)
		})
	}
	if !hk.Empty() {
		runTask(cfg.OutputDir, "HK Stock Report", "hk_stock_data.json", func() any {
			return report.FullMarketReport(hk, stamp)
		})
		runTask(cfg.OutputDir, "HK Stock Watchlist", "hk_stock_10days_data.json", func() any {
			return report.WatchlistReport(hk, hkWatchlist, stamp)
		})
	}
	if !stock.Empty() || !etf.Empty() || !hk.Empty() {
		ix := report.NewIndices(stock, hk, etf)
		runTask(cfg.OutputDir, "Unified Observe List", "stock_observe_data.json", func() any {
			return report.ObserveReport(ix, observeList, stamp)
		})
		if len(dynamicList) > 0 {
			runTask(cfg.OutputDir, "Unified Dynamic Portfolio", "stock_dynamic_data_portfolio.json", func() any {
				return report.DynamicReport(ix, dynamicList, flow, stamp)
			})
		}
	}

	log.Println("All tasks finished.")
}

// runTask executes one report task and writes its document. A panicking
// task degrades to an error document instead of taking down the whole run.
func runTask(outputDir, name, file string, task func() any) {
	log.Printf("[%s] -> Starting...", name)
	doc := func() (doc any) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[%s] -> Error: %v", name, r)
				doc = models.ErrorDoc{Error: fmt.Sprint(r)}
			}
		}()
		return task()
	}()
	if err := report.WriteDocument(outputDir, file, doc); err != nil {
		log.Printf("[%s] -> Write failed: %v", name, err)
		return
	}
	log.Printf("[%s] -> Finished. Data saved to %s", name, filepath.Join(outputDir, file))
}
