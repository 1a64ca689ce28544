package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Report pipeline
	OutputDir        string
	ProviderBaseURL  string
	FetchMaxAttempts int
	FetchBaseDelay   time.Duration

	// Local list sources (relative to OutputDir)
	FlowInfoFile        string
	AShareWatchlistFile string
	HKWatchlistFile     string
	ObserveListFile     string

	// Dynamic portfolio inputs, passed through the batch trigger as
	// JSON-encoded string arrays
	DynamicAList   string
	DynamicHKList  string
	DynamicETFList string

	// HTTP trigger server
	Port          string
	AllowedOrigin string

	// GitHub workflow dispatch / portfolio upload
	GitHubToken     string
	GitHubRepoOwner string
	GitHubRepoName  string
}

func Load() *Config {
	return &Config{
		OutputDir:        getEnv("OUTPUT_DIR", "data"),
		ProviderBaseURL:  getEnv("EASTMONEY_BASE_URL", "https://82.push2.eastmoney.com"),
		FetchMaxAttempts: getEnvInt("FETCH_MAX_ATTEMPTS", 3),
		FetchBaseDelay:   time.Duration(getEnvInt("FETCH_BASE_DELAY_MS", 500)) * time.Millisecond,

		FlowInfoFile:        getEnv("FLOW_INFO_FILE", "FlowInfoBase.json"),
		AShareWatchlistFile: getEnv("A_WATCHLIST_FILE", "ARHot10days_top20.json"),
		HKWatchlistFile:     getEnv("HK_WATCHLIST_FILE", "HKHot10days_top20.json"),
		ObserveListFile:     getEnv("OBSERVE_LIST_FILE", "AIPEObserve.json"),

		DynamicAList:   getEnv("INPUT_DYNAMICLIST", ""),
		DynamicHKList:  getEnv("INPUT_DYNAMICHKLIST", ""),
		DynamicETFList: getEnv("INPUT_DYNAMICETFLIST", ""),

		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "https://digital-era.github.io"),

		GitHubToken:     getEnv("GITHUB_TOKEN", ""),
		GitHubRepoOwner: getEnv("GITHUB_REPO_OWNER", ""),
		GitHubRepoName:  getEnv("GITHUB_REPO_NAME", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
