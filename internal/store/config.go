package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string `yaml:"mode"`
	Timeframe   string `yaml:"timeframe"`
	PollSeconds int    `yaml:"poll_seconds"`

	TradingHours struct {
		Enabled      bool `yaml:"enabled"`
		StartHour    int  `yaml:"start_hour"`
		EndHour      int  `yaml:"end_hour"`
		SkipWeekends bool `yaml:"skip_weekends"`
	} `yaml:"trading_hours"`

	LLM struct {
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		MaxAttempts    int     `yaml:"max_attempts"`
		BackoffSeconds int     `yaml:"backoff_seconds"`
	} `yaml:"llm"`

	Collector struct {
		PriceTimeoutSeconds int      `yaml:"price_timeout_seconds"`
		NewsTimeoutSeconds  int      `yaml:"news_timeout_seconds"`
		MaxArticles         int      `yaml:"max_articles"`
		RSSFeeds            []string `yaml:"rss_feeds"`
		ScrapeDomains       []string `yaml:"scrape_domains"`
	} `yaml:"collector"`

	Journal struct {
		Dir         string `yaml:"dir"`
		MaxAnalyses int    `yaml:"max_analyses"`
		MaxSignals  int    `yaml:"max_signals"`
		MaxEvents   int    `yaml:"max_events"`
	} `yaml:"journal"`

	Notify struct {
		Console  bool   `yaml:"console"`
		FilePath string `yaml:"file_path"`
		Telegram bool   `yaml:"telegram"`
	} `yaml:"notify"`

	// Populated from the environment, never from the YAML file.
	GeminiKeys      []string `yaml:"-"`
	TelegramToken   string   `yaml:"-"`
	TelegramChatID  int64    `yaml:"-"`
	TwelveDataKey   string   `yaml:"-"`
	FinnhubKey      string   `yaml:"-"`
	AlphaVantageKey string   `yaml:"-"`
	NewsAPIKey      string   `yaml:"-"`
	NewsDataKey     string   `yaml:"-"`
}

func (c *Config) Validate() error {
	if c.Mode != "scalp" && c.Mode != "intraday" && c.Mode != "medium" && c.Mode != "swing" {
		return fmt.Errorf("invalid mode '%s': must be 'scalp', 'intraday', 'medium', or 'swing'", c.Mode)
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", c.PollSeconds)
	}
	if c.TradingHours.Enabled {
		if c.TradingHours.StartHour < 0 || c.TradingHours.StartHour > 23 ||
			c.TradingHours.EndHour < 0 || c.TradingHours.EndHour > 24 {
			return fmt.Errorf("trading_hours out of range: start=%d end=%d", c.TradingHours.StartHour, c.TradingHours.EndHour)
		}
	}
	if len(c.GeminiKeys) == 0 {
		return errors.New("no Gemini API key configured: set GEMINI_API_KEY or GEMINI_API_KEYS")
	}
	if c.Notify.Telegram && (c.TelegramToken == "" || c.TelegramChatID == 0) {
		return errors.New("telegram notifications enabled but TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "intraday"
	}
	if c.Timeframe == "" {
		c.Timeframe = defaultTimeframe(c.Mode)
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 1800
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.0-flash"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.LLM.MaxAttempts == 0 {
		c.LLM.MaxAttempts = 5
	}
	if c.LLM.BackoffSeconds == 0 {
		c.LLM.BackoffSeconds = 5
	}
	if c.Collector.PriceTimeoutSeconds == 0 {
		c.Collector.PriceTimeoutSeconds = 10
	}
	if c.Collector.NewsTimeoutSeconds == 0 {
		c.Collector.NewsTimeoutSeconds = 15
	}
	if c.Collector.MaxArticles == 0 {
		c.Collector.MaxArticles = 10
	}
	if c.Journal.Dir == "" {
		c.Journal.Dir = "data"
	}
	if c.Journal.MaxAnalyses == 0 {
		c.Journal.MaxAnalyses = 500
	}
	if c.Journal.MaxSignals == 0 {
		c.Journal.MaxSignals = 200
	}
	if c.Journal.MaxEvents == 0 {
		c.Journal.MaxEvents = 1000
	}

	loadEnv(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func defaultTimeframe(mode string) string {
	switch mode {
	case "scalp":
		return "M5"
	case "medium":
		return "H4"
	case "swing":
		return "D1"
	}
	return "H1"
}

func loadEnv(c *Config) {
	if pool := os.Getenv("GEMINI_API_KEYS"); pool != "" {
		for _, k := range strings.Split(pool, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.GeminiKeys = append(c.GeminiKeys, k)
			}
		}
	} else if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		c.GeminiKeys = []string{k}
	}
	c.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id := os.Getenv("TELEGRAM_CHAT_ID"); id != "" {
		fmt.Sscanf(id, "%d", &c.TelegramChatID)
	}
	c.TwelveDataKey = os.Getenv("TWELVE_DATA_KEY")
	c.FinnhubKey = os.Getenv("FINNHUB_KEY")
	c.AlphaVantageKey = os.Getenv("ALPHA_VANTAGE_KEY")
	c.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	c.NewsDataKey = os.Getenv("NEWSDATA_KEY")
}
