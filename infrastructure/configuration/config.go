package configuration

import (
	"fmt"
	"os"
	"strconv"

	"page-scheduler/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Pubsub      Pubsub      `json:"pubsub"`
	Facebook    Facebook    `json:"facebook"`
	Scheduler   Scheduler   `json:"scheduler"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

// Facebook holds the Graph app identity and OAuth settings.
type Facebook struct {
	AppID       string `json:"appId"`
	AppSecret   string `json:"appSecret"`
	RedirectURI string `json:"redirectURI"`
	GraphURL    string `json:"graphURL"` // overridable for tests
}

// Scheduler holds the background loop cadences and retry policy knobs.
type Scheduler struct {
	DispatchIntervalSeconds int `json:"dispatchIntervalSeconds"`
	RefreshIntervalHours    int `json:"refreshIntervalHours"`
	RefreshThresholdDays    int `json:"refreshThresholdDays"`
	MaxRetries              int `json:"maxRetries"`
	RetryDelayMinutes       int `json:"retryDelayMinutes"`
	WorkerLimit             int `json:"workerLimit"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initFacebook(&C)
	initScheduler(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
	if C.Database.Psql.SSLMode == "" {
		C.Database.Psql.SSLMode = os.Getenv("DB_SSLMODE")
	}
	if C.Database.Psql.SSLMode == "" {
		C.Database.Psql.SSLMode = "disable"
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment overrides the config file when provided
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10002
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10002
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initFacebook(C *Config) {
	if v := os.Getenv("FB_APP_ID"); v != "" {
		C.Facebook.AppID = v
	}
	if v := os.Getenv("FB_APP_SECRET"); v != "" {
		C.Facebook.AppSecret = v
	}
	if v := os.Getenv("FB_REDIRECT_URI"); v != "" {
		C.Facebook.RedirectURI = v
	}
	if C.Facebook.GraphURL == "" {
		C.Facebook.GraphURL = "https://graph.facebook.com/v19.0"
	}
}

func initScheduler(C *Config) {
	if C.Scheduler.DispatchIntervalSeconds <= 0 {
		C.Scheduler.DispatchIntervalSeconds = 60
	}
	if C.Scheduler.RefreshIntervalHours <= 0 {
		C.Scheduler.RefreshIntervalHours = 24
	}
	if C.Scheduler.RefreshThresholdDays <= 0 {
		C.Scheduler.RefreshThresholdDays = 30
	}
	if C.Scheduler.MaxRetries <= 0 {
		C.Scheduler.MaxRetries = 3
	}
	if C.Scheduler.RetryDelayMinutes <= 0 {
		C.Scheduler.RetryDelayMinutes = 5
	}
	if C.Scheduler.WorkerLimit <= 0 {
		C.Scheduler.WorkerLimit = 4
	}
}
