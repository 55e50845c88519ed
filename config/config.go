package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// JWT
	JWTSecret        string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration

	// AWS S3 (report archives)
	AWSRegion    string
	S3BucketName string

	// Server
	Port   string
	AppEnv string

	// Reports
	ReportDir string

	// Logging
	LogLevel string
	LogFile  string

	// Feature Toggles
	UseRedisActivityLog bool
	EnableReminderCron  bool
	UploadReportsToS3   bool
	SkipMigrate         bool
}

func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local"
}

var AppConfig *Config

func LoadConfig() {
	useSSM := getEnv("USE_SSM", "false") == "true"

	var paramMap map[string]string

	// Stage & base path for SSM (allows multi-env without code changes)
	basePath := getEnv("SSM_BASE_PATH", "/schooladmin")
	stage := getEnv("STAGE", getEnv("APP_ENV", "production"))
	prefix := strings.TrimRight(basePath, "/") + "/" + stage

	if useSSM {
		sess, err := session.NewSession(&aws.Config{Region: aws.String(getEnv("AWS_REGION", "ap-southeast-1"))})
		if err != nil {
			log.Fatal("Failed to create AWS session:", err)
		}
		log.Printf("Using AWS SSM Parameter Store (prefix=%s)", prefix)
		paramMap = fetchSSMParameters(ssm.New(sess), prefix)
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, using environment variables")
		}
	}

	// Helper accessor respecting map / env fallback
	getVal := func(key, def string) string {
		if useSSM {
			uk := strings.ToUpper(key)
			if v, ok := paramMap[uk]; ok && v != "" {
				return v
			}
		}
		return getEnv(strings.ToUpper(key), def)
	}

	accessExpires := parseDurationShorthand(getVal("ACCESS_TOKEN_EXPIRES_IN", "1h"))
	refreshExpires := parseDurationShorthand(getVal("REFRESH_TOKEN_EXPIRES_IN", "7d"))

	AppConfig = &Config{
		DBHost:     getVal("DB_HOST", "localhost"),
		DBPort:     getVal("DB_PORT", "3306"),
		DBUser:     getVal("DB_USER", "root"),
		DBPassword: getVal("DB_PASSWORD", ""),
		DBName:     getVal("DB_NAME", "schooladmin"),

		RedisHost:     getVal("REDIS_HOST", "localhost"),
		RedisPort:     getVal("REDIS_PORT", "6379"),
		RedisPassword: getVal("REDIS_PASSWORD", ""),

		JWTSecret:        getVal("JWT_SECRET", "your_super_secret_jwt_key"),
		AccessExpiresIn:  accessExpires,
		RefreshExpiresIn: refreshExpires,

		AWSRegion:    getVal("AWS_REGION", "ap-southeast-1"),
		S3BucketName: getVal("S3_BUCKET_NAME", "schooladmin-reports"),

		Port:   getVal("PORT", "3000"),
		AppEnv: getVal("APP_ENV", "development"),

		ReportDir: getVal("REPORT_DIR", "reports"),

		LogLevel: getVal("LOG_LEVEL", "info"),
		LogFile:  getVal("LOG_FILE", "logs/app.log"),

		UseRedisActivityLog: strings.ToLower(getVal("USE_REDIS_ACTIVITY_LOG", "true")) == "true",
		EnableReminderCron:  strings.ToLower(getVal("ENABLE_REMINDER_CRON", "true")) == "true",
		UploadReportsToS3:   strings.ToLower(getVal("UPLOAD_REPORTS_TO_S3", "false")) == "true",
		SkipMigrate:         strings.ToLower(getVal("SKIP_MIGRATE", "false")) == "true",
	}

	validateConfig(AppConfig, useSSM)
}

// parseDurationShorthand parses Go durations plus "Nd"/"Nw" shorthand.
func parseDurationShorthand(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err == nil {
		return d
	}
	trimmed := strings.TrimSpace(strings.ToLower(s))
	if len(trimmed) > 1 {
		unit := trimmed[len(trimmed)-1]
		if n, err2 := time.ParseDuration(trimmed[:len(trimmed)-1] + "h"); err2 == nil {
			switch unit {
			case 'd':
				return n * 24
			case 'w':
				return n * 24 * 7
			}
		}
	}
	log.Fatalf("Invalid duration format: %s", s)
	return 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// fetchSSMParameters reads all parameters under prefix and returns map with UPPERCASE keys.
func fetchSSMParameters(client *ssm.SSM, prefix string) map[string]string {
	out := make(map[string]string)
	next := aws.String("")
	for {
		in := &ssm.GetParametersByPathInput{
			Path:           aws.String(prefix),
			WithDecryption: aws.Bool(true),
			Recursive:      aws.Bool(true),
		}
		if *next != "" {
			in.NextToken = next
		}
		resp, err := client.GetParametersByPath(in)
		if err != nil {
			log.Printf("Warning: unable to fetch SSM parameters for prefix %s: %v", prefix, err)
			break
		}
		for _, p := range resp.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			name := *p.Name
			key := name
			if idx := strings.LastIndex(name, "/"); idx >= 0 {
				key = name[idx+1:]
			}
			if key == "" {
				continue
			}
			out[strings.ToUpper(key)] = *p.Value
		}
		if resp.NextToken == nil || *resp.NextToken == "" {
			break
		}
		next = resp.NextToken
	}
	return out
}

func validateConfig(c *Config, usedSSM bool) {
	// Only enforce stricter rules in production
	if strings.ToLower(c.AppEnv) != "production" {
		return
	}
	required := map[string]string{
		"DB_PASSWORD": c.DBPassword,
		"JWT_SECRET":  c.JWTSecret,
	}
	for k, v := range required {
		if strings.TrimSpace(v) == "" {
			log.Fatalf("Missing required secret %s in production (SSM=%v)", k, usedSSM)
		}
	}
	if len(c.JWTSecret) < 16 {
		log.Fatal("JWT_SECRET too short (min 16 chars)")
	}
}
