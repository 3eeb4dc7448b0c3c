package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultPersona = `You are a supportive and empathetic AI counselor for teens. Your responses should be:
- Short and conversational (2-3 sentences max)
- Warm and gentle, like talking to a friend
- Show genuine care and understanding
- Include gentle follow-up questions
- Use simple, everyday language
- Avoid clinical or formal language
- Be encouraging but not overly optimistic
- End with a gentle reminder that they're not alone

Example responses:
"That sounds really hard. Would you like to talk more about what's making you feel this way? 💜"
"I hear you. It's okay to feel like this sometimes. Want to share what happened today? 💜"
"I'm here for you. What do you think would help you feel better right now? 💜"`

const defaultFallbackReply = "I'm here to support you. 💜"

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string
	DBMaxConns  int
	DBMinConns  int

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string

	// Chat
	ChatTemperature    float32
	ChatMaxTokens      int
	ChatHistoryLimit   int
	ChatSessionTTL     time.Duration // 0 = one lifetime conversation per user
	ChatConcurrentReqs int
	ChatPersona        string
	ChatFallbackReply  string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBMaxConns:  getEnvAsIntOrDefault("DB_MAX_CONNS", 25),
		DBMinConns:  getEnvAsIntOrDefault("DB_MIN_CONNS", 5),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		OpenAIAPIKey: mustGetEnv("OPENAI_API_KEY"),
		OpenAIModel:  getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),

		ChatTemperature:    getEnvAsFloatOrDefault("CHAT_TEMPERATURE", 0.8),
		ChatMaxTokens:      getEnvAsIntOrDefault("CHAT_MAX_TOKENS", 150),
		ChatHistoryLimit:   getEnvAsIntOrDefault("CHAT_HISTORY_LIMIT", 50),
		ChatSessionTTL:     getEnvAsDurationOrDefault("CHAT_SESSION_TTL", 0),
		ChatConcurrentReqs: getEnvAsIntOrDefault("CHAT_CONCURRENT_REQUESTS", 5),
		ChatPersona:        getEnvOrDefault("CHAT_PERSONA", defaultPersona),
		ChatFallbackReply:  getEnvOrDefault("CHAT_FALLBACK_REPLY", defaultFallbackReply),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float32) float32 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return defaultVal
	}
	return float32(f)
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
