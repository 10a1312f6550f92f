package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("CARDWATCH_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("CARDWATCH_JWT_ISSUER")
	if issuer == "" {
		issuer = "cardwatch"
	}

	dur := 24 * time.Hour
	if ttl := os.Getenv("CARDWATCH_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			dur = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: dur,
	}
}

type ServerConfig struct {
	Addr string
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("CARDWATCH_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return ServerConfig{Addr: addr}
}

// CacheConfig selects the cache backend. Backend is "memory" or "redis".
type CacheConfig struct {
	Backend   string
	RedisAddr string
	TTL       time.Duration
}

func LoadCacheConfig() CacheConfig {
	backend := os.Getenv("CARDWATCH_CACHE")
	if backend == "" {
		backend = "memory"
	}

	redisAddr := os.Getenv("CARDWATCH_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	// fixed 1h discovery TTL; override is for tests/dev only
	ttl := time.Hour
	if s := os.Getenv("CARDWATCH_CACHE_TTL_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
	}

	return CacheConfig{Backend: backend, RedisAddr: redisAddr, TTL: ttl}
}

type SMTPConfig struct {
	Host string
	Port string
}

func LoadSMTPConfig() SMTPConfig {
	host := os.Getenv("CARDWATCH_SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("CARDWATCH_SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return SMTPConfig{Host: host, Port: port}
}
