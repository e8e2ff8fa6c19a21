package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBDriver      string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	DBMaxRetries  int
	Port          string
	AppAuthKey    string
	AppEncKey     string
	APP_URL       string
	APP_ENV       string
	MediaRoot     string
	MediaURL      string
	DefaultImage  string
	AdminLanguage string
	Site          SiteConfig
}

func (e ENV) IsProduction() bool {
	return e.APP_ENV == "production"
}

func (e ENV) IsDevelopment() bool {
	return e.APP_ENV == "" || e.APP_ENV == "development"
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        getEnv("DB_NAME", "catalog"),
		DBPort:        os.Getenv("DB_PORT"),
		DBMaxRetries:  getEnvInt("DB_MAX_RETRIES", 10),
		Port:          getEnv("APP_PORT", ":8000"),
		AppAuthKey:    os.Getenv("APP_AUTH_KEY"),
		AppEncKey:     os.Getenv("APP_ENC_KEY"),
		APP_URL:       os.Getenv("APP_URL"),
		APP_ENV:       os.Getenv("APP_ENV"),
		MediaRoot:     getEnv("MEDIA_ROOT", "media"),
		MediaURL:      getEnv("MEDIA_URL", "/media/"),
		DefaultImage:  getEnv("DEFAULT_IMAGE", "product/default.png"),
		AdminLanguage: getEnv("ADMIN_LANGUAGE", "en"),
		Site: SiteConfig{
			SiteTitle:  getEnv("SITE_TITLE", DefaultSiteConfig.SiteTitle),
			SiteHeader: getEnv("SITE_HEADER", DefaultSiteConfig.SiteHeader),
			IndexTitle: getEnv("INDEX_TITLE", DefaultSiteConfig.IndexTitle),
		},
	}

}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}
