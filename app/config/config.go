package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB     *sql.DB
	JWT    JWTConfig
	Getnet GetnetConfig
	Mail   MailConfig
}

type JWTConfig struct {
	Secret string
}

// GetnetConfig holds the Web Checkout integration settings. All values are
// environment-supplied; the API and checkout hosts differ between the
// sandbox and production environments.
type GetnetConfig struct {
	APIBaseURL       string
	CheckoutBaseURL  string
	Login            string
	Trankey          string
	ReturnURL        string
	NotificationURL  string
	CreateRequestURL string
	QueryRequestURL  string
	// WebhookSecret enables HMAC verification of webhook bodies when set.
	// The sandbox does not sign notifications, so it may be left empty.
	WebhookSecret string
}

type MailConfig struct {
	SendgridAPIKey string
	FromEmail      string
	FromName       string
}

var AppConfig *Config

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (if present), opens the database pool and materializes
// AppConfig. It must be called before any handler runs.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db := initDB()

	apiBase := getenv("GETNET_BASE_URL_API", "https://checkout.test.getnet.cl")
	AppConfig = &Config{
		DB: db,
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET", "intranet-csah-secret-key"),
		},
		Getnet: GetnetConfig{
			APIBaseURL:       apiBase,
			CheckoutBaseURL:  getenv("GETNET_BASE_URL_CHECKOUT", "https://checkout.test.getnet.cl"),
			Login:            os.Getenv("GETNET_LOGIN"),
			Trankey:          os.Getenv("GETNET_TRANKEY"),
			ReturnURL:        os.Getenv("GETNET_RETURN_URL"),
			NotificationURL:  os.Getenv("GETNET_NOTIFICATION_URL"),
			CreateRequestURL: getenv("GETNET_API_CREATE_REQUEST", apiBase+"/api/session"),
			QueryRequestURL:  getenv("GETNET_API_QUERY_REQUEST", apiBase+"/api/session"),
			WebhookSecret:    os.Getenv("GETNET_WEBHOOK_SECRET"),
		},
		Mail: MailConfig{
			SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromEmail:      getenv("MAIL_FROM_EMAIL", "no-reply@csah.cl"),
			FromName:       getenv("MAIL_FROM_NAME", "Intranet CSAH"),
		},
	}
	log.Println("Configuration loaded")
}

func initDB() *sql.DB {
	host := getenv("DB_HOST", "localhost")
	port, err := strconv.Atoi(getenv("DB_PORT", "5432"))
	if err != nil {
		log.Fatal("Invalid DB_PORT:", err)
	}
	user := getenv("DB_USER", "postgres")
	password := os.Getenv("DB_PASSWORD")
	dbname := getenv("DB_NAME", "intranet")
	sslmode := getenv("DB_SSLMODE", "disable")

	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s connect_timeout=10",
		host, port, user, dbname, sslmode)
	if password != "" {
		psqlInfo += " password=" + password
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection: ", err)
	}
	log.Println("Database connected successfully")
	return db
}

func GetDB() *sql.DB {
	return AppConfig.DB
}
