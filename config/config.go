package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV string
	// Backend endpoints
	ORDER_API_URL      string
	SUBMISSION_API_URL string
	// Razorpay Configuration
	RAZORPAY_KEY_ID string
	// Pricing
	PAYMENT_PER_PERSON int
	// Journal storage
	STORAGE_PATH string
	RECEIPT_DIR  string
	// Redis Configuration (optional journal backend)
	REDIS_URL      string
	REDIS_PASSWORD string
	REDIS_DB       string
	// Timeouts (seconds); CHECKOUT_TIMEOUT_SECONDS = 0 waits forever
	HTTP_TIMEOUT_SECONDS     int
	CHECKOUT_TIMEOUT_SECONDS int
	// DigitalOcean Spaces (optional receipt archive)
	DO_SPACES_KEY      string
	DO_SPACES_SECRET   string
	DO_SPACES_BUCKET   string
	DO_SPACES_REGION   string
	DO_SPACES_ENDPOINT string
}

func Get() (*EnviornmentVariable, error) {

	perPerson, err := strconv.Atoi(os.Getenv("PAYMENT_PER_PERSON"))
	if err != nil || perPerson <= 0 {
		perPerson = 1
	}

	httpTimeout, err := strconv.Atoi(os.Getenv("HTTP_TIMEOUT_SECONDS"))
	if err != nil || httpTimeout <= 0 {
		httpTimeout = 30
	}

	checkoutTimeout, err := strconv.Atoi(os.Getenv("CHECKOUT_TIMEOUT_SECONDS"))
	if err != nil || checkoutTimeout < 0 {
		checkoutTimeout = 0
	}

	// Endpoint defaults
	orderURL := os.Getenv("ORDER_API_URL")
	if orderURL == "" {
		orderURL = "https://apvcouncil.in/api/create_order2.php"
	}

	submissionURL := os.Getenv("SUBMISSION_API_URL")
	if submissionURL == "" {
		submissionURL = "https://apvcouncil.in/api/submission_handler.php"
	}

	razorpayKey := os.Getenv("RAZORPAY_KEY_ID")
	if razorpayKey == "" {
		razorpayKey = "rzp_test_1DP5mmOlF5G1ag"
	}

	storagePath := os.Getenv("STORAGE_PATH")
	if storagePath == "" {
		storagePath = "./data"
	}

	receiptDir := os.Getenv("RECEIPT_DIR")
	if receiptDir == "" {
		receiptDir = "./receipts"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:             os.Getenv("GO_ENV"),
		ORDER_API_URL:      orderURL,
		SUBMISSION_API_URL: submissionURL,
		RAZORPAY_KEY_ID:    razorpayKey,
		PAYMENT_PER_PERSON: perPerson,
		STORAGE_PATH:       storagePath,
		RECEIPT_DIR:        receiptDir,
		// Redis
		REDIS_URL:      os.Getenv("REDIS_URL"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:       os.Getenv("REDIS_DB"),
		// Timeouts
		HTTP_TIMEOUT_SECONDS:     httpTimeout,
		CHECKOUT_TIMEOUT_SECONDS: checkoutTimeout,
		// DigitalOcean Spaces
		DO_SPACES_KEY:      os.Getenv("DO_SPACES_KEY"),
		DO_SPACES_SECRET:   os.Getenv("DO_SPACES_SECRET"),
		DO_SPACES_BUCKET:   os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:   os.Getenv("DO_SPACES_REGION"),
		DO_SPACES_ENDPOINT: os.Getenv("DO_SPACES_ENDPOINT"),
	}

	return envVariables, nil
}
