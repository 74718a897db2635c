package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/safereport/safereport-api/models"
)

// Config holds the project config values
type Config struct {
	URL           string
	DatabaseName  string
	BaseURL       string
	Port          string
	CloudinaryURL string
	MapboxToken   string
	GeminiAPIKey  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	SendgridAPIToken string
	AdminEmail       string

	ChatBackend      string // "store" or "cometchat"
	CometChatAppID   string
	CometChatRegion  string
	CometChatAPIKey  string
	SOSOfficerFanout int64
}

// New sets up all config related services
func New() *Config {

	// load .env in dev; in production the environment is already populated
	_ = godotenv.Load()

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:              os.Getenv("DB_URI"),
		DatabaseName:     os.Getenv("DB_NAME"),
		BaseURL:          os.Getenv("BASE_URL"),
		Port:             os.Getenv("PORT"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		MapboxToken:      os.Getenv("MAPBOX_TOKEN"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		SendgridAPIToken: os.Getenv("SENDGRID_API_TOKEN"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		ChatBackend:      chatBackend(),
		CometChatAppID:   os.Getenv("COMETCHAT_APP_ID"),
		CometChatRegion:  os.Getenv("COMETCHAT_REGION"),
		CometChatAPIKey:  os.Getenv("COMETCHAT_API_KEY"),
		SOSOfficerFanout: sosOfficerFanout(),
	}

}

func chatBackend() string {
	backend := os.Getenv("CHAT_BACKEND")
	if backend == "" {
		return "store"
	}
	return backend
}

func sosOfficerFanout() int64 {
	n, err := strconv.ParseInt(os.Getenv("SOS_OFFICER_FANOUT"), 10, 64)
	if err != nil || n <= 0 {
		return 3
	}
	return n
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{Message: message, Error: err.Error()}})
	w.Write(b)
	return
}
