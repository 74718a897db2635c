package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/safereport/safereport-api/api"
	"github.com/safereport/safereport-api/api/chat"
	"github.com/safereport/safereport-api/api/scheduler"
	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/geo"
	"github.com/safereport/safereport-api/models"
	"github.com/safereport/safereport-api/notify"
	"github.com/safereport/safereport-api/storage"
	"github.com/safereport/safereport-api/vision"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	DB        databases.CollectionHelper
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
	store     *storage.Store
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	validate := validator.New()
	geocoder := geo.NewGeocoder(a.Config.MapboxToken)
	describer := vision.NewDescriber(a.Config.GeminiAPIKey)
	smsSender := notify.NewTwilioSender(&a.Config)
	chatHub := chat.NewHub()
	chatService := chat.New(&a.Config, databases.NewMessageDatabase(a.dbHelper), chatHub)

	report := Report{
		RDB:      databases.NewReportDatabase(a.dbHelper),
		EDB:      databases.NewEvidenceDatabase(a.dbHelper),
		SDB:      databases.NewStatusUpdateDatabase(a.dbHelper),
		UDB:      databases.NewUserDatabase(a.dbHelper),
		ODB:      databases.NewOfficerDatabase(a.dbHelper),
		PDB:      databases.NewPendingReportDatabase(a.dbHelper),
		Store:    a.store,
		Vision:   describer,
		Validate: validate,
	}
	sos := SOS{
		RDB:    databases.NewReportDatabase(a.dbHelper),
		SDB:    databases.NewStatusUpdateDatabase(a.dbHelper),
		CDB:    databases.NewContactDatabase(a.dbHelper),
		ODB:    databases.NewOfficerDatabase(a.dbHelper),
		NDB:    databases.NewNotificationDatabase(a.dbHelper),
		Geo:    geocoder,
		SMS:    smsSender,
		Config: &a.Config,
	}
	contact := Contact{CDB: databases.NewContactDatabase(a.dbHelper), Validate: validate}
	officer := Officer{ODB: databases.NewOfficerDatabase(a.dbHelper)}
	message := Message{RDB: databases.NewReportDatabase(a.dbHelper), Chat: chatService, Validate: validate}
	sms := SMS{Sender: smsSender}
	u := User{DB: databases.NewUserDatabase(a.dbHelper), NDB: databases.NewNotificationDatabase(a.dbHelper), Validate: validate}
	evidence := Evidence{EDB: databases.NewEvidenceDatabase(a.dbHelper), Store: a.store}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/check-user", http.HandlerFunc(u.UserCheckEmailHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}/notifications", api.Middleware(http.HandlerFunc(u.GetUserNotificationsHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}/notifications/{notification_id}/read", api.Middleware(http.HandlerFunc(u.MarkNotificationAsReadHandler))).Methods("PUT")
	apiCreate.Handle("/user/{user_id}/notifications/{notification_id}", api.Middleware(http.HandlerFunc(u.DeleteNotificationHandler))).Methods("DELETE")

	apiCreate.Handle("/report", api.Middleware(http.HandlerFunc(report.CreateReportHandler))).Methods("POST")
	apiCreate.Handle("/reports/recent", api.Middleware(http.HandlerFunc(report.RecentReportsHandler))).Methods("GET")
	apiCreate.Handle("/report/pending", http.HandlerFunc(report.CreatePendingReportHandler)).Methods("POST")
	apiCreate.Handle("/report/pending/{token}", api.Middleware(http.HandlerFunc(report.ReplayPendingReportHandler))).Methods("POST")
	apiCreate.Handle("/report/{report_id}/status", api.Middleware(http.HandlerFunc(report.ReportStatusHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}/status", api.OfficerMiddleware(http.HandlerFunc(report.AppendStatusHandler))).Methods("POST")
	apiCreate.Handle("/report/{report_id}/officer-location", api.Middleware(http.HandlerFunc(report.OfficerLocationHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}/messages", api.Middleware(http.HandlerFunc(message.SendMessageHandler))).Methods("POST")
	apiCreate.Handle("/report/{report_id}/messages", api.Middleware(http.HandlerFunc(message.MessageHistoryHandler))).Methods("GET")

	apiCreate.Handle("/evidence", api.Middleware(http.HandlerFunc(evidence.UploadEvidenceHandler))).Methods("POST")

	apiCreate.Handle("/sos", api.Middleware(http.HandlerFunc(sos.SOSHandler))).Methods("POST")

	apiCreate.Handle("/contacts", api.Middleware(http.HandlerFunc(contact.ListContactsHandler))).Methods("GET")
	apiCreate.Handle("/contacts", api.Middleware(http.HandlerFunc(contact.CreateContactHandler))).Methods("POST")
	apiCreate.Handle("/contacts/{contact_id}", api.Middleware(http.HandlerFunc(contact.DeleteContactHandler))).Methods("DELETE")

	apiCreate.Handle("/officer/login", http.HandlerFunc(officer.OfficerLoginHandler)).Methods("POST")
	apiCreate.Handle("/officers/nearby", api.Middleware(http.HandlerFunc(officer.NearbyOfficersHandler))).Methods("GET")
	apiCreate.Handle("/officers/availability", api.OfficerMiddleware(http.HandlerFunc(officer.UpdateAvailabilityHandler))).Methods("PUT")

	apiCreate.Handle("/send-sms", api.Middleware(http.HandlerFunc(sms.SendSMSHandler))).Methods("POST")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	apiCreate.HandleFunc("/ws/alerts", HandleAlertsWebSocket)
	apiCreate.HandleFunc("/ws/chat", chatHub.HandleWebSocket)

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("safereport-api has connected to the database")

	a.store, err = storage.NewStore(a.Config.CloudinaryURL)
	if err != nil {
		zap.S().With(err).Error("failed to initialize evidence store")
		return err
	}

	a.Scheduler = scheduler.NewScheduler(
		databases.NewReportDatabase(a.dbHelper),
		databases.NewStatusUpdateDatabase(a.dbHelper),
		databases.NewEvidenceDatabase(a.dbHelper),
		databases.NewNotificationDatabase(a.dbHelper),
		databases.NewPendingReportDatabase(a.dbHelper),
		a.store,
		&a.Config,
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
