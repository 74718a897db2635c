package scheduler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/safereport/safereport-api/config"
	"github.com/safereport/safereport-api/databases"
	"github.com/safereport/safereport-api/models"
	"github.com/safereport/safereport-api/notify"
	templates "github.com/safereport/safereport-api/templates/html"
)

const (
	staleReportAge = 48 * time.Hour
	orphanAge      = 24 * time.Hour
	pendingMaxAge  = 7 * 24 * time.Hour
)

// ObjectStore is the slice of the evidence store the sweeper needs
type ObjectStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, string, error)
	Destroy(ctx context.Context, publicID string)
}

// Scheduler runs periodic maintenance: stale-report escalation, orphaned
// evidence sweep, and pending-stash cleanup
type Scheduler struct {
	cron  *cron.Cron
	RDB   databases.ReportDatabase
	SDB   databases.StatusUpdateDatabase
	EDB   databases.EvidenceDatabase
	NDB   databases.NotificationDatabase
	PDB   databases.PendingReportDatabase
	Store ObjectStore
	Conf  *config.Config
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	rDB databases.ReportDatabase,
	sDB databases.StatusUpdateDatabase,
	eDB databases.EvidenceDatabase,
	nDB databases.NotificationDatabase,
	pDB databases.PendingReportDatabase,
	store ObjectStore,
	conf *config.Config,
) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		RDB:   rDB,
		SDB:   sDB,
		EDB:   eDB,
		NDB:   nDB,
		PDB:   pDB,
		Store: store,
		Conf:  conf,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Escalate untouched reports daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.escalateStaleReports)
	if err != nil {
		zap.S().Errorw("failed to register escalation job", "error", err)
	}

	// Sweep orphaned evidence and stale pending stashes daily at 4 AM UTC
	_, err = s.cron.AddFunc("0 4 * * *", s.sweepOrphans)
	if err != nil {
		zap.S().Errorw("failed to register orphan sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("maintenance scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("maintenance scheduler stopped")
}

// escalateStaleReports flags reports still in received state after 48h:
// one notification row to the assigned officer plus a digest email to the
// admin inbox
func (s *Scheduler) escalateStaleReports() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := primitive.NewDateTimeFromTime(time.Now().Add(-staleReportAge))
	reports, err := s.RDB.Find(ctx, bson.M{
		"status":     models.StatusReceived,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		zap.S().Errorw("failed to find stale reports", "error", err)
		return
	}
	if len(reports) == 0 {
		zap.S().Debug("no stale reports to escalate")
		return
	}

	for _, report := range reports {
		if report.AssignedOfficer == "" {
			continue
		}
		err := s.NDB.InsertOne(ctx, models.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    report.AssignedOfficer,
			ReportID:  report.ID,
			Title:     "Report awaiting review",
			Body:      fmt.Sprintf("Report %s has been in the received queue for over 48 hours.", report.ID.Hex()),
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		})
		if err != nil {
			zap.S().Errorw("failed to save escalation notification", "report_id", report.ID.Hex(), "error", err)
		}
	}

	if s.Conf.AdminEmail != "" {
		subject := fmt.Sprintf("%d reports awaiting review for over 48 hours", len(reports))
		html := templates.RenderGenericEmail("Stale report digest",
			fmt.Sprintf("There are %d reports that have been in the received queue for over 48 hours.", len(reports)))
		err := notify.SendEmail(s.Conf.SendgridAPIToken, s.Conf.AdminEmail, "SafeReport Admin", subject, html, subject)
		if err != nil {
			zap.S().Errorw("failed to send escalation digest", "error", err)
		}
	}

	zap.S().Infow("escalation job complete", "staleReports", len(reports))
}

// sweepOrphans destroys evidence uploaded standalone but never attached to
// a report within 24h, and drops pending stashes nobody replayed
func (s *Scheduler) sweepOrphans() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cutoff := primitive.NewDateTimeFromTime(time.Now().Add(-orphanAge))
	filter := bson.M{
		"report_id":  primitive.NilObjectID,
		"created_at": bson.M{"$lt": cutoff},
	}

	orphans, err := s.EDB.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to find orphaned evidence", "error", err)
		return
	}
	for _, orphan := range orphans {
		s.Store.Destroy(ctx, orphan.FilePath)
	}
	deleted, err := s.EDB.DeleteMany(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to delete orphaned evidence rows", "error", err)
	}

	pendingCutoff := primitive.NewDateTimeFromTime(time.Now().Add(-pendingMaxAge))
	expired, err := s.PDB.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": pendingCutoff}})
	if err != nil {
		zap.S().Errorw("failed to delete expired pending reports", "error", err)
	}

	zap.S().Infow("orphan sweep complete", "evidenceDeleted", deleted, "pendingExpired", expired)
}
