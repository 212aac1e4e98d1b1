// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/internportal/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (register, login, refused password login).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin actions (internship/task CRUD, assignment, decisions).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// IsValidSetting reports whether s is one of the accepted destination values.
func IsValidSetting(s string) bool {
	switch s {
	case "all", "db", "log", "off":
		return true
	}
	return false
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// Registered logs a successful self-registration.
func (l *Logger) Registered(ctx context.Context, r *http.Request, userID primitive.ObjectID, role, username string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRegistered,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details: map[string]string{
			"role":     role,
			"username": username,
		},
	})
}

// RegistrationFailed logs a rejected registration attempt.
func (l *Logger) RegistrationFailed(ctx context.Context, r *http.Request, username, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventRegistrationFailed,
		IP:            getClientIP(r),
		UserAgent:     userAgent(r),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"username": username},
	})
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"auth_method": authMethod},
	})
}

// LoginFailed logs a failed login. reason is a taxonomy code, never provider detail.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		IP:            getClientIP(r),
		UserAgent:     userAgent(r),
		Success:       false,
		FailureReason: reason,
	})
}

// PasswordLoginRefused logs a call to the disabled password endpoint.
func (l *Logger) PasswordLoginRefused(ctx context.Context, r *http.Request) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventPasswordLoginRefused,
		IP:            getClientIP(r),
		UserAgent:     userAgent(r),
		Success:       false,
		FailureReason: "method_not_supported",
	})
}

// --- Admin Events ---

// AdminAction logs a successful admin mutation. subjectID is the affected
// user, if any; ids of other entities belong in details.
func (l *Logger) AdminAction(ctx context.Context, r *http.Request, actorID primitive.ObjectID, eventType string, subjectID *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		UserID:    subjectID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   details,
	})
}

// InternshipCreated logs creation of an internship.
func (l *Logger) InternshipCreated(ctx context.Context, r *http.Request, actorID, internshipID primitive.ObjectID, title string) {
	l.AdminAction(ctx, r, actorID, audit.EventInternshipCreated, nil, map[string]string{
		"internship_id": internshipID.Hex(),
		"title":         title,
	})
}

// InternshipDeleted logs a cascading internship delete.
func (l *Logger) InternshipDeleted(ctx context.Context, r *http.Request, actorID, internshipID primitive.ObjectID) {
	l.AdminAction(ctx, r, actorID, audit.EventInternshipDeleted, nil, map[string]string{
		"internship_id": internshipID.Hex(),
	})
}

// InternshipUpdated logs an internship edit.
func (l *Logger) InternshipUpdated(ctx context.Context, r *http.Request, actorID, internshipID primitive.ObjectID, status string) {
	l.AdminAction(ctx, r, actorID, audit.EventInternshipUpdated, nil, map[string]string{
		"internship_id": internshipID.Hex(),
		"status":        status,
	})
}

// TaskCreated logs creation of a task under an internship.
func (l *Logger) TaskCreated(ctx context.Context, r *http.Request, actorID, taskID, internshipID primitive.ObjectID) {
	l.AdminAction(ctx, r, actorID, audit.EventTaskCreated, nil, map[string]string{
		"task_id":       taskID.Hex(),
		"internship_id": internshipID.Hex(),
	})
}

// TaskUpdated logs a task edit.
func (l *Logger) TaskUpdated(ctx context.Context, r *http.Request, actorID, taskID primitive.ObjectID) {
	l.AdminAction(ctx, r, actorID, audit.EventTaskUpdated, nil, map[string]string{
		"task_id": taskID.Hex(),
	})
}

// TaskDeleted logs a cascading task delete.
func (l *Logger) TaskDeleted(ctx context.Context, r *http.Request, actorID, taskID primitive.ObjectID, removedAssignments int64) {
	l.AdminAction(ctx, r, actorID, audit.EventTaskDeleted, nil, map[string]string{
		"task_id":             taskID.Hex(),
		"removed_assignments": strconv.FormatInt(removedAssignments, 10),
	})
}

// AssignmentStatusSet logs an admin status change; the internee holding
// the assignment is the affected user.
func (l *Logger) AssignmentStatusSet(ctx context.Context, r *http.Request, actorID, assignmentID, interneeID primitive.ObjectID, status string) {
	l.AdminAction(ctx, r, actorID, audit.EventAssignmentStatusSet, &interneeID, map[string]string{
		"assignment_id": assignmentID.Hex(),
		"status":        status,
	})
}

// TaskAssigned logs a task being assigned to an internee.
func (l *Logger) TaskAssigned(ctx context.Context, r *http.Request, actorID, taskID, interneeID primitive.ObjectID) {
	l.AdminAction(ctx, r, actorID, audit.EventTaskAssigned, &interneeID, map[string]string{
		"task_id": taskID.Hex(),
	})
}

// ApplicationDecided logs an approve or reject decision.
func (l *Logger) ApplicationDecided(ctx context.Context, r *http.Request, actorID, applicationID, interneeID primitive.ObjectID, status string) {
	l.AdminAction(ctx, r, actorID, audit.EventApplicationDecided, &interneeID, map[string]string{
		"application_id": applicationID.Hex(),
		"status":         status,
	})
}
