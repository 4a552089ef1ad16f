package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	"github.com/nlcorner/admin-api/pkg/jobs"
)

// NotificationEvent is a rendered notification template ready for delivery.
type NotificationEvent struct {
	Type      models.NotificationType
	Title     string
	Message   string
	TargetURL string
}

type notificationCreator interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Notifier delivers server-side notification events best-effort via the
// in-memory job queue. Publish never fails the triggering operation; every
// delivery failure is logged and swallowed.
type Notifier struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NotifierConfig tunes the delivery queue.
type NotifierConfig struct {
	Workers    int
	BufferSize int
}

// NewNotifier constructs a Notifier writing through the given repository.
func NewNotifier(repo notificationCreator, cfg NotifierConfig, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := func(ctx context.Context, job jobs.Job) error {
		event, ok := job.Payload.(NotificationEvent)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		notification := &models.Notification{
			Type:    event.Type,
			Title:   event.Title,
			Message: event.Message,
		}
		if event.TargetURL != "" {
			url := event.TargetURL
			notification.TargetURL = &url
		}
		return repo.Create(ctx, notification)
	}

	queue := jobs.NewQueue("notifications", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: 1,
		Logger:     logger,
	})

	return &Notifier{queue: queue, logger: logger}
}

// Start launches the delivery workers.
func (n *Notifier) Start(ctx context.Context) {
	n.queue.Start(ctx)
}

// Stop drains the workers.
func (n *Notifier) Stop() {
	n.queue.Stop()
}

// Publish enqueues an event. Failures are logged, never returned.
func (n *Notifier) Publish(event NotificationEvent) {
	err := n.queue.Enqueue(jobs.Job{Type: string(event.Type), Payload: event})
	if err != nil {
		n.logger.Warn("notification publish failed", zap.String("title", event.Title), zap.Error(err))
	}
}

// Predefined notification templates for common dashboard events.

// NewStudentRegistration announces one or more fresh registrations.
func NewStudentRegistration(studentName string, count int) NotificationEvent {
	message := fmt.Sprintf("%s has registered", studentName)
	if count > 1 {
		message = fmt.Sprintf("%d new students registered today", count)
	}
	return NotificationEvent{
		Type:      models.NotificationInfo,
		Title:     "New Student Registration",
		Message:   message,
		TargetURL: "/dashboard/students",
	}
}

// SubscriptionExpiring warns about subscriptions nearing their end date.
func SubscriptionExpiring(count, days int) NotificationEvent {
	return NotificationEvent{
		Type:      models.NotificationWarning,
		Title:     "Expiring Subscriptions",
		Message:   fmt.Sprintf("%d subscription%s expiring in %d day%s", count, plural(count), days, plural(days)),
		TargetURL: "/dashboard/students",
	}
}

// SubscriptionExpired announces a lapsed subscription.
func SubscriptionExpired(studentName string) NotificationEvent {
	return NotificationEvent{
		Type:      models.NotificationWarning,
		Title:     "Subscription Expired",
		Message:   fmt.Sprintf("%s's subscription has expired", studentName),
		TargetURL: "/dashboard/students",
	}
}

// ContentUploaded announces fresh learning material.
func ContentUploaded(title, program, year string) NotificationEvent {
	return NotificationEvent{
		Type:      models.NotificationSuccess,
		Title:     "Content Uploaded",
		Message:   fmt.Sprintf("New content %q added to %s %s", title, program, year),
		TargetURL: "/dashboard/content",
	}
}

// AccessCodeIssued announces a code reserved for a specific student.
func AccessCodeIssued(userID string, durationDays int) NotificationEvent {
	return NotificationEvent{
		Type:      models.NotificationSuccess,
		Title:     "Access Code Generated",
		Message:   fmt.Sprintf("Access code generated for user %s (%d day%s)", userID, durationDays, plural(durationDays)),
		TargetURL: "/dashboard/access-codes",
	}
}

// AccessCodeRedeemed announces a redemption observed by the platform.
func AccessCodeRedeemed(studentName, code string) NotificationEvent {
	return NotificationEvent{
		Type:      models.NotificationInfo,
		Title:     "Access Code Redeemed",
		Message:   fmt.Sprintf("%s redeemed code %s", studentName, code),
		TargetURL: "/dashboard/access-codes",
	}
}

// StudentApprovalPending warns about profiles waiting for approval.
func StudentApprovalPending(count int) NotificationEvent {
	return NotificationEvent{
		Type:      models.NotificationWarning,
		Title:     "Pending Approvals",
		Message:   fmt.Sprintf("%d student%s waiting for approval", count, plural(count)),
		TargetURL: "/dashboard/students",
	}
}

// LowStorageSpace warns about bucket utilisation.
func LowStorageSpace(percentUsed int) NotificationEvent {
	return NotificationEvent{
		Type:      models.NotificationWarning,
		Title:     "Low Storage Space",
		Message:   fmt.Sprintf("Storage is %d%% full. Consider upgrading your plan.", percentUsed),
		TargetURL: "/dashboard/settings",
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
