package shift

import (
	"context"
	"fmt"

	"github.com/turnilab/turni-backend-go/internal/domain/notification"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
)

// SweepNotifier translates sweeper transitions into notifications for
// the collaborator and the shift's creator.
type SweepNotifier struct {
	notifs notification.Service
}

func NewSweepNotifier(notifs notification.Service) *SweepNotifier {
	return &SweepNotifier{notifs: notifs}
}

func (n *SweepNotifier) ShiftSwept(ctx context.Context, s shift.Shift, event shift.Event) {
	if n.notifs == nil {
		return
	}

	var (
		notifType notification.NotificationType
		title     string
		message   string
	)
	switch event {
	case shift.EventAutoClose:
		notifType = notification.TypeShiftAutoClosed
		title = "Turno chiuso automaticamente"
		message = fmt.Sprintf("Il turno del %s è stato chiuso all'orario previsto (%s)", s.Date, s.EndTime)
	case shift.EventExpire:
		notifType = notification.TypeShiftExpired
		title = "Turno scaduto"
		message = fmt.Sprintf("Il turno del %s non è stato accettato in tempo", s.Date)
	default:
		return
	}

	recipients := []string{s.CollaboratorID}
	if s.CreatedBy != "" && s.CreatedBy != s.CollaboratorID {
		recipients = append(recipients, s.CreatedBy)
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, recipientID := range recipients {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: recipientID,
			Type:        notifType,
			Title:       title,
			Message:     message,
			Data: map[string]interface{}{
				"shift_id": s.ID,
				"date":     s.Date,
				"status":   string(s.Status),
			},
		})
	}
	_ = n.notifs.QueueBulkNotification(ctx, reqs)
}
