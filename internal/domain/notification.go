package domain

import "time"

type NotificationKind string

const (
	NotificationRentalRequested  NotificationKind = "RENTAL_REQUESTED"
	NotificationRentalBooked     NotificationKind = "RENTAL_BOOKED"
	NotificationRentalPickedUp   NotificationKind = "RENTAL_PICKED_UP"
	NotificationRentalReturned   NotificationKind = "RENTAL_RETURNED"
	NotificationRentalOverdue    NotificationKind = "RENTAL_OVERDUE"
	NotificationRentalCancelled  NotificationKind = "RENTAL_CANCELLED"
	NotificationReturnDueToday   NotificationKind = "RETURN_DUE_TODAY"
	NotificationDeliveryDueToday NotificationKind = "DELIVERY_DUE_TODAY"
	NotificationDailySummary     NotificationKind = "DAILY_SUMMARY"
)

// Notification is a stored outbound notification record.
type Notification struct {
	ID         string            `json:"id"`
	RentalID   string            `json:"rental_id,omitempty"`
	Kind       NotificationKind  `json:"kind"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}

// NotificationPayload is one of the typed per-kind payload structs
// below. Each kind renders through explicit field mapping in the
// dispatcher; there is no reflection-based template substitution.
type NotificationPayload interface {
	Kind() NotificationKind
}

// StatusChangePayload covers the per-transition notifications
// (booked, picked up, returned, overdue, cancelled, requested).
type StatusChangePayload struct {
	NotificationKind NotificationKind
	RentalNumber     string
	CustomerID       string
	NewStatus        RentalStatus
	Notes            string
}

func (p StatusChangePayload) Kind() NotificationKind { return p.NotificationKind }

// DueTodayPayload is sent once per rental due for return or delivery
// today by the daily alert job.
type DueTodayPayload struct {
	NotificationKind NotificationKind
	RentalNumber     string
	CustomerID       string
	DueDate          time.Time
}

func (p DueTodayPayload) Kind() NotificationKind { return p.NotificationKind }

// DailySummaryPayload is the single aggregate notification sent by the
// summary job, carrying counts and a deep link to the admin view.
type DailySummaryPayload struct {
	Date          time.Time
	ReturnsDue    int
	DeliveriesDue int
	AdminDeepLink string
}

func (p DailySummaryPayload) Kind() NotificationKind { return NotificationDailySummary }
