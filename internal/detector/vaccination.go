package detector

import (
	"fmt"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
)

// overdueEscalationDays is the age past due at which a missed vaccination
// escalates from medium to high severity.
const overdueEscalationDays = 30

// ClassifyOverdue maps how far past due a vaccination is to a severity
func ClassifyOverdue(daysPastDue int) string {
	if daysPastDue > overdueEscalationDays {
		return alert.SeverityHigh
	}
	return alert.SeverityMedium
}

// VaccinationMessage builds the alert message for a missed vaccination
func VaccinationMessage(vaccineName string, dueDate time.Time) string {
	return fmt.Sprintf("Missed vaccination: %s was due on %s",
		vaccineName, dueDate.Format("2006-01-02"))
}
