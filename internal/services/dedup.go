package services

import (
	"context"
	"regexp"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
)

// Outcome is the three-way result of a dedup evaluation
type Outcome string

const (
	// OutcomeCreate means no matching open alert exists; a new one may be raised.
	OutcomeCreate Outcome = "create"
	// OutcomeRefresh means a matching open alert exists and should be updated
	// in place, without a new notification.
	OutcomeRefresh Outcome = "refresh"
	// OutcomeSuppress means a matching open alert exists and nothing should
	// happen.
	OutcomeSuppress Outcome = "suppress"
)

// MatchPredicate decides whether an open alert's message matches the
// condition being evaluated
type MatchPredicate func(message string) bool

// MatchAny matches every open alert in the key. Used where the open alert
// itself is the dedup key, regardless of its message.
func MatchAny(string) bool { return true }

// MatchText builds a predicate matching messages that contain text,
// case-insensitively. The text is quoted so vaccine names with regex
// metacharacters cannot break or widen the match.
func MatchText(text string) MatchPredicate {
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(text))
	return func(message string) bool {
		return re.MatchString(message)
	}
}

// DedupKey identifies the open-alert space one evaluation searches
type DedupKey struct {
	AnimalID int64
	Category string
	Match    MatchPredicate
	// Window bounds the search to alerts created within the duration.
	// Zero means any open alert matches regardless of age.
	Window time.Duration
	// RefreshOnMatch turns a match into OutcomeRefresh instead of
	// OutcomeSuppress.
	RefreshOnMatch bool
}

// Decision is the result of one dedup evaluation
type Decision struct {
	Outcome  Outcome
	Existing *alert.Alert
}

// Deduplicator prevents alert storms by checking new conditions against
// already-open alerts
type Deduplicator struct {
	repo alert.Repository
	now  func() time.Time
}

// NewDeduplicator creates a deduplicator over the alert store
func NewDeduplicator(repo alert.Repository) *Deduplicator {
	return &Deduplicator{repo: repo, now: time.Now}
}

// Evaluate decides whether a condition should create, refresh, or suppress.
// Only open alerts participate; resolved alerts never block a new one.
func (d *Deduplicator) Evaluate(ctx context.Context, key DedupKey) (Decision, error) {
	var since *time.Time
	if key.Window > 0 {
		t := d.now().Add(-key.Window)
		since = &t
	}

	open, err := d.repo.FindOpen(ctx, key.AnimalID, key.Category, since)
	if err != nil {
		return Decision{}, err
	}

	match := key.Match
	if match == nil {
		match = MatchAny
	}

	for _, a := range open {
		if match(a.Message) {
			if key.RefreshOnMatch {
				return Decision{Outcome: OutcomeRefresh, Existing: a}, nil
			}
			return Decision{Outcome: OutcomeSuppress, Existing: a}, nil
		}
	}

	return Decision{Outcome: OutcomeCreate}, nil
}
