package cli

import (
	"context"

	"github.com/spf13/cobra"

	"clientportal/internal/notify"
	"clientportal/internal/seed"
	"clientportal/pkg/outbox"
)

// SubmissionLister reads the submission log.
type SubmissionLister interface {
	ListByClient(ctx context.Context, clientID string, limit int) ([]notify.Submission, error)
}

// OutboxAdmin inspects and replays parked outbox events.
type OutboxAdmin interface {
	GetFailedEvents(ctx context.Context, limit int) ([]*outbox.Event, error)
	ReplayEvent(ctx context.Context, eventID int64) error
}

// App holds what the commands read from. The Open funcs are called only by
// the commands that need a database; the returned func releases it.
type App struct {
	Data            *seed.Data
	OpenSubmissions func(ctx context.Context) (SubmissionLister, func(), error)
	OpenOutbox      func(ctx context.Context) (OutboxAdmin, func(), error)
}

// NewRootCmd creates the top-level "portalctl" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operator tools for the client portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newHashCmd(),
		newRosterCmd(app),
		newSummaryCmd(app),
		newSubmissionsCmd(app),
		newOutboxCmd(app),
	)

	return root
}
