package shared

import "context"

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Notifier announces that rows of a table changed. Implementations must not
// block the caller for long and never fail the mutation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, table, action, id string)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string, string) {}
