package trackinghandlers

import (
	"context"
	"net/http"

	"github.com/soloq-club/soloq-tracker/app/events"
	"github.com/soloq-club/soloq-tracker/pkg/handlerwrapper"
)

// Handlers defines the HTTP and event handlers of the tracking module.
type Handlers interface {
	// HandleSnapshot records a snapshot batch for one challenge on behalf of a manager.
	HandleSnapshot(w http.ResponseWriter, r *http.Request)
	// HandleCronSync runs a full sync pass. Callers authenticate with the cron secret.
	HandleCronSync(w http.ResponseWriter, r *http.Request)

	// HandleSyncRequested records a snapshot batch for the requested challenge.
	HandleSyncRequested(ctx context.Context, payload *events.ChallengeSyncRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
