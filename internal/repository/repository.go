// Package repository declares the persistence contract the service layer
// depends on. Implementations live in subpackages (sqlite, postgres).
package repository

import (
	"context"

	"github.com/sakif/socialhub/internal/model"
)

// DefaultSnapshotName is the key the whole application state is stored under.
const DefaultSnapshotName = "socialMediaData"

// StateGateway saves and loads the application state as one blob.
//
// Save must round-trip losslessly through Load: every field, empty
// collections and a nil CurrentUserID included. Load returns an error
// matching apperror.ErrNotFound when nothing has been saved yet.
type StateGateway interface {
	Save(ctx context.Context, state *model.State) error
	Load(ctx context.Context) (*model.State, error)
}
