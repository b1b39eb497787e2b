package tracker

import (
	"context"
	"errors"

	"github.com/warelog/scanpost/internal/models"
)

// ErrUnauthorized distinguishes "the service refused us" from "the
// service has no data". Callers must not render an empty report off
// the back of an auth failure.
var ErrUnauthorized = errors.New("tracker: authorization required")

type LoginResult struct {
	Token        string
	OperatorName string
	RoleName     string
	RoleLevel    int
}

type SubmitResult struct {
	// Note is the server's annotation when it detected a duplicate
	// ("duplicate of record #N"); empty on a clean store.
	Note string
}

// Duplicate reports whether the submission was accepted with a
// duplicate annotation rather than stored cleanly.
func (r SubmitResult) Duplicate() bool { return r.Note != "" }

type Client interface {
	Login(ctx context.Context, username, password string) (LoginResult, error)
	SubmitRecord(ctx context.Context, token string, rec models.Record) (SubmitResult, error)
	ListRecords(ctx context.Context, token string) ([]models.Record, error)
	ListErrors(ctx context.Context, token string) ([]models.ErrorRecord, error)
	DeleteRecord(ctx context.Context, token string, id uint64) error
	DeleteError(ctx context.Context, token string, id uint64) error
	ClearRecords(ctx context.Context, token string) error
	ClearErrors(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}
