package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerly/internal/ledger"
	"github.com/mmynk/ledgerly/internal/storage"
)

// EntityIDHeader carries the ID of a committed write whose balance rebuild
// failed, so that clients do not retry the write.
const EntityIDHeader = "Ledgerly-Entity-Id"

// toConnectError maps a domain error to a connect error and logs it.
func toConnectError(op string, err error) *connect.Error {
	var code connect.Code
	switch {
	case ledger.IsValidation(err):
		code = connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, storage.ErrConflict):
		code = connect.CodeAlreadyExists
	default:
		code = connect.CodeInternal
	}

	if code == connect.CodeInternal {
		slog.Error(op+" failed", "error", err)
	} else {
		slog.Warn(op+" rejected", "code", code.String(), "error", err)
	}
	return connect.NewError(code, err)
}

// writeError maps the error of a write that may have been committed. A
// committed write with a failed rebuild surfaces as Internal and names the
// stored entity in EntityIDHeader.
func writeError(op string, entityID string, err error) *connect.Error {
	cerr := toConnectError(op, err)
	if ledger.IsRecompute(err) && entityID != "" {
		cerr.Meta().Set(EntityIDHeader, entityID)
	}
	return cerr
}
