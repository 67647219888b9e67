package transfer

import "fmt"

// Reason classifies why a transfer attempt failed.
type Reason string

const (
	ReasonFetcherNotFound   Reason = "fetcher_not_found"
	ReasonFetcherExit       Reason = "fetcher_exit"
	ReasonTimeout           Reason = "timeout"
	ReasonTransport         Reason = "transport"
	ReasonIntegrityMismatch Reason = "integrity_mismatch"
)

// TransferError is the typed failure produced by a fetch strategy. It is
// recorded in the ledger, never fatal to the run.
type TransferError struct {
	Reason  Reason
	Message string
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed (%s): %s", e.Reason, e.Message)
}

func failure(reason Reason, format string, args ...any) *TransferError {
	return &TransferError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}
