package models

// ModeKind is the accounts screen's sub-panel focus
type ModeKind int

const (
	ModeIdle ModeKind = iota
	ModeTransfer
	ModeHistory
)

func (k ModeKind) String() string {
	switch k {
	case ModeTransfer:
		return "TRANSFER"
	case ModeHistory:
		return "HISTORY"
	default:
		return "IDLE"
	}
}

// InteractionMode pairs a panel with the single account it is open for.
// Opening a panel replaces the previous one, whatever account it was on.
type InteractionMode struct {
	Kind          ModeKind
	AccountNumber string
}

func IdleMode() InteractionMode {
	return InteractionMode{Kind: ModeIdle}
}

func TransferMode(accountNumber string) InteractionMode {
	return InteractionMode{Kind: ModeTransfer, AccountNumber: accountNumber}
}

func HistoryMode(accountNumber string) InteractionMode {
	return InteractionMode{Kind: ModeHistory, AccountNumber: accountNumber}
}

// IsOpenFor reports whether the given panel is open on accountNumber
func (m InteractionMode) IsOpenFor(kind ModeKind, accountNumber string) bool {
	return m.Kind == kind && m.AccountNumber == accountNumber
}
