package domain

import (
	"github.com/shopspring/decimal"
)

// CommandKind is the intent extracted from a free-form text command.
type CommandKind string

const (
	CommandBuy     CommandKind = "buy"
	CommandSell    CommandKind = "sell"
	CommandSwap    CommandKind = "swap"
	CommandPrice   CommandKind = "price"
	CommandBalance CommandKind = "balance"
	CommandHistory CommandKind = "history"
	CommandHelp    CommandKind = "help"
	CommandUnknown CommandKind = "unknown"
)

// Command is a parsed intent plus its extracted parameters. It is created
// per input, consumed immediately by the dispatcher, and discarded.
type Command struct {
	Kind     CommandKind     `json:"kind"`
	Amount   decimal.Decimal `json:"amount,omitempty"`
	Asset    string          `json:"asset,omitempty"`
	ToAsset  string          `json:"to_asset,omitempty"`
	Message  string          `json:"message"`
	RawInput string          `json:"-"`
}

// CommandResult is the outcome of dispatching a command. Dispatch
// failures surface here, never as errors past the dispatch boundary.
type CommandResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
