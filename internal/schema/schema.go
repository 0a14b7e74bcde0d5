package schema

// Price is a scaled integer. The scale is defined by configuration.
type Price int64

// Quantity is a scaled integer. The scale is defined by configuration.
type Quantity int64

// Notional is a scaled integer. The scale is defined by configuration.
type Notional int64

// Action describes the direction of a decision event.
type Action uint16

const (
	ActionUnknown Action = iota
	ActionBuy
	ActionSell
	ActionAdd
)

// String returns the trace-log token for the action.
func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	case ActionAdd:
		return "ADD"
	default:
		return "UNKNOWN"
	}
}

// TradeEvent is the structured record emitted for every order the engine
// decides to send. It replaces ad-hoc stdout traces; the tracelog package
// renders it in the historical ASCII format.
type TradeEvent struct {
	Time   int64
	Symbol string
	Action Action
	Qty    Quantity
	Price  Price
}
