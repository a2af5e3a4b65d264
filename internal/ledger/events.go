package ledger

// EventType names an observable, append-only ledger event.
type EventType string

const (
	EventDiceRolled      EventType = "dice_rolled"
	EventAdminAdded      EventType = "admin_added"
	EventAdminRemoved    EventType = "admin_removed"
	EventAdminWithdrawal EventType = "admin_withdrawal"
	EventAdminDeposit    EventType = "admin_deposit"
	EventWagerPlaced     EventType = "wager_placed"
	EventWagerRefunded   EventType = "wager_refunded"
	EventPayoutWithdrawn EventType = "payout_withdrawn"
)

// Event is implemented by every ledger event.
type Event interface {
	Type() EventType
}

type DiceRolled struct {
	Player    string `json:"player"`
	RequestID string `json:"request_id"`
	Result    uint8  `json:"result"`
	Won       bool   `json:"won"`
	Payout    int64  `json:"payout"`
}

func (DiceRolled) Type() EventType { return EventDiceRolled }

type AdminAdded struct {
	Admin   string `json:"admin"`
	AddedBy string `json:"added_by"`
}

func (AdminAdded) Type() EventType { return EventAdminAdded }

type AdminRemoved struct {
	Admin     string `json:"admin"`
	RemovedBy string `json:"removed_by"`
}

func (AdminRemoved) Type() EventType { return EventAdminRemoved }

type AdminWithdrawal struct {
	Admin  string `json:"admin"`
	Amount int64  `json:"amount"`
}

func (AdminWithdrawal) Type() EventType { return EventAdminWithdrawal }

type AdminDeposit struct {
	Admin  string `json:"admin"`
	Amount int64  `json:"amount"`
}

func (AdminDeposit) Type() EventType { return EventAdminDeposit }

type WagerPlaced struct {
	Player    string `json:"player"`
	RequestID string `json:"request_id"`
	Choice    uint8  `json:"choice"`
	Stake     int64  `json:"stake"`
}

func (WagerPlaced) Type() EventType { return EventWagerPlaced }

type WagerRefunded struct {
	Player    string `json:"player"`
	RequestID string `json:"request_id"`
	Amount    int64  `json:"amount"`
}

func (WagerRefunded) Type() EventType { return EventWagerRefunded }

type PayoutWithdrawn struct {
	Player string `json:"player"`
	Amount int64  `json:"amount"`
}

func (PayoutWithdrawn) Type() EventType { return EventPayoutWithdrawn }
