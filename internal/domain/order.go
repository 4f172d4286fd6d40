package domain

// OrderRecord represents a single purchase-order row as supplied by the
// record store. Corresponds to the orders table in PostgreSQL/ClickHouse.
// The engine treats records as read-only input and never mutates them.
type OrderRecord struct {
	ID          string // order identifier
	TimestampMs int64  // Unix timestamp in milliseconds (UTC); 0 when the source row has no timestamp
	Amount      int64  // order amount in KRW
	ItemKey     string // option/item name; empty maps to the unspecified sentinel
	MarketKey   string // sales market/channel; empty maps to the unspecified sentinel
	Status      OrderStatus
	CreatedAt   int64 // record creation timestamp (ms)
}

// HasTimestamp reports whether the record carries a usable primary timestamp.
// Records without one are excluded from time-bucketed aggregation but still
// participate in status counts.
func (r *OrderRecord) HasTimestamp() bool {
	return r.TimestampMs > 0
}

// OrderStatus identifies an order's processing state.
type OrderStatus string

// Order status values, mirroring the dashboard's state machine.
const (
	StatusRegistered OrderStatus = "registered"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusShipped    OrderStatus = "shipped"
	StatusCancelled  OrderStatus = "cancelled"
)

// Statuses lists all order statuses in display order.
var Statuses = []OrderStatus{StatusRegistered, StatusConfirmed, StatusShipped, StatusCancelled}
