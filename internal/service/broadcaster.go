package service

// Session event types pushed over WebSocket
const (
	EventEvaluationResult = "evaluation_result"
	EventHistoryCleared   = "history_cleared"
	EventRecordsRefreshed = "records_refreshed"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	BroadcastToAll(msgType string, payload interface{})
}
