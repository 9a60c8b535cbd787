package amqp

import (
	"encoding/json"
	"time"
)

// SpreadsheetExportMessage asks the export worker to push one saved
// spreadsheet to the render collaborator. It carries only the identifier;
// the worker loads the current snapshot from storage, so a message that sat
// in the queue never exports stale cell data.
type SpreadsheetExportMessage struct {
	SpreadsheetID string    `json:"spreadsheetId"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewSpreadsheetExportMessage(spreadsheetID string) *SpreadsheetExportMessage {
	return &SpreadsheetExportMessage{
		SpreadsheetID: spreadsheetID,
		Timestamp:     time.Now(),
	}
}

func (m *SpreadsheetExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SpreadsheetExportMessageFromJSON(data []byte) (*SpreadsheetExportMessage, error) {
	var msg SpreadsheetExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
