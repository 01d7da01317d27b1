package amqp

import (
	"encoding/json"
	"time"
)

// ImportCompletedMessage notifies the snapshot worker that a CSV import
// finished. It carries only identifiers and counters; the worker reads
// the current figures from the database.
type ImportCompletedMessage struct {
	BatchID         int64     `json:"batch_id"`
	RowsImported    int       `json:"rows_imported"`
	ProjectsCreated int       `json:"projects_created"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewImportCompletedMessage(batchID int64, rowsImported, projectsCreated int) *ImportCompletedMessage {
	return &ImportCompletedMessage{
		BatchID:         batchID,
		RowsImported:    rowsImported,
		ProjectsCreated: projectsCreated,
		Timestamp:       time.Now(),
	}
}

func (m *ImportCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ImportCompletedMessageFromJSON(data []byte) (*ImportCompletedMessage, error) {
	var msg ImportCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
