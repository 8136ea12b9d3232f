package shared

// BatchStatusSuccess is the only status a batch operation reports. Individual
// record problems are listed in BatchData.Failed instead.
const BatchStatusSuccess = "success"

// BatchData carries the per-record failures of a batch.
type BatchData struct {
	Failed []string `json:"failed"`
}

// BatchResult is the envelope returned by every reconciliation operation:
//
//	{"status": "success", "message": "...", "data": {"failed": [...]}}
type BatchResult struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    BatchData `json:"data"`
}

// NewBatchResult builds a success envelope. A nil failure list is normalized
// to an empty one so it encodes as [].
func NewBatchResult(message string, failed []string) BatchResult {
	if failed == nil {
		failed = []string{}
	}
	return BatchResult{
		Status:  BatchStatusSuccess,
		Message: message,
		Data:    BatchData{Failed: failed},
	}
}

// HasFailures reports whether any record of the batch failed.
func (r BatchResult) HasFailures() bool {
	return len(r.Data.Failed) > 0
}
