package models

// Todo is a task record owned by the user that created it.
// CompletedAt is unix milliseconds and is set only while Completed is true.
type Todo struct {
	ID          string `json:"_id" db:"id"`
	Text        string `json:"text" db:"text"`
	Completed   bool   `json:"completed" db:"completed"`
	CompletedAt *int64 `json:"completedAt,omitempty" db:"completed_at"`
	CreatorID   string `json:"_creator" db:"creator_id"`
}

// TodoPatch is what a caller asked to change. A nil field was not sent.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

// TodoUpdate is the resolved change written to storage: text is replaced
// only when non-nil, completion state always.
type TodoUpdate struct {
	Text        *string
	Completed   bool
	CompletedAt *int64
}
