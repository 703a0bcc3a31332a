package domain

// TaskDraft is an AI-suggested title and description. It is advisory: nothing
// is stored until an admin submits it through the normal create/edit path.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ExtractedTask holds the task fields inferred from a spoken command.
type ExtractedTask struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ServiceType    string   `json:"service_type"`
	Priority       Priority `json:"priority"`
	ClientName     string   `json:"client_name"`
	DeadlineInDays *int     `json:"deadline_in_days,omitempty"`
}

// SpeechTask pairs the transcript with what was extracted from it.
type SpeechTask struct {
	Transcript string        `json:"transcript"`
	TaskInfo   ExtractedTask `json:"task_info"`
}
