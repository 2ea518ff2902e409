package entity

// Request to create a new tutoring session
type CreateSessionRequest struct {
	LevelID    string `json:"level_id" validate:"required"`
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// Request to process one learner turn
type TurnRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

// Response for one processed turn
type TurnResponse struct {
	SessionID  string     `json:"session_id"`
	Phase      Phase      `json:"phase"`
	Reply      string     `json:"reply"`
	TurnCount  int        `json:"turn_count"`
	Timing     TurnTiming `json:"timing"`
	ReplyAudio string     `json:"reply_audio,omitempty"` // base64 audio, omitted when TTS is off or failed
}

// Request for the authoritative out-of-band quiz submission path
type SubmitQuizRequest struct {
	QuizID  string `json:"quiz_id" validate:"required"`
	Answers []int  `json:"answers" validate:"required,dive,min=-1"`
}

// Response for quiz submission; Success mirrors the grading tool result
type SubmitQuizResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Result  *QuizResult `json:"result,omitempty"`
}

// Response when a session is ended out-of-band
type EndSessionResponse struct {
	SessionID string         `json:"session_id"`
	Phase     Phase          `json:"phase"`
	Summary   SessionSummary `json:"summary"`
}

// Per-type mistake counts for a session
type MistakePattern struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Mistake report for a session
type MistakeReport struct {
	SessionID string           `json:"session_id"`
	Total     int              `json:"total"`
	Patterns  []MistakePattern `json:"patterns"`
	Mistakes  []Mistake        `json:"mistakes"`
}

// Response for speech transcription
type TranscribeResponse struct {
	Text string `json:"text"`
}
