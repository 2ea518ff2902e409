package domain

var (
	SESSION_CREATE_SUCCESS      = "Session created"
	SESSION_CREATE_FAILED       = "Failed to create session"
	SESSION_TURN_SUCCESS        = "Turn processed"
	SESSION_TURN_FAILED         = "Failed to process turn"
	SESSION_END_SUCCESS         = "Session ended"
	SESSION_END_FAILED          = "Failed to end session"
	SESSION_GET_SUCCESS         = "Session retrieved"
	SESSION_GET_FAILED          = "Failed to retrieve session"
	SESSION_QUIZ_SUBMIT_SUCCESS = "Quiz submitted"
	SESSION_QUIZ_SUBMIT_FAILED  = "Failed to submit quiz"
	SESSION_REPORT_SUCCESS      = "Mistake report generated"
	SESSION_REPORT_FAILED       = "Failed to generate mistake report"
	CONTENT_GET_SUCCESS         = "Content retrieved"
	CONTENT_GET_FAILED          = "Failed to retrieve content"
	SPEECH_TRANSCRIBE_SUCCESS   = "Audio transcribed"
	SPEECH_TRANSCRIBE_FAILED    = "Failed to transcribe audio"
)
