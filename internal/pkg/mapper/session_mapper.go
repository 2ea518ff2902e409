package mapper

import (
	"encoding/json"

	httpEntity "github.com/fluenta/tutor-be/internal/delivery/http/entity"
	dbEntity "github.com/fluenta/tutor-be/internal/entity"
)

// ConvertToSessionRow - Convert domain session to DB row (state serialized as JSON)
func ConvertToSessionRow(session *httpEntity.Session) (*dbEntity.TutorSession, error) {
	state, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}

	return &dbEntity.TutorSession{
		ID:         session.ID,
		LevelID:    session.LevelID,
		ScenarioID: session.ScenarioID,
		Phase:      string(session.Phase),
		TurnCount:  session.TurnCount,
		State:      string(state),
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}, nil
}

// ConvertToSession - Convert DB row back to the domain session
func ConvertToSession(row *dbEntity.TutorSession) (*httpEntity.Session, error) {
	var session httpEntity.Session
	if err := json.Unmarshal([]byte(row.State), &session); err != nil {
		return nil, err
	}
	return &session, nil
}
