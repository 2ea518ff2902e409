package content

import "fmt"

// Level groups scenarios by difficulty.
type Level struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// Persona is the tutor character a scenario is played with.
type Persona struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Style string `json:"style"`
	// Retry templates take the expected phrase as the single %s argument.
	RetryEncourage string `json:"-"`
	RetryInsist    string `json:"-"`
}

// Scenario is a scripted roleplay situation.
type Scenario struct {
	ID             string   `json:"id"`
	LevelID        string   `json:"level_id"`
	Title          string   `json:"title"`
	Setting        string   `json:"setting"`
	Goals          []string `json:"goals"`
	PersonaID      string   `json:"persona_id"`
	InitialMessage string   `json:"initial_message"`
	PostQuizID     string   `json:"post_quiz_id,omitempty"`
}

type QuizItem struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

type Quiz struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Items []QuizItem `json:"items"`
}

// Library is the read-only content set injected into the engine at
// construction. It is initialized once at process start and never mutated, so
// lookups need no locking.
type Library struct {
	levels    map[string]Level
	scenarios map[string]Scenario
	personas  map[string]Persona
	quizzes   map[string]Quiz
	hints     map[string]string
}

func NewLibrary(levels []Level, scenarios []Scenario, personas []Persona, quizzes []Quiz, hints map[string]string) *Library {
	lib := &Library{
		levels:    make(map[string]Level, len(levels)),
		scenarios: make(map[string]Scenario, len(scenarios)),
		personas:  make(map[string]Persona, len(personas)),
		quizzes:   make(map[string]Quiz, len(quizzes)),
		hints:     hints,
	}
	for _, l := range levels {
		lib.levels[l.ID] = l
	}
	for _, s := range scenarios {
		lib.scenarios[s.ID] = s
	}
	for _, p := range personas {
		lib.personas[p.ID] = p
	}
	for _, q := range quizzes {
		lib.quizzes[q.ID] = q
	}
	return lib
}

func (l *Library) Level(id string) (Level, bool) {
	lv, ok := l.levels[id]
	return lv, ok
}

func (l *Library) Scenario(id string) (Scenario, bool) {
	sc, ok := l.scenarios[id]
	return sc, ok
}

func (l *Library) Persona(id string) (Persona, bool) {
	p, ok := l.personas[id]
	return p, ok
}

func (l *Library) Quiz(id string) (Quiz, bool) {
	q, ok := l.quizzes[id]
	return q, ok
}

// Hint returns the canned hint for a topic, or ok=false when the topic is
// unknown or empty.
func (l *Library) Hint(topic string) (string, bool) {
	h, ok := l.hints[topic]
	return h, ok
}

func (l *Library) Levels() []Level {
	out := make([]Level, 0, len(l.levels))
	for _, lv := range l.levels {
		out = append(out, lv)
	}
	return out
}

func (l *Library) ScenariosByLevel(levelID string) []Scenario {
	out := make([]Scenario, 0)
	for _, sc := range l.scenarios {
		if sc.LevelID == levelID {
			out = append(out, sc)
		}
	}
	return out
}

// Validate checks cross-record references and quiz shapes. Called once at
// startup; a broken content set should stop the process, not surface mid-turn.
func (l *Library) Validate() error {
	for id, sc := range l.scenarios {
		if _, ok := l.levels[sc.LevelID]; !ok {
			return fmt.Errorf("scenario %s references unknown level %s", id, sc.LevelID)
		}
		if _, ok := l.personas[sc.PersonaID]; !ok {
			return fmt.Errorf("scenario %s references unknown persona %s", id, sc.PersonaID)
		}
		if sc.PostQuizID != "" {
			if _, ok := l.quizzes[sc.PostQuizID]; !ok {
				return fmt.Errorf("scenario %s references unknown quiz %s", id, sc.PostQuizID)
			}
		}
		if sc.InitialMessage == "" {
			return fmt.Errorf("scenario %s has no initial tutor message", id)
		}
	}
	for id, q := range l.quizzes {
		if len(q.Items) == 0 {
			return fmt.Errorf("quiz %s has no items", id)
		}
		for i, item := range q.Items {
			if len(item.Options) < 2 {
				return fmt.Errorf("quiz %s item %d has fewer than 2 options", id, i)
			}
			if item.Correct < 0 || item.Correct >= len(item.Options) {
				return fmt.Errorf("quiz %s item %d correct index out of range", id, i)
			}
		}
	}
	return nil
}
