package content

// DefaultLibrary is the built-in Spanish learning content set. Grouped by
// level; each scenario pins a persona and optionally unlocks a post-roleplay
// quiz.
func DefaultLibrary() *Library {
	levels := []Level{
		{ID: "lvl-a1", Name: "Beginner", Language: "es"},
		{ID: "lvl-a2", Name: "Elementary", Language: "es"},
	}

	personas := []Persona{
		{
			ID:             "p-lucia",
			Name:           "Lucía",
			Style:          "warm, patient market vendor who encourages small wins",
			RetryEncourage: "¡Casi! Try saying it again: \"%s\"",
			RetryInsist:    "Let's not move on just yet. Repeat after me, word by word: \"%s\"",
		},
		{
			ID:             "p-mateo",
			Name:           "Mateo",
			Style:          "upbeat café waiter, keeps the conversation moving",
			RetryEncourage: "Good try! One more time: \"%s\"",
			RetryInsist:    "We really need this one. Say exactly: \"%s\"",
		},
	}

	scenarios := []Scenario{
		{
			ID:        "sc-market",
			LevelID:   "lvl-a1",
			Title:     "At the Market",
			Setting:   "An open-air market stall in Madrid",
			Goals:     []string{"greet the vendor", "ask for prices", "buy fruit using numbers"},
			PersonaID: "p-lucia",
			InitialMessage: "¡Buenos días! Bienvenido a mi puesto. ¿Qué le gustaría comprar hoy?",
			PostQuizID:     "qz-market",
		},
		{
			ID:        "sc-cafe",
			LevelID:   "lvl-a1",
			Title:     "Ordering Coffee",
			Setting:   "A busy café near the plaza",
			Goals:     []string{"order a drink", "ask for the bill"},
			PersonaID: "p-mateo",
			InitialMessage: "¡Hola! ¿Qué te pongo?",
			PostQuizID:     "qz-cafe",
		},
		{
			ID:        "sc-directions",
			LevelID:   "lvl-a2",
			Title:     "Asking for Directions",
			Setting:   "A street corner in Seville",
			Goals:     []string{"ask where a place is", "understand left/right/straight"},
			PersonaID: "p-mateo",
			InitialMessage: "Perdona, ¿te puedo ayudar? Pareces un poco perdido.",
		},
	}

	quizzes := []Quiz{
		{
			ID:    "qz-market",
			Title: "Market vocabulary",
			Items: []QuizItem{
				{Prompt: "How do you ask \"How much does it cost?\"", Options: []string{"¿Cuánto cuesta?", "¿Dónde está?", "¿Qué hora es?"}, Correct: 0},
				{Prompt: "\"Quisiera un kilo de manzanas\" means:", Options: []string{"I have a kilo of apples", "I would like a kilo of apples", "Do you sell apples?"}, Correct: 1},
				{Prompt: "Which word means \"change\" (money back)?", Options: []string{"el cambio", "el camino", "la cuenta"}, Correct: 0},
			},
		},
		{
			ID:    "qz-cafe",
			Title: "Café phrases",
			Items: []QuizItem{
				{Prompt: "To ask for the bill you say:", Options: []string{"La cuenta, por favor", "El menú, por favor", "Buenas noches"}, Correct: 0},
				{Prompt: "\"Un café con leche\" is coffee with:", Options: []string{"sugar", "milk", "ice"}, Correct: 1},
			},
		},
	}

	hints := map[string]string{
		"greetings":  "Start with \"Buenos días\" in the morning or \"Buenas tardes\" after noon.",
		"numbers":    "Prices use numbers: uno, dos, tres... \"Dos euros con cincuenta\" is 2.50.",
		"past_tense": "For completed actions, the preterite is your friend: \"compré\", \"fui\", \"pedí\".",
		"gender":     "Most nouns ending in -o are masculine (el), -a feminine (la). Watch the article.",
	}

	return NewLibrary(levels, scenarios, personas, quizzes, hints)
}
