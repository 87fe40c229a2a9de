package questionbank

import "github.com/stemsi/studypilot-backend/internal/model"

// Default returns the built-in bank.
func Default() *Bank {
	return New(seedQuestions())
}

func mcq(id, subject, topic string, d model.Difficulty, score int, text string, opts map[string]string, answer, why string) model.Question {
	return model.Question{
		ID:              id,
		Subject:         subject,
		Topic:           topic,
		Difficulty:      d,
		QuestionType:    model.QuestionTypeMCQ,
		QuestionText:    text,
		Options:         opts,
		CorrectAnswer:   model.Single(answer),
		Explanation:     why,
		DifficultyScore: score,
	}
}

func abcd(a, b, c, d string) map[string]string {
	return map[string]string{"A": a, "B": b, "C": c, "D": d}
}

func seedQuestions() []model.Question {
	const (
		easy   = model.DifficultyEasy
		medium = model.DifficultyMedium
		hard   = model.DifficultyHard
	)

	qs := []model.Question{
		// ─── Mathematics ───────────────────────────────────────────────
		mcq("math-001", "Mathematics", "Algebra", easy, 1,
			"Solve for x: 2x + 6 = 14.",
			abcd("3", "4", "5", "10"), "B",
			"Subtract 6 from both sides to get 2x = 8, then divide by 2."),
		mcq("math-002", "Mathematics", "Algebra", medium, 3,
			"What are the roots of x² - 5x + 6 = 0?",
			abcd("1 and 6", "-2 and -3", "2 and 3", "-1 and 6"), "C",
			"The quadratic factors as (x - 2)(x - 3)."),
		mcq("math-003", "Mathematics", "Fractions", easy, 1,
			"What is 3/4 + 1/8?",
			abcd("4/12", "7/8", "1", "5/8"), "B",
			"Convert 3/4 to 6/8 and add 1/8."),
		mcq("math-004", "Mathematics", "Fractions", medium, 2,
			"Simplify (2/3) ÷ (4/9).",
			abcd("8/27", "3/2", "2/3", "6/4"), "B",
			"Multiply by the reciprocal: 2/3 × 9/4 = 18/12 = 3/2."),
		mcq("math-005", "Mathematics", "Geometry", easy, 2,
			"What is the sum of the interior angles of a triangle?",
			abcd("90°", "180°", "270°", "360°"), "B",
			"The interior angles of any triangle add up to 180°."),
		mcq("math-006", "Mathematics", "Geometry", hard, 4,
			"A circle has area 49π cm². What is its circumference?",
			abcd("7π cm", "14π cm", "49 cm", "28π cm"), "B",
			"r² = 49 gives r = 7, so C = 2πr = 14π."),
		mcq("math-007", "Mathematics", "Calculus", hard, 5,
			"What is the derivative of 3x³ - 2x?",
			abcd("9x² - 2", "9x³ - 2", "3x² - 2", "x⁴ - x²"), "A",
			"Apply the power rule term by term."),
		mcq("math-008", "Mathematics", "Statistics", medium, 3,
			"What is the median of 3, 9, 4, 7, 5?",
			abcd("4", "5", "7", "5.6"), "B",
			"Sorted: 3, 4, 5, 7, 9. The middle value is 5."),
		{
			ID:              "math-009",
			Subject:         "Mathematics",
			Topic:           "Algebra",
			Difficulty:      hard,
			QuestionType:    model.QuestionTypeMCQ,
			QuestionText:    "Which of the following are solutions of x² = 16? Select all that apply.",
			Options:         abcd("4", "-4", "8", "16"),
			CorrectAnswer:   model.AnswerKey{"A", "B"},
			Explanation:     "Both 4 and -4 square to 16.",
			DifficultyScore: 3,
		},

		// ─── Physics ───────────────────────────────────────────────────
		mcq("phy-001", "Physics", "Mechanics", easy, 1,
			"What is the SI unit of force?",
			abcd("Joule", "Watt", "Newton", "Pascal"), "C",
			"Force is measured in newtons (kg·m/s²)."),
		mcq("phy-002", "Physics", "Mechanics", medium, 3,
			"A 2 kg mass accelerates at 3 m/s². What net force acts on it?",
			abcd("1.5 N", "5 N", "6 N", "9 N"), "C",
			"F = ma = 2 × 3 = 6 N."),
		mcq("phy-003", "Physics", "Electricity", easy, 2,
			"A 12 V battery drives 2 A through a resistor. What is the resistance?",
			abcd("24 Ω", "6 Ω", "10 Ω", "0.17 Ω"), "B",
			"Ohm's law: R = V / I = 12 / 2."),
		mcq("phy-004", "Physics", "Electricity", hard, 4,
			"Two 6 Ω resistors are connected in parallel. What is the equivalent resistance?",
			abcd("12 Ω", "6 Ω", "3 Ω", "2 Ω"), "C",
			"1/R = 1/6 + 1/6, so R = 3 Ω."),
		mcq("phy-005", "Physics", "Waves", medium, 3,
			"A wave has frequency 50 Hz and wavelength 4 m. What is its speed?",
			abcd("12.5 m/s", "54 m/s", "200 m/s", "0.08 m/s"), "C",
			"v = fλ = 50 × 4."),
		mcq("phy-006", "Physics", "Thermodynamics", hard, 5,
			"In an isothermal expansion of an ideal gas, which quantity stays constant?",
			abcd("Pressure", "Volume", "Internal energy", "Entropy"), "C",
			"An ideal gas's internal energy depends only on temperature."),

		// ─── Chemistry ─────────────────────────────────────────────────
		mcq("chem-001", "Chemistry", "Atomic Structure", easy, 1,
			"What is the charge of a proton?",
			abcd("Negative", "Positive", "Neutral", "Variable"), "B",
			"Protons carry a single positive elementary charge."),
		mcq("chem-002", "Chemistry", "Atomic Structure", medium, 2,
			"How many electrons can the second shell hold?",
			abcd("2", "8", "18", "32"), "B",
			"The n = 2 shell holds 2n² = 8 electrons."),
		mcq("chem-003", "Chemistry", "Stoichiometry", medium, 3,
			"How many moles are in 36 g of water (H₂O = 18 g/mol)?",
			abcd("0.5", "1", "2", "18"), "C",
			"n = m / M = 36 / 18."),
		mcq("chem-004", "Chemistry", "Organic Chemistry", hard, 4,
			"What is the general formula of the alkanes?",
			abcd("CₙH₂ₙ", "CₙH₂ₙ₊₂", "CₙH₂ₙ₋₂", "CₙHₙ"), "B",
			"Alkanes are saturated hydrocarbons with formula CₙH₂ₙ₊₂."),
		mcq("chem-005", "Chemistry", "Acids and Bases", easy, 2,
			"A solution with pH 3 is:",
			abcd("Neutral", "Basic", "Acidic", "Amphoteric"), "C",
			"pH below 7 indicates an acidic solution."),

		// ─── Biology ───────────────────────────────────────────────────
		mcq("bio-001", "Biology", "Cell Biology", easy, 1,
			"Which organelle is the site of aerobic respiration?",
			abcd("Nucleus", "Ribosome", "Mitochondrion", "Golgi body"), "C",
			"Mitochondria carry out the Krebs cycle and oxidative phosphorylation."),
		mcq("bio-002", "Biology", "Cell Biology", medium, 2,
			"Which structure is found in plant cells but not animal cells?",
			abcd("Cell membrane", "Cell wall", "Cytoplasm", "Ribosome"), "B",
			"Plant cells have a cellulose cell wall."),
		mcq("bio-003", "Biology", "Genetics", medium, 3,
			"Crossing Aa × Aa gives what proportion of aa offspring?",
			abcd("0", "1/4", "1/2", "3/4"), "B",
			"A Punnett square gives AA:Aa:aa = 1:2:1."),
		mcq("bio-004", "Biology", "Genetics", hard, 4,
			"Which base pairs with adenine in RNA?",
			abcd("Thymine", "Uracil", "Cytosine", "Guanine"), "B",
			"RNA uses uracil in place of thymine."),
		mcq("bio-005", "Biology", "Ecology", easy, 1,
			"Organisms that make their own food are called:",
			abcd("Consumers", "Decomposers", "Producers", "Predators"), "C",
			"Producers (autotrophs) make food, usually by photosynthesis."),

		// ─── English ───────────────────────────────────────────────────
		mcq("eng-001", "English", "Grammar", easy, 1,
			"Choose the correct form: She ___ to school every day.",
			abcd("go", "goes", "going", "gone"), "B",
			"Third-person singular present takes -es."),
		mcq("eng-002", "English", "Grammar", medium, 2,
			"Identify the adverb: He ran quickly to the station.",
			abcd("ran", "quickly", "station", "to"), "B",
			"'Quickly' modifies the verb 'ran'."),
		mcq("eng-003", "English", "Vocabulary", medium, 3,
			"Choose the word closest in meaning to 'benevolent'.",
			abcd("Kind", "Hostile", "Lazy", "Careful"), "A",
			"Benevolent means well-meaning and kindly."),
		mcq("eng-004", "English", "Comprehension", hard, 4,
			"In 'The committee has reached its decision', the verb agrees with:",
			abcd("A plural subject", "A collective noun treated as a unit", "The object", "An implied subject"), "B",
			"The committee acts as a single unit, so the verb is singular."),
		{
			ID:              "eng-005",
			Subject:         "English",
			Topic:           "Literature",
			Difficulty:      medium,
			QuestionType:    model.QuestionTypeTheory,
			QuestionText:    "Name the figure of speech in 'The wind whispered through the trees'.",
			CorrectAnswer:   model.Single("personification"),
			Explanation:     "Human behaviour (whispering) is attributed to the wind.",
			DifficultyScore: 3,
		},
	}
	return qs
}
