package domain

// PersonaKind enumerates the tones the assistant knows
type PersonaKind int

const (
	PersonaOther PersonaKind = iota
	PersonaProfessional
	PersonaCasual
	PersonaFunny
)

// Persona is the tone selected by the visitor. Unknown labels are kept
// verbatim as PersonaOther so they can still be logged.
type Persona struct {
	Kind  PersonaKind
	Label string
}

// ParsePersona maps a label to a persona by exact match
func ParsePersona(label string) Persona {
	switch label {
	case "Professional":
		return Persona{Kind: PersonaProfessional, Label: label}
	case "Casual":
		return Persona{Kind: PersonaCasual, Label: label}
	case "Funny":
		return Persona{Kind: PersonaFunny, Label: label}
	default:
		return Persona{Kind: PersonaOther, Label: label}
	}
}

// Directive returns the tone instructions appended to the system prompt
func (p Persona) Directive() string {
	switch p.Kind {
	case PersonaProfessional:
		return "Use a polished, recruiter-friendly, professional tone.\n" +
			"Keep answers concise and career-focused."
	case PersonaCasual:
		return "Use a friendly, relaxed, and conversational tone.\n" +
			"Write as if chatting with a colleague or friend."
	case PersonaFunny:
		return "Use a playful, funny, witty, and casual tone while representing Jordan 😎.\n" +
			"Sprinkle clever jokes 😄, puns, or light humor that anyone can relate to 🎯.\n" +
			"Use casual Filipino/Taglish expressions sparingly when it fits, or a relatable hugot line 💔.\n" +
			"Feel free to use emojis, but don't overdo it 😉.\n" +
			"Always match the language or dialect of the user 🌍.\n" +
			"Keep it approachable, clear, and recruiter-friendly ✅."
	default:
		return ""
	}
}
