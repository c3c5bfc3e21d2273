package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// Command kinds the rule pass recognizes outside the query enum
type commandKind int

const (
	commandNone commandKind = iota
	commandAddPendency
	commandListPendencies
)

// pendencyCommand carries what the rule pass extracted from a payment phrase
type pendencyCommand struct {
	kind   commandKind
	name   string
	amount float64
	month  string
}

var (
	// The multiplier suffix is captured next to the number so names like
	// "Kelly" or a stray "mil" elsewhere never scale the amount
	reAmount    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(mil\b|k\b)?`)
	reNameToken = regexp.MustCompile(namePattern)

	months = []string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	}

	// Capitalized words that show up in payment phrases but are not names
	notNames = map[string]bool{
		"tem": true, "que": true, "está": true, "devendo": true,
		"reais": true, "mil": true, "mês": true, "quem": true,
	}
)

// detectPendencyCommand recognizes payment phrases like
// "João Silva está devendo 5000 de outubro" and "quem está devendo?"
func detectPendencyCommand(input string) (pendencyCommand, bool) {
	lower := strings.ToLower(input)
	if !containsAny(lower, "devendo", "deve", "pendência", "pendencia", "pendências", "pendencias") {
		return pendencyCommand{}, false
	}

	if containsAny(lower, "quem", "lista", "pendentes") {
		return pendencyCommand{kind: commandListPendencies}, true
	}

	if !containsAny(lower, "tem", "há", "existe", "está", "ta ") {
		return pendencyCommand{}, false
	}

	cmd := pendencyCommand{kind: commandAddPendency}

	if m := reAmount.FindStringSubmatch(input); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if m[2] != "" {
				v *= 1000
			}
			cmd.amount = v
		}
	}

	for _, month := range months {
		if strings.Contains(lower, month) {
			cmd.month = month
			break
		}
	}

	for _, candidate := range reNameToken.FindAllString(input, -1) {
		if !notNames[strings.ToLower(candidate)] {
			cmd.name = candidate
			break
		}
	}

	return cmd, true
}

// menteePayload is what the creation command extracts from free text.
// Validation failures become natural-language asks, not API errors.
type menteePayload struct {
	FullName string `validate:"required,min=3"`
	Email    string `validate:"required,email"`
	Cohort   string
	Phone    string
}

var (
	reEmail  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	reCohort = regexp.MustCompile(`(?i)turma\s+([^,]+)`)
	rePhone  = regexp.MustCompile(`(?i)(?:telefone|tel|fone)\s*:?\s*([0-9()\s-]+)`)
)

// defaultCohort is assigned when the phrase names none
const defaultCohort = "2024-2"

// extractMenteePayload parses "Cadastrar João Silva, email joao@email.com,
// turma 2024-2, telefone (11) 99999-0000" style phrases
func extractMenteePayload(input string) menteePayload {
	payload := menteePayload{Cohort: defaultCohort}

	if m := reCreateRest.FindStringSubmatch(input); m != nil {
		name := strings.TrimSpace(m[1])
		// Phrases without commas run the name into the email part
		if loc := reEmail.FindStringIndex(name); loc != nil {
			name = strings.TrimSpace(name[:loc[0]])
		}
		name = trimTrailingWord(name, "email", "e-mail", "com")
		if lowered := strings.ToLower(name); strings.HasPrefix(lowered, "mentorado ") ||
			strings.HasPrefix(lowered, "mentorada ") {
			name = strings.TrimSpace(name[len("mentorado "):])
		}
		payload.FullName = name
	}
	if m := reEmail.FindString(input); m != "" {
		payload.Email = m
	}
	if m := reCohort.FindStringSubmatch(input); m != nil {
		payload.Cohort = strings.TrimSpace(m[1])
	}
	if m := rePhone.FindStringSubmatch(input); m != nil {
		payload.Phone = strings.TrimSpace(m[1])
	}

	return payload
}

// trimTrailingWord drops trailing connective words left over from the cut
func trimTrailingWord(s string, words ...string) string {
	s = strings.TrimSpace(s)
	for trimmed := true; trimmed; {
		trimmed = false
		for _, w := range words {
			lowered := strings.ToLower(s)
			if strings.HasSuffix(lowered, " "+w) {
				s = strings.TrimSpace(s[:len(s)-len(w)-1])
				trimmed = true
			}
		}
	}
	return s
}
