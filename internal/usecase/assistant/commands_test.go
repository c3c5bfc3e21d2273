package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPendencyCommand_Add(t *testing.T) {
	cmd, ok := detectPendencyCommand("João Silva está devendo 5 mil reais do mês de outubro")

	require.True(t, ok)
	assert.Equal(t, commandAddPendency, cmd.kind)
	assert.Equal(t, "João Silva", cmd.name)
	assert.Equal(t, 5000.0, cmd.amount)
	assert.Equal(t, "outubro", cmd.month)
}

func TestDetectPendencyCommand_PlainAmount(t *testing.T) {
	cmd, ok := detectPendencyCommand("Tem pendência da Maria, está devendo 350 reais de janeiro")

	require.True(t, ok)
	assert.Equal(t, commandAddPendency, cmd.kind)
	assert.Equal(t, 350.0, cmd.amount)
	assert.Equal(t, "janeiro", cmd.month)
	assert.Equal(t, "Maria", cmd.name)
}

func TestDetectPendencyCommand_MultiplierOnlyOnAmountSuffix(t *testing.T) {
	// A "k" in the name must not scale the amount
	cmd, ok := detectPendencyCommand("Kelly está devendo 500 reais de outubro")

	require.True(t, ok)
	assert.Equal(t, "Kelly", cmd.name)
	assert.Equal(t, 500.0, cmd.amount)

	cmd, ok = detectPendencyCommand("Kelly está devendo 2k de outubro")

	require.True(t, ok)
	assert.Equal(t, 2000.0, cmd.amount)
}

func TestDetectPendencyCommand_List(t *testing.T) {
	for _, input := range []string{
		"Quem está devendo?",
		"Lista as pendências",
		"Mostra os pagamentos pendentes em pendência",
	} {
		cmd, ok := detectPendencyCommand(input)
		require.True(t, ok, input)
		assert.Equal(t, commandListPendencies, cmd.kind, input)
	}
}

func TestDetectPendencyCommand_NotAPaymentPhrase(t *testing.T) {
	for _, input := range []string{
		"Quantos mentorados temos?",
		"Oi, tudo bem?",
		"Cadastrar João Silva, email joao@email.com",
	} {
		_, ok := detectPendencyCommand(input)
		assert.False(t, ok, input)
	}
}

func TestExtractMenteePayload_Full(t *testing.T) {
	p := extractMenteePayload("Cadastrar João Silva, email joao@email.com, turma 2025-1, telefone (11) 99999-0000")

	assert.Equal(t, "João Silva", p.FullName)
	assert.Equal(t, "joao@email.com", p.Email)
	assert.Equal(t, "2025-1", p.Cohort)
	assert.Equal(t, "(11) 99999-0000", p.Phone)
}

func TestExtractMenteePayload_DefaultCohort(t *testing.T) {
	p := extractMenteePayload("Cadastrar Maria Santos, email maria@email.com")

	assert.Equal(t, "Maria Santos", p.FullName)
	assert.Equal(t, defaultCohort, p.Cohort)
}

func TestExtractMenteePayload_NoCommas(t *testing.T) {
	p := extractMenteePayload("Cadastrar Maria Santos email maria@email.com")

	assert.Equal(t, "Maria Santos", p.FullName)
	assert.Equal(t, "maria@email.com", p.Email)
}

func TestExtractMenteePayload_MenteeWordStripped(t *testing.T) {
	p := extractMenteePayload("Cadastrar mentorado Pedro Costa, email pedro@email.com")

	assert.Equal(t, "Pedro Costa", p.FullName)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 5.000,00", formatBRL(5000))
	assert.Equal(t, "R$ 1.200,50", formatBRL(1200.5))
	assert.Equal(t, "R$ 350,00", formatBRL(350))
	assert.Equal(t, "R$ 1.234.567,89", formatBRL(1234567.89))
}
