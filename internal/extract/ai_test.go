package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/llm"
	"github.com/sells-group/roster-cli/internal/model"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

// blockingCompleter waits for the context to end, like a stalled provider.
type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

const aiReply = `Tabii, işte JSON:
{"captains":[{"name":"Ahmet Yılmaz","position":"J.CAPTAIN","shift":"19:00-K","area":"SALON"}],
"supervisors":[{"name":"Sabri Ölmez","shift":"16:00-K"}],
"locaCaptains":[{"name":"Zeynep Arslan","shift":"17:00-04:00","locaNumbers":"1-4"}],
"extraPersonnel":[{"name":"Meryem Zamanı","tables":"","shift":"","isBackground":true},{"name":"Can Demir","tables":"99-100","shift":"17:00-04:00","isBackground":false}],
"supportTeamMembers":[{"name":"Kemal Ak","position":"PERSONEL","assignment":"GELMEYECEK","shift":"","teamName":"","isNotComing":true},{"name":"Deniz Kurt","position":"spvr","assignment":"16-17","shift":"K","teamName":""}],
"servicePoints":[{"name":"ANA BAR","type":"bar","staff":[]}],"tableAssignments":[{"name":"x","tables":"1-2-3","shift":"","columnGroup":1}]}`

func TestAIAssisted_Extract(t *testing.T) {
	t.Parallel()
	c := &mockCompleter{}
	c.On("Complete", mock.Anything, mock.MatchedBy(func(r llm.Request) bool {
		return r.SystemPrompt == SystemPrompt() &&
			strings.HasPrefix(r.UserPrompt, "Excel verisi:\n\n=== EXCEL VERİSİ ===") &&
			strings.Contains(r.UserPrompt, "[0] A:PERSONEL") &&
			r.Temperature == DefaultTemperature &&
			r.MaxTokens == DefaultMaxTokens
	})).Return(&llm.Response{Text: aiReply}, nil).Once()

	in := testInput([][]any{{"PERSONEL", "POZİSYON", "POSTA", "SAAT"}})
	out, err := NewAIAssisted(c).Extract(context.Background(), in)
	require.NoError(t, err)
	c.AssertExpectations(t)

	assert.True(t, out.Parsed)
	assert.Equal(t, SourceAIAssisted, out.Source)
	assert.Empty(t, out.Groups, "ai groups are never produced")
	assert.Empty(t, out.ServicePoints)

	require.Len(t, out.Captains, 1)
	assert.Equal(t, model.RankJCaptain, out.Captains[0].Rank)
	assert.Equal(t, "19:00", out.Captains[0].ShiftStart)
	assert.Equal(t, "06:00", out.Captains[0].ShiftEnd)
	assert.Equal(t, "s4", out.Captains[0].Match.StaffID)

	require.Len(t, out.Supervisors, 1)
	require.Len(t, out.LocaCaptains, 1)
	assert.Equal(t, "04:00", out.LocaCaptains[0].ShiftEnd)

	require.Len(t, out.ExtraPersonnel, 1, "background entries are dropped")
	assert.Equal(t, "Can Demir", out.ExtraPersonnel[0].StaffName)

	require.Len(t, out.SupportTeams, 1)
	assert.Equal(t, DefaultSupportTeamName, out.SupportTeams[0].Name)
	require.Len(t, out.SupportTeams[0].Members, 1, "not-coming members are dropped")
	assert.Equal(t, "SPVR", out.SupportTeams[0].Members[0].Position)
	assert.Equal(t, []string{"16", "17"}, out.SupportTeams[0].Members[0].TableIDs)
}

func TestAIAssisted_TimeoutDegradesToEmpty(t *testing.T) {
	t.Parallel()
	a := NewAIAssisted(blockingCompleter{})
	a.Timeout = 10 * time.Millisecond

	in := testInput([][]any{{"Ahmet Yılmaz", "CAPTAIN"}})
	start := time.Now()
	out, err := a.Extract(context.Background(), in)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.False(t, out.Parsed)
	assert.True(t, out.Empty())
	assert.Empty(t, out.Warnings)
}

func TestAIAssisted_ProviderErrorDegradesToEmpty(t *testing.T) {
	t.Parallel()
	c := &mockCompleter{}
	c.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("503 overloaded")).Once()

	out, err := NewAIAssisted(c).Extract(context.Background(), testInput([][]any{{"x", "y"}}))
	require.NoError(t, err)
	assert.False(t, out.Parsed)
	assert.True(t, out.Empty())
}

func TestAIAssisted_UnreadableResponseDegradesToEmpty(t *testing.T) {
	t.Parallel()
	c := &mockCompleter{}
	c.On("Complete", mock.Anything, mock.Anything).Return(&llm.Response{Text: "Üzgünüm, yardımcı olamam."}, nil).Once()

	out, err := NewAIAssisted(c).Extract(context.Background(), testInput([][]any{{"x", "y"}}))
	require.NoError(t, err)
	assert.False(t, out.Parsed)
	assert.True(t, out.Empty())
}

func TestAIAssisted_DisabledWithoutCompleter(t *testing.T) {
	t.Parallel()
	in := testInput([][]any{{"x", "y"}})
	_, in.Colors = in.Colors.Next()

	out, err := NewAIAssisted(nil).Extract(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, out.Parsed)
	assert.Equal(t, 1, out.Colors.Used(), "colors pass through untouched")
}

func TestAIAssisted_PromptIsBounded(t *testing.T) {
	t.Parallel()
	grid := make([][]any, 500)
	for i := range grid {
		grid[i] = []any{"UZUN BİR PERSONEL ADI", "PERSONEL", "1-2-3-4", "18:00-K"}
	}
	c := &mockCompleter{}
	c.On("Complete", mock.Anything, mock.MatchedBy(func(r llm.Request) bool {
		return len([]rune(r.UserPrompt)) <= DefaultMaxPromptChars+len([]rune(UserPrompt("")))
	})).Return(&llm.Response{Text: `{}`}, nil).Once()

	out, err := NewAIAssisted(c).Extract(context.Background(), testInput(grid))
	require.NoError(t, err)
	assert.True(t, out.Parsed)
	c.AssertExpectations(t)
}

func TestDecodeAIResponse_TableArrays(t *testing.T) {
	p, err := DecodeAIResponse(`{"extraPersonnel":[{"name":"Ali Veli","tables":[1,2,3]},{"name":"Can Su","tables":["4","5"]},{"name":"Ece Ak","tables":[]}]}`)
	require.NoError(t, err)
	require.Len(t, p.ExtraPersonnel, 3)

	assert.Equal(t, "1-2-3", string(p.ExtraPersonnel[0].Tables))
	assert.Equal(t, []string{"1", "2", "3"}, ParseTableIDs(string(p.ExtraPersonnel[0].Tables)))
	assert.Equal(t, []string{"4", "5"}, ParseTableIDs(string(p.ExtraPersonnel[1].Tables)))
	assert.Empty(t, string(p.ExtraPersonnel[2].Tables))
}
