package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"prose around", "İşte sonuç:\n{\"a\":1}\nUmarım yardımcı olur.", `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":[1,2]}\n```", `{"a":[1,2]}`, true},
		{"truncated", `Sonuç: {"a":[{"b":1},{"c":`, `{"a":[{"b":1}`, true},
		{"no object", "üzgünüm", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractJSON(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepairJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing commas", `{"a":[1,2,],}`, `{"a":[1,2]}`},
		{"missing closers", `{"captains":[{"name":"A"}`, `{"captains":[{"name":"A"}]}`},
		{"dangling string", `{"captains":[{"name":"A","shift":"x"},{"name":"B","sh`, `{"captains":[{"name":"A","shift":"x"}]}`},
		{"dangling key", `{"captains":[{"name":"A"},{"name":"B","shift":`, `{"captains":[{"name":"A"}]}`},
		{"open array value", `{"captains":[`, `{"captains":[]}`},
		{"numeric tail", `{"a":"x","n":5`, `{"a":"x","n":5}`},
		{"brackets inside strings", `{"a":"[{","b":[1`, `{"a":"[{","b":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RepairJSON(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)), got)
		})
	}
}

func TestRepairJSON_ValidInputUnchanged(t *testing.T) {
	t.Parallel()
	in := `{"captains":[{"name":"Ahmet Yılmaz","position":"CAPTAIN","shift":"18:00-K"}],"supervisors":[]}`
	assert.Equal(t, in, RepairJSON(in))
}

func TestDecodeAIResponse(t *testing.T) {
	t.Parallel()
	p, err := DecodeAIResponse("```json\n" + `{"captains":[{"name":"Ahmet Yılmaz","position":"J. CAPTAIN","shift":"18:00-K"}],"extraPersonnel":[{"name":"CAN DEMİR","tables":99,"shift":"17:00-04:00","isBackground":"false"}],"servicePoints":"none"}` + "\n```")
	require.NoError(t, err)
	require.Len(t, p.Captains, 1)
	assert.Equal(t, "Ahmet Yılmaz", p.Captains[0].Name.trimmed())
	assert.Equal(t, "J. CAPTAIN", string(p.Captains[0].Position))
	require.Len(t, p.ExtraPersonnel, 1)
	assert.Equal(t, "99", string(p.ExtraPersonnel[0].Tables))
	assert.False(t, bool(p.ExtraPersonnel[0].IsBackground))
}

func TestDecodeAIResponse_RepairsTruncation(t *testing.T) {
	t.Parallel()
	p, err := DecodeAIResponse(`{"captains":[{"name":"A","shift":"18:00"},{"name":"B","sh`)
	require.NoError(t, err)
	require.Len(t, p.Captains, 1)
	assert.Equal(t, "A", string(p.Captains[0].Name))
}

func TestDecodeAIResponse_Unrecoverable(t *testing.T) {
	t.Parallel()
	_, err := DecodeAIResponse("no json here")
	require.Error(t, err)

	_, err = DecodeAIResponse(`{"captains": [nonsense}`)
	require.Error(t, err)
}
