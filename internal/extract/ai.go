package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/llm"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/sheet"
	"github.com/sells-group/roster-cli/internal/textnorm"
)

// AI strategy defaults.
const (
	DefaultAITimeout      = 60 * time.Second
	DefaultMaxPromptChars = 4000
	DefaultTemperature    = 0.1
	DefaultMaxTokens      = 3000
)

// AIAssisted asks a language model to read the serialized sheet. Any failure
// (timeout, provider error, unreadable JSON) yields an empty, unparsed result
// so the classic strategies carry the run.
type AIAssisted struct {
	Completer      llm.Completer
	Timeout        time.Duration
	MaxPromptChars int
	Temperature    float64
	MaxTokens      int64
}

// NewAIAssisted returns an AIAssisted strategy with default limits.
func NewAIAssisted(c llm.Completer) *AIAssisted {
	return &AIAssisted{
		Completer:      c,
		Timeout:        DefaultAITimeout,
		MaxPromptChars: DefaultMaxPromptChars,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
	}
}

// Source implements Strategy.
func (a *AIAssisted) Source() Source { return SourceAIAssisted }

// Extract implements Strategy. It never returns an error.
func (a *AIAssisted) Extract(ctx context.Context, in Input) (*PartialResult, error) {
	empty := &PartialResult{Source: SourceAIAssisted, Colors: in.Colors}
	if a.Completer == nil || in.Sheet.Empty() {
		return empty, nil
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sections := in.Sections
	if sections == nil {
		sections = sheet.DetectSections(in.Sheet)
	}
	text := sheet.Serialize(sections, a.MaxPromptChars)

	start := time.Now()
	resp, err := a.Completer.Complete(ctx, llm.Request{
		SystemPrompt: SystemPrompt(),
		UserPrompt:   UserPrompt(text),
		Temperature:  a.Temperature,
		MaxTokens:    a.MaxTokens,
	})
	if err != nil {
		zap.L().Warn("extract: ai completion failed, continuing with classic strategies",
			zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return empty, nil
	}

	payload, err := DecodeAIResponse(resp.Text)
	if err != nil {
		zap.L().Warn("extract: ai response unreadable, continuing with classic strategies",
			zap.Int("response_len", len(resp.Text)), zap.Error(err))
		return empty, nil
	}

	out := payload.toPartial(in)
	zap.L().Info("extract: ai parsed roster",
		zap.Int("captains", len(out.Captains)),
		zap.Int("supervisors", len(out.Supervisors)),
		zap.Int("loca_captains", len(out.LocaCaptains)),
		zap.Int("extra", len(out.ExtraPersonnel)),
		zap.Int("support_teams", len(out.SupportTeams)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// AIPayload is the JSON object the model is asked to return. Service points
// and table assignments are requested for context but not read.
type AIPayload struct {
	Captains           []aiCaptain     `json:"captains"`
	Supervisors        []aiPerson      `json:"supervisors"`
	LocaCaptains       []aiLocaCaptain `json:"locaCaptains"`
	ExtraPersonnel     []aiExtra       `json:"extraPersonnel"`
	SupportTeamMembers []aiSupport     `json:"supportTeamMembers"`
}

type aiPerson struct {
	Name  looseString `json:"name"`
	Shift looseString `json:"shift"`
	Area  looseString `json:"area"`
}

type aiCaptain struct {
	aiPerson
	Position looseString `json:"position"`
}

type aiLocaCaptain struct {
	aiPerson
	LocaNumbers looseString `json:"locaNumbers"`
}

type aiExtra struct {
	Name         looseString `json:"name"`
	Tables       looseString `json:"tables"`
	Shift        looseString `json:"shift"`
	IsBackground looseBool   `json:"isBackground"`
}

type aiSupport struct {
	Name        looseString `json:"name"`
	Position    looseString `json:"position"`
	Assignment  looseString `json:"assignment"`
	Shift       looseString `json:"shift"`
	TeamName    looseString `json:"teamName"`
	IsNotComing looseBool   `json:"isNotComing"`
}

// DecodeAIResponse finds the JSON object in a model response and decodes it,
// running RepairJSON once when the raw text does not parse.
func DecodeAIResponse(text string) (*AIPayload, error) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, eris.New("extract: no JSON object in ai response")
	}
	var p AIPayload
	if err := json.Unmarshal([]byte(raw), &p); err == nil {
		return &p, nil
	}
	repaired := RepairJSON(raw)
	if err := json.Unmarshal([]byte(repaired), &p); err != nil {
		return nil, eris.Wrap(err, "extract: decode repaired ai response")
	}
	zap.L().Debug("extract: ai response repaired", zap.Int("raw_len", len(raw)), zap.Int("repaired_len", len(repaired)))
	return &p, nil
}

func (p *AIPayload) toPartial(in Input) *PartialResult {
	out := &PartialResult{Source: SourceAIAssisted, Parsed: true, Colors: in.Colors}

	for _, c := range p.Captains {
		name := c.Name.trimmed()
		if name == "" {
			continue
		}
		out.Captains = append(out.Captains, model.Captain{
			Entry: entry(in.Matcher, name, ParseShift(string(c.Shift))),
			Rank:  aiRank(string(c.Position)),
			Area:  c.Area.trimmed(),
		})
	}
	for _, s := range p.Supervisors {
		if name := s.Name.trimmed(); name != "" {
			out.Supervisors = append(out.Supervisors, model.Supervisor{
				Entry: entry(in.Matcher, name, ParseShift(string(s.Shift))),
				Area:  s.Area.trimmed(),
			})
		}
	}
	for _, l := range p.LocaCaptains {
		if name := l.Name.trimmed(); name != "" {
			out.LocaCaptains = append(out.LocaCaptains, model.LocaCaptain{
				Entry: entry(in.Matcher, name, ParseShift(string(l.Shift))),
				Area:  l.Area.trimmed(),
			})
		}
	}
	for _, e := range p.ExtraPersonnel {
		name := e.Name.trimmed()
		if name == "" || bool(e.IsBackground) || IsBackground(name) {
			continue
		}
		out.ExtraPersonnel = append(out.ExtraPersonnel, model.ExtraPersonnel{
			Entry:    entry(in.Matcher, name, ParseShift(string(e.Shift))),
			TableIDs: ParseTableIDs(string(e.Tables)),
		})
	}

	teams := make(map[string]int)
	for _, s := range p.SupportTeamMembers {
		name := s.Name.trimmed()
		assignment := s.Assignment.trimmed()
		if name == "" || bool(s.IsNotComing) || strings.Contains(textnorm.Fold(assignment), "GELMEYECEK") {
			continue
		}
		team := s.TeamName.trimmed()
		if team == "" {
			team = DefaultSupportTeamName
		}
		i, ok := teams[team]
		if !ok {
			out.SupportTeams = append(out.SupportTeams, model.SupportTeam{Name: team, Color: supportTeamColor(len(out.SupportTeams))})
			i = len(out.SupportTeams) - 1
			teams[team] = i
		}
		out.SupportTeams[i].Members = append(out.SupportTeams[i].Members, model.SupportTeamMember{
			Entry:          entry(in.Matcher, name, ParseShift(string(s.Shift))),
			TeamName:       team,
			Position:       positionOr(strings.ToUpper(s.Position.trimmed())),
			AssignmentText: assignment,
			TableIDs:       ParseTableIDs(assignment),
		})
	}
	return out
}

func aiRank(position string) model.CaptainRank {
	folded := strings.ReplaceAll(textnorm.Fold(position), " ", "")
	switch {
	case strings.HasPrefix(folded, "J.") || strings.HasPrefix(folded, "J_"):
		return model.RankJCaptain
	case folded == "INCHARGE":
		return model.RankIncharge
	default:
		return model.RankCaptain
	}
}

// looseString accepts strings, numbers and null from model output. Arrays
// are flattened into a dash-joined list so "tables":[1,2,3] reads as "1-2-3".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var items []looseString
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			if v := it.trimmed(); v != "" {
				parts = append(parts, v)
			}
		}
		*s = looseString(strings.Join(parts, "-"))
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(b)
	return nil
}

func (s looseString) trimmed() string { return strings.TrimSpace(string(s)) }

// looseBool accepts booleans, "true"/"false" strings and 0/1.
type looseBool bool

func (v *looseBool) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	parsed, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		*v = false
		return nil
	}
	*v = looseBool(parsed)
	return nil
}
