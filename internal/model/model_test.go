package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-05", "2024-03-05"},
		{"2024-03-05 10:11:12", "2024-03-05"},
		{"2024-03-05T10:11:12", "2024-03-05"},
		{"2024-03-05T10:11:12Z", "2024-03-05"},
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, d.String(), tt.in)
		assert.False(t, d.IsRaw())
	}

	_, err := ParseDate("next tuesday")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
		Empty Date `json:"empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-01-31","end":null,"empty":""}`), &payload))
	assert.Equal(t, "2024-01-31", payload.Start.String())
	assert.True(t, payload.End.IsZero())
	assert.True(t, payload.Empty.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-01-31","end":null,"empty":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"31/01/2024"}`), &payload))
}

func TestRawDateSurvivesMarshal(t *testing.T) {
	d := RawDate("sometime")
	assert.True(t, d.IsRaw())
	assert.Nil(t, d.Value())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"sometime"`, string(out))
}

func TestDateOfDropsClock(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	d := DateOf(time.Date(2024, 6, 1, 23, 30, 0, 0, loc))
	assert.Equal(t, "2024-06-01", d.String())
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d.Value())
}

func TestEnumParsing(t *testing.T) {
	assert.Equal(t, ProjectArchived, ParseProjectStatus("archived"))
	assert.Equal(t, ProjectUnknown, ParseProjectStatus(""))
	assert.Equal(t, ProjectUnknown, ParseProjectStatus("paused"))

	assert.Equal(t, TaskCompleted, ParseTaskStatus("completed"))
	assert.Equal(t, TaskActive, ParseTaskStatus("whatever"))

	assert.Equal(t, PriorityHigh, ParsePriority("Высокий"))
	assert.Equal(t, PriorityMedium, ParsePriority(""))

	assert.Equal(t, RoleObserver, ParseMemberRole("Наблюдатель"))
	assert.Equal(t, RoleMember, ParseMemberRole("owner"))
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"example.com":          "https://example.com",
		"  example.com/a?b=1 ": "https://example.com/a?b=1",
		"http://example.com":   "http://example.com",
		"https://example.com":  "https://example.com",
		"":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeURL(in), in)
	}
}

func TestNewLinkDefaults(t *testing.T) {
	l := NewLink{URL: "docs.example.com"}
	l.ApplyDefaults()
	assert.Equal(t, DefaultLinkTitle, l.Title)
	assert.Equal(t, DefaultLinkType, l.Type)
	assert.Equal(t, "https://docs.example.com", l.URL)
}

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask{TaskName: "Write docs"}
	task.ApplyDefaults()
	assert.Equal(t, TaskActive, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, Today(), task.StartDate)
}

func TestProjectContactInfo(t *testing.T) {
	p := NewProject{ClientName: "  ACME ", ClientEmail: "ops@acme.test"}
	p.ApplyDefaults()
	assert.Equal(t, ProjectActive, p.Status)
	assert.Equal(t, map[string]any{"email": "ops@acme.test", "client_name": "ACME"}, p.ContactInfo())

	assert.Nil(t, NewProject{}.ContactInfo())
}

func TestEmployeeUpdateEmpty(t *testing.T) {
	assert.True(t, EmployeeUpdate{}.Empty())
	name := "Иванов"
	assert.False(t, EmployeeUpdate{FullName: &name}.Empty())
	assert.False(t, EmployeeUpdate{Contacts: map[string]any{}}.Empty())
}

func TestFlexID(t *testing.T) {
	tests := []struct {
		in      string
		want    FlexID
		wantErr bool
	}{
		{`{"employee_id": 7}`, 7, false},
		{`{"employee_id": "7"}`, 7, false},
		{`{"employee_id": " 12 "}`, 12, false},
		{`{"employee_id": null}`, 0, false},
		{`{"employee_id": ""}`, 0, false},
		{`{}`, 0, false},
		{`{"employee_id": "seven"}`, 0, true},
		{`{"employee_id": 1.5}`, 0, true},
	}
	for _, tt := range tests {
		var m NewMember
		err := json.Unmarshal([]byte(tt.in), &m)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, m.EmployeeID, tt.in)
	}
}

func TestEnumValid(t *testing.T) {
	assert.True(t, ProjectArchived.Valid())
	assert.False(t, ProjectUnknown.Valid())
	assert.True(t, TaskCompleted.Valid())
	assert.False(t, TaskStatus("done").Valid())
	assert.True(t, PriorityLow.Valid())
	assert.False(t, Priority("low").Valid())
	assert.True(t, RoleLead.Valid())
	assert.False(t, MemberRole("owner").Valid())
}
