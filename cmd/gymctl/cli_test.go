package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/pkg/jwt"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const tasksFixture = `[
  {"id":"t1","title":"Ligar para renovar","member_id":"m1","priority":"high","status":"todo","due_date":"2024-06-01"},
  {"id":"t2","title":"Follow up","lead_id":"l1","priority":"low","status":"doing"},
  {"id":"t3","title":"Avaliacao","member_id":"m1","priority":"low","status":"todo","due_date":"2024-06-09"},
  {"id":"t4","title":"Feito","priority":"low","status":"done"}
]`

const membersFixture = `{"items":[{"id":"m1","full_name":"Ana Souza","plan_name":"Plano Anual"}],"total":1,"page":1,"page_size":100}`

func TestTasksGroup(t *testing.T) {
	tasks := writeFile(t, "tasks.json", tasksFixture)
	members := writeFile(t, "members.json", membersFixture)

	out, err := execute(t, "", "tasks", "group", "--tasks", tasks, "--members", members, "--today", "2024-06-05")
	require.NoError(t, err)

	var board entities.TaskBoard
	require.NoError(t, json.Unmarshal([]byte(out), &board))

	require.Len(t, board.Groups, 2)
	assert.Equal(t, "Ana Souza", board.Groups[0].Label)
	require.NotNil(t, board.Groups[0].PlanType)
	assert.Equal(t, entities.PlanTypeAnual, *board.Groups[0].PlanType)
	assert.Equal(t, "Leads sem aluno (CRM)", board.Groups[1].Label)
	// badges count the whole listing, including the hidden and done tasks
	assert.Equal(t, 4, board.Total)
	assert.Equal(t, 3, board.Pending)
	assert.Equal(t, 1, board.HiddenFuture)
	assert.Equal(t, "2024-06-05", board.Today)
	assert.Equal(t, entities.PlanFilterAll, board.PlanFilter)
}

func TestTasksGroupFromStdinWithPlanFilter(t *testing.T) {
	out, err := execute(t, tasksFixture, "tasks", "group", "--tasks", "-", "--plan", "mensal", "--today", "2024-06-05")
	require.NoError(t, err)

	var board entities.TaskBoard
	require.NoError(t, json.Unmarshal([]byte(out), &board))
	// without the member listing m1 has no known plan, so no group passes
	assert.Empty(t, board.Groups)
	assert.Equal(t, entities.PlanFilterMensal, board.PlanFilter)
}

func TestTasksGroupRejectsUnknownPlan(t *testing.T) {
	tasks := writeFile(t, "tasks.json", tasksFixture)

	_, err := execute(t, "", "tasks", "group", "--tasks", tasks, "--plan", "trimestral")
	assert.ErrorIs(t, err, entities.ErrInvalidPlanFilter)
}

func TestTasksGroupYAML(t *testing.T) {
	tasks := writeFile(t, "tasks.json", tasksFixture)

	out, err := execute(t, "", "tasks", "group", "--tasks", tasks, "--today", "2024-06-05", "--show-done", "-o", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, true, doc["show_done"])
	assert.Equal(t, 4, doc["total"])
	assert.Contains(t, out, "hidden_future: 1")
}

func TestUnsupportedOutput(t *testing.T) {
	_, err := execute(t, "", "ocr", "extract", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported output "xml"`)
}

func TestOCRExtractFromStdin(t *testing.T) {
	out, err := execute(t, "Peso: 72,5 kg\nIMC: 24.3", "ocr", "extract")
	require.NoError(t, err)

	var result entities.BodyCompositionOcrResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Values.WeightKg)
	assert.Equal(t, 72.5, *result.Values.WeightKg)
	require.NotNil(t, result.Values.BMI)
	assert.Equal(t, 24.3, *result.Values.BMI)
	assert.NotEmpty(t, result.Warnings)
}

func TestOCRExtractEmptyInput(t *testing.T) {
	_, err := execute(t, "", "ocr", "extract")
	require.Error(t, err)
}

func TestDashboardViewModel(t *testing.T) {
	executive := writeFile(t, "executive.json", `{"mrr": 12500.5, "total_members": 120}`)
	retention := writeFile(t, "retention.json", `{"red":{"total":3,"items":[]},"yellow":{"total":0,"items":[]},"nps_trend":[]}`)
	churn := writeFile(t, "churn.json", `[{"month":"2024-05","churn_rate":2.5}]`)

	out, err := execute(t, "", "dashboard", "viewmodel",
		"--executive", executive, "--retention", retention, "--churn", churn)
	require.NoError(t, err)

	var vm entities.DashboardViewModel
	require.NoError(t, json.Unmarshal([]byte(out), &vm))
	assert.Equal(t, 12500.5, vm.Cards.Revenue)
	assert.Equal(t, 3, vm.Cards.HighRiskMembers)
	assert.True(t, vm.HasData)
	require.Len(t, vm.Alerts, 1)
	assert.Equal(t, "high-risk", vm.Alerts[0].ID)
	require.Len(t, vm.RetentionChart, 1)
	assert.Equal(t, "2024-05", vm.RetentionChart[0].Month)
}

func TestDashboardViewModelWithoutFeeds(t *testing.T) {
	out, err := execute(t, "", "dashboard", "viewmodel")
	require.NoError(t, err)

	var vm entities.DashboardViewModel
	require.NoError(t, json.Unmarshal([]byte(out), &vm))
	assert.False(t, vm.HasData)
	assert.Empty(t, vm.Alerts)
}

func TestToken(t *testing.T) {
	const (
		userID = "6f1c2a1e-8a43-4c55-9a3b-2a1f0d7e9c11"
		gymID  = "0b8f6d3a-3c2e-4f4a-a1e7-5d9c8b7a6f54"
	)

	out, err := execute(t, "", "token", "--secret", "s3cret", "--issuer", "gym-api",
		"--user", userID, "--gym", gymID, "--role", "manager")
	require.NoError(t, err)

	var got tokenOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	claims, err := jwt.NewManager("s3cret", 0, "gym-api").ValidateAccessToken(got.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, gymID, claims.GymID)
	assert.Equal(t, "manager", claims.Role)
}

func TestTokenValidation(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := execute(t, "", "token")
	require.Error(t, err)

	_, err = execute(t, "", "token", "--secret", "x", "--role", "janitor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown role "janitor"`)

	_, err = execute(t, "", "token", "--secret", "x", "--user", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --user")
}
