package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/hygrotrack/internal/domain/record"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HYGRO_CONFIG_PATH", "HYGRO_DB_PATH", "HYGRO_STANDARDS_PATH", "HYGRO_TRANSPORT",
		"HYGRO_SERVER_PORT", "HYGRO_AUTH_ENABLED", "HYGRO_CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seed(t *testing.T, dbPath string) (alarm, calm string) {
	t.Helper()
	s, err := (&options{dbPath: dbPath}).open()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	high, err := s.records.Create(ctx, "default", record.CreateRequest{
		Factory: "TTT", Department: "Print", Operator: "Somchai", Temperature: "30", Humidity: "55",
	})
	require.NoError(t, err)
	low, err := s.records.Create(ctx, "default", record.CreateRequest{
		Factory: "TN", Department: "Lab", Operator: "Anong", Temperature: "24", Humidity: "40",
	})
	require.NoError(t, err)
	return high.Record.ID, low.Record.ID
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"standards", "classify", "records", "dashboard", "apikey"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestStandardsCommand(t *testing.T) {
	isolateEnv(t)

	out, err := run(t, "standards")
	require.NoError(t, err)
	assert.Contains(t, out, "100% Cotton")
	assert.Contains(t, out, "100% Leather")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 14)
}

func TestClassifyCommand(t *testing.T) {
	isolateEnv(t)

	out, err := run(t, "classify", "--fabric", "100% Cotton", "--humidity", "57")
	require.NoError(t, err)
	assert.Equal(t, "Exceed Standard (limit 56%)\n", out)

	out, err = run(t, "classify", "--fabric", "Silk", "--humidity", "57")
	require.NoError(t, err)
	assert.Contains(t, out, "unclassified")

	_, err = run(t, "classify", "--fabric", "100% Cotton")
	require.Error(t, err)
}

func TestRecordsCommands(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "hygro.db")
	alarm, calm := seed(t, dbPath)

	out, err := run(t, "--db", dbPath, "records", "list")
	require.NoError(t, err)
	assert.Contains(t, out, alarm)
	assert.Contains(t, out, calm)

	out, err = run(t, "--db", dbPath, "records", "list", "--status", "Take Action")
	require.NoError(t, err)
	assert.Contains(t, out, alarm)
	assert.NotContains(t, out, calm)

	out, err = run(t, "--db", dbPath, "records", "show", alarm)
	require.NoError(t, err)
	assert.Contains(t, out, "Take Action")
	assert.Contains(t, out, "TTT / Print (AM1)")
	assert.Contains(t, out, "Activity:")

	_, err = run(t, "--db", dbPath, "records", "show", "missing")
	require.ErrorIs(t, err, record.ErrRecordNotFound)

	out, err = run(t, "--db", dbPath, "--tenant", "other", "records", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, alarm)
}

func TestDashboardCommand(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "hygro.db")
	seed(t, dbPath)

	out, err := run(t, "--db", dbPath, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:")
	assert.Regexp(t, `Take Action:\s+1`, out)
	assert.Regexp(t, `No action needed:\s+1`, out)
}

func TestAPIKeyAddCommand(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "hygro.db")

	out, err := run(t, "--db", dbPath, "--tenant", "qa", "apikey", "add", "--token", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tenant qa token secret\n", out)

	_, err = run(t, "--db", dbPath, "--tenant", "qa", "apikey", "add", "--token", "secret")
	require.Error(t, err)

	s, err := (&options{dbPath: dbPath}).open()
	require.NoError(t, err)
	defer s.Close()
	tenant, err := s.apiKeys.ResolveTenant(context.Background(), "secret")
	require.NoError(t, err)
	assert.Equal(t, "qa", tenant)
}
