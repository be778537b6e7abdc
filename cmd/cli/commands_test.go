package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amirasaad/txnimport/internal/fixtures"
	"github.com/amirasaad/txnimport/pkg/app"
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/importer"
	authsvc "github.com/amirasaad/txnimport/pkg/service/auth"
	"github.com/amirasaad/txnimport/webapi/testutils"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = `"Booking Date","Value Date","Partner Name","Partner Iban",Type,"Payment Reference","Account Name","Amount (EUR)","Original Amount","Original Currency","Exchange Rate"
2024-01-05,2024-01-05,Esselunga,,MasterCard Payment,,Main,-23.40,,,
2024-01-06,2024-01-06,ACME SRL,,Credit Transfer,Stipendio,Main,1500.00,,,
`

func testLoader(t *testing.T) (appLoader, *app.App) {
	t.Helper()
	color.NoColor = true
	uow, _ := fixtures.NewTestUoW(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(config.Deps{
		Uow:        uow,
		Dispatcher: importer.NewDispatcher(importer.DefaultRegistry(), uow, nil, logger),
		Logger:     logger,
		Config:     testutils.NewTestConfig(),
	})
	return func() (*app.App, func(), error) { return a, func() {}, nil }, a
}

func runCLI(t *testing.T, load appLoader, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(load)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFormats(t *testing.T) {
	load, _ := testLoader(t)
	out, err := runCLI(t, load, "formats")
	require.NoError(t, err)
	assert.Contains(t, out, "n26")
	assert.Contains(t, out, "generic")
}

func TestImportAndExport(t *testing.T) {
	load, _ := testLoader(t)
	user := uuid.New().String()

	_, err := runCLI(t, load, "profile", "--user", user, "--first", "Marco", "--last", "Rossi")
	require.NoError(t, err)

	out, err := runCLI(t, load, "accounts", "add", "--user", user,
		"--name", "N26", "--iban", "DE89370400440532013000", "--bank-type", "n26", "--main")
	require.NoError(t, err)
	assert.Contains(t, out, "Account 1 created")

	out, err = runCLI(t, load, "accounts", "list", "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "* ")
	assert.Contains(t, out, "DE89370400440532013000")
	assert.NotContains(t, out, "No main account")

	file := filepath.Join(t.TempDir(), "n26.csv")
	require.NoError(t, os.WriteFile(file, []byte(statement), 0o600))
	out, err = runCLI(t, load, "import", "--user", user, "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 rows (2 new, 0 skipped) as n26")

	exportPath := filepath.Join(t.TempDir(), "export.csv")
	_, err = runCLI(t, load, "export", "--user", user, "--out", exportPath)
	require.NoError(t, err)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "table_name,id,name,"))
	assert.Contains(t, string(data), "Esselunga")
}

func TestImport_RequiresProfile(t *testing.T) {
	load, _ := testLoader(t)
	file := filepath.Join(t.TempDir(), "n26.csv")
	require.NoError(t, os.WriteFile(file, []byte(statement), 0o600))

	_, err := runCLI(t, load, "import", "--user", uuid.New().String(), "--file", file)
	require.Error(t, err)
}

func TestInvalidUserFlag(t *testing.T) {
	load, _ := testLoader(t)
	_, err := runCLI(t, load, "accounts", "list", "--user", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --user")
}

func TestToken(t *testing.T) {
	load, a := testLoader(t)
	id := uuid.New()
	out, err := runCLI(t, load, "token", "--user", id.String(), "--username", "marco")
	require.NoError(t, err)

	var token string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "token: ") {
			token = strings.TrimPrefix(line, "token: ")
		}
	}
	require.NotEmpty(t, token)
	identity, err := a.AuthService.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, authsvc.Identity{UserID: id, Username: "marco"}, identity)
}
