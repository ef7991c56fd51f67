//go:build basic

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/fleetwatch/slireport/schema"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReportEndToEnd runs the built binary against fake SSO, inventory, and
// metrics backends and checks the JSON report output.
func TestReportEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	// Fake SSO token exchange
	mux.HandleFunc("/protocol/openid-connect/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "access-token", "expires_in": 900}`)
	})

	// Fake inventory search
	mux.HandleFunc("/api/clusters_mgmt/v1/clusters", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [{"id": "int-1", "name": "prod-east", "external_id": "c1"}]}`)
	})

	// Fake Prometheus instant query
	mux.HandleFunc("/api/v1/query", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success","data":{"resultType":"vector","result":[{"metric":{},"value":[1724457600,"0.9971"]}]}}`)
	})

	// Offline token decoded without verification; any signing key works.
	claims := jwt.RegisteredClaims{
		Issuer:    server.URL,
		Audience:  jwt.ClaimStrings{"cloud-services"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	offlineToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)

	workDir := t.TempDir()
	configPath := filepath.Join(workDir, "config.yaml")
	outputPath := filepath.Join(workDir, "report.json")

	configBody := fmt.Sprintf(`
credential:
  inventory_token: %q
  metrics_token: "metrics-token"
endpoints:
  inventory_url: %q
  metrics_url: %q
cluster_selectors:
  - "env='prod'"
global_variables:
  range: 28d
rules:
  - name: API Uptime
    goal: 0.995
    query: "avg(up{${sel}}[${range}])"
`, offlineToken, server.URL, server.URL)
	require.NoError(t, os.WriteFile(configPath, []byte(configBody), 0o600))

	cmd := exec.Command(getReportBinary(), "report",
		"--config", configPath,
		"--output", "json",
		"--output-file", outputPath,
		"--cache-backend", "none",
	)
	cmd.Dir = workDir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "slireport report failed: %s", string(output))

	raw, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var report struct {
		Rows []schema.RowEntry `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(raw, &report))
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "c1", report.Rows[0].ClusterID)
	assert.Equal(t, "API Uptime", report.Rows[0].RuleName)
	assert.Equal(t, schema.PassStatus, report.Rows[0].Status)
	assert.InDelta(t, 0.9971, report.Rows[0].Value, 1e-9)
}

// TestVersionCommand sanity checks the binary runs at all.
func TestVersionCommand(t *testing.T) {
	cmd := exec.Command(getReportBinary(), "version")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "slireport CLI")
}
