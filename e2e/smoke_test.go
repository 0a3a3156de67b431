//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const repoRootRel = ".."   // relative to ./e2e
const mainPkgRel = "./cmd" // main.go lives in cmd/

const sampleRows = "2011-01-01,0.3,0.6,0.2,50,200,250,0,1\n" +
	"2011-01-02,0.4,0.5,0.15,80,300,380,1,2\n"

const header = "dteday,temp,hum,windspeed,casual,registered,cnt,workingday,weathersit"

func TestSmoke_CSV(t *testing.T) {
	datasetPath := startCSVFixture(t)
	bin := buildBinary(t, repoRootPath(t))
	addr := startServer(t, bin, datasetPath)
	client := &http.Client{Timeout: 10 * time.Second}

	assertHealthy(t, client, addr)

	status, body := get(t, client, "http://"+addr+"/")
	if status != http.StatusOK {
		t.Fatalf("GET / status=%d want=%d", status, http.StatusOK)
	}
	if got := strings.Count(body, "<figure"); got != 6 {
		t.Errorf("GET / figures=%d want=6", got)
	}

	status, body = get(t, client, "http://"+addr+"/api/v1/dataset/preview")
	if status != http.StatusOK {
		t.Fatalf("GET preview status=%d want=%d", status, http.StatusOK)
	}
	var preview struct {
		Rows [][]string `json:"rows"`
	}
	if err := json.Unmarshal([]byte(body), &preview); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if len(preview.Rows) != 2 || preview.Rows[0][0] != "2011-01-01" || preview.Rows[1][0] != "2011-01-02" {
		t.Errorf("preview rows=%v", preview.Rows)
	}

	status, body = get(t, client, "http://"+addr+"/api/v1/dataset/correlation")
	if status != http.StatusOK {
		t.Fatalf("GET correlation status=%d want=%d", status, http.StatusOK)
	}
	var corr struct {
		Values [][]*float64 `json:"values"`
	}
	if err := json.Unmarshal([]byte(body), &corr); err != nil {
		t.Fatalf("decode correlation: %v", err)
	}
	if len(corr.Values) != 6 {
		t.Fatalf("correlation rows=%d want=6", len(corr.Values))
	}
	for i := range corr.Values {
		if corr.Values[i][i] == nil || *corr.Values[i][i] != 1 {
			t.Errorf("diagonal[%d]=%v want 1", i, corr.Values[i][i])
		}
	}

	status, _ = get(t, client, "http://"+addr+"/metrics")
	if status != http.StatusOK {
		t.Errorf("GET /metrics status=%d want=%d", status, http.StatusOK)
	}
}

func TestSmoke_SQLite(t *testing.T) {
	datasetPath := startSQLiteFixture(t)
	bin := buildBinary(t, repoRootPath(t))
	addr := startServer(t, bin, datasetPath)
	client := &http.Client{Timeout: 10 * time.Second}

	assertHealthy(t, client, addr)

	status, body := get(t, client, "http://"+addr+"/")
	if status != http.StatusOK {
		t.Fatalf("GET / status=%d want=%d", status, http.StatusOK)
	}
	if got := strings.Count(body, "<figure"); got != 6 {
		t.Errorf("GET / figures=%d want=6", got)
	}
}

func TestSmoke_RenderMissingDataset(t *testing.T) {
	bin := buildBinary(t, repoRootPath(t))
	out := filepath.Join(t.TempDir(), "report.html")

	cmd := exec.Command(bin, "render", "--dataset", filepath.Join(t.TempDir(), "absent.csv"), "--out", out)
	cmd.Env = append(os.Environ(), "APP_ENV=dev", "LOG_LEVEL=error")
	err := cmd.Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("render err=%v want non-zero exit", err)
	}
	b, readErr := os.ReadFile(out)
	if readErr != nil {
		t.Fatalf("partial page not written: %v", readErr)
	}
	if !strings.Contains(string(b), "dataset not found") {
		t.Errorf("partial page missing error block")
	}
}

// startCSVFixture writes the sample dataset from a container into a bind
// mounted host directory and returns the host path.
func startCSVFixture(t *testing.T) string {
	t.Helper()

	hostDir := t.TempDir()
	script := "printf '%s\\n%s' '" + header + "' '" + sampleRows + "' > /data/day.csv && " +
		"echo 'dataset ready' && tail -f /dev/null"

	startContainer(t, tc.ContainerRequest{
		Image:      "alpine:3.20",
		Entrypoint: []string{"sh", "-c"},
		Cmd:        []string{script},
		HostConfigModifier: func(hc *container.HostConfig) {
			hc.Binds = append(hc.Binds, hostDir+":/data")
		},
		WaitingFor: wait.ForLog("dataset ready").WithStartupTimeout(30 * time.Second),
	})

	path := filepath.Join(hostDir, "day.csv")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("dataset not created: %v", err)
	}
	return path
}

// startSQLiteFixture creates day.db with a day table holding the sample rows.
func startSQLiteFixture(t *testing.T) string {
	t.Helper()

	hostDir := t.TempDir()
	var inserts strings.Builder
	for _, row := range strings.Split(strings.TrimSpace(sampleRows), "\n") {
		f := strings.Split(row, ",")
		inserts.WriteString("INSERT INTO day VALUES ('" + f[0] + "'," + strings.Join(f[1:], ",") + ");")
	}
	sql := "CREATE TABLE day (dteday TEXT, temp REAL, hum REAL, windspeed REAL, casual INTEGER, " +
		"registered INTEGER, cnt INTEGER, workingday INTEGER, weathersit INTEGER);" + inserts.String()

	startContainer(t, tc.ContainerRequest{
		Image:      "nouchka/sqlite3:latest",
		WorkingDir: "/data",
		Entrypoint: []string{"sh", "-c"},
		Cmd: []string{
			"sqlite3 /data/day.db \"" + sql + "\" && echo 'sqlite ready' && tail -f /dev/null",
		},
		HostConfigModifier: func(hc *container.HostConfig) {
			hc.Binds = append(hc.Binds, hostDir+":/data")
		},
		WaitingFor: wait.ForLog("sqlite ready").WithStartupTimeout(30 * time.Second),
	})

	path := filepath.Join(hostDir, "day.db")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sqlite db file not created: %v", err)
	}
	return path
}

func startContainer(t *testing.T, req tc.ContainerRequest) {
	t.Helper()

	ctx := context.Background()
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start %s container: %v", req.Image, err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})
}

func startServer(t *testing.T, bin, datasetPath string) string {
	t.Helper()

	addr := pickFreeAddr(t)
	cmd := exec.Command(bin, "serve")
	cmd.Env = append(os.Environ(),
		"APP_ENV=dev",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
		"DATASET_PATH="+datasetPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { stopServer(t, cmd) })
	return addr
}

func assertHealthy(t *testing.T, client *http.Client, addr string) {
	t.Helper()

	url := "http://" + addr + "/healthz"
	waitForOK(t, client, url, 5*time.Second)

	status, body := get(t, client, url)
	if status != http.StatusOK {
		t.Fatalf("status=%d want=%d", status, http.StatusOK)
	}
	var decoded map[string]string
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded["status"] != "ok" {
		t.Fatalf("body.status=%q want=%q", decoded["status"], "ok")
	}
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", url, err)
	}
	return resp.StatusCode, string(b)
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	if _, err := os.Stat(filepath.Join(repo, "go.mod")); err != nil {
		t.Fatalf("repo root %q does not contain go.mod: %v", repo, err)
	}

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	out := filepath.Join(t.TempDir(), "bikeshare")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}

func pickFreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen :0: %v", err)
	}
	defer ln.Close()

	return ln.Addr().String()
}

func waitForOK(t *testing.T, client *http.Client, url string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server not healthy after %s: %s", timeout, url)
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Errorf("server did not exit in time")
	case err := <-done:
		if err != nil {
			t.Errorf("server exited with error: %v", err)
		}
	}
}
