package suite_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"todocheck/internal/backend/todoapi"
	"todocheck/internal/schema"
	"todocheck/internal/suite"
	"todocheck/internal/twin"
)

// newEnv builds a suite environment against h.
func newEnv(t *testing.T, h http.Handler) *suite.Env {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	v, err := schema.New()
	if err != nil {
		t.Fatalf("failed to compile schemas: %v", err)
	}
	return &suite.Env{
		Client:  todoapi.New(context.Background(), srv.URL, todoapi.Options{}),
		Schemas: v,
	}
}

// override serves fn for requests matching method and path prefix and the twin otherwise.
func override(method, prefix string, fn http.HandlerFunc) http.Handler {
	base := twin.NewRouter(twin.NewStore(), nil)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == method && strings.HasPrefix(r.URL.Path, prefix) {
			fn(w, r)
			return
		}
		base.ServeHTTP(w, r)
	})
}

func resultFor(t *testing.T, report *suite.Report, name string) suite.Result {
	t.Helper()
	for _, r := range report.Results {
		if r.Scenario == name {
			return r
		}
	}
	t.Fatalf("no result for scenario %s", name)
	return suite.Result{}
}

func TestScenarios_AgainstTwin(t *testing.T) {
	env := newEnv(t, twin.NewRouter(twin.NewStore(), nil))
	env.ListCount = suite.DefaultListCount

	for _, s := range suite.Default() {
		t.Run(s.Name, func(t *testing.T) {
			if err := s.Run(context.Background(), env); err != nil {
				t.Fatalf("scenario failed: %v", err)
			}
		})
	}
}

func TestRunner_AllPass(t *testing.T) {
	env := newEnv(t, twin.NewRouter(twin.NewStore(), nil))
	report := suite.NewRunner(env).Run(context.Background(), "")

	if !report.Passed {
		t.Fatalf("expected all scenarios to pass, got %+v", report.Results)
	}
	passed, failed := report.Counts()
	if passed != len(suite.Default()) || failed != 0 {
		t.Errorf("expected %d passed 0 failed, got %d/%d", len(suite.Default()), passed, failed)
	}
	if report.Endpoint == "" {
		t.Error("expected endpoint in report")
	}
}

func TestRunner_ListCountIsRespected(t *testing.T) {
	store := twin.NewStore()
	env := newEnv(t, twin.NewRouter(store, nil))
	env.ListCount = 5

	report := suite.NewRunner(env).Run(context.Background(), "list_tasks")
	if !report.Passed {
		t.Fatalf("expected list_tasks to pass, got %+v", report.Results)
	}
	if store.Len() != 5 {
		t.Errorf("expected 5 tasks created, got %d", store.Len())
	}
}

func TestRunner_Filter(t *testing.T) {
	env := newEnv(t, twin.NewRouter(twin.NewStore(), nil))
	runner := suite.NewRunner(env)

	report := runner.Run(context.Background(), "task")
	for _, r := range report.Results {
		if r.Scenario == "call_endpoint" {
			t.Error("call_endpoint should be filtered out")
		}
	}
	if len(report.Results) != 5 {
		t.Errorf("expected 5 scenarios matching 'task', got %d", len(report.Results))
	}

	report = runner.Run(context.Background(), "no_such_scenario")
	if report.Passed || len(report.Results) != 0 {
		t.Errorf("expected empty failed report, got %+v", report)
	}
}

func TestRunner_WrongCountFailsOnlyList(t *testing.T) {
	h := override("GET", "/list-tasks/", func(w http.ResponseWriter, r *http.Request) {
		twin.JSON(w, http.StatusOK, map[string]any{"tasks": []any{
			map[string]any{"task_id": "task_x", "user_id": "u", "content": "c", "is_done": false},
		}})
	})
	env := newEnv(t, h)
	report := suite.NewRunner(env).Run(context.Background(), "")

	if report.Passed {
		t.Fatal("expected report to fail")
	}
	list := resultFor(t, report, "list_tasks")
	if list.Passed {
		t.Fatal("expected list_tasks to fail")
	}
	if !strings.Contains(list.Error, "task count: expected 3, got 1") {
		t.Errorf("unexpected error %q", list.Error)
	}
	if !resultFor(t, report, "delete_task").Passed {
		t.Error("a failing scenario must not affect the ones after it")
	}
}

func TestRunner_SchemaViolation(t *testing.T) {
	h := override("GET", "/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		twin.JSON(w, http.StatusOK, map[string]any{"msg": "hello"})
	})
	env := newEnv(t, h)
	report := suite.NewRunner(env).Run(context.Background(), "call_endpoint")

	res := resultFor(t, report, "call_endpoint")
	if res.Passed {
		t.Fatal("expected call_endpoint to fail on schema")
	}
	if !strings.Contains(res.Error, schema.CallEndpoint) {
		t.Errorf("expected schema name in error, got %q", res.Error)
	}
}

func TestRunner_DeleteThatDoesNotDelete(t *testing.T) {
	h := override("DELETE", "/delete-task/", func(w http.ResponseWriter, r *http.Request) {
		twin.JSON(w, http.StatusOK, map[string]any{"deleted_task_id": "task_x"})
	})
	env := newEnv(t, h)
	report := suite.NewRunner(env).Run(context.Background(), "delete_task")

	res := resultFor(t, report, "delete_task")
	if res.Passed {
		t.Fatal("expected delete_task to fail")
	}
	if !strings.Contains(res.Error, "get after delete: expected status 404, got 200") {
		t.Errorf("unexpected error %q", res.Error)
	}
}

func TestRunner_UpdateIgnored(t *testing.T) {
	h := override("PUT", "/update-task", func(w http.ResponseWriter, r *http.Request) {
		twin.JSON(w, http.StatusOK, map[string]any{"updated_task_id": "task_x"})
	})
	env := newEnv(t, h)
	report := suite.NewRunner(env).Run(context.Background(), "update_task")

	res := resultFor(t, report, "update_task")
	if res.Passed {
		t.Fatal("expected update_task to fail")
	}
	if !strings.Contains(res.Error, "content: expected "+suite.UpdatedContent) {
		t.Errorf("unexpected error %q", res.Error)
	}
}

func TestRunner_ServerErrorOnCreate(t *testing.T) {
	h := override("PUT", "/create-task", func(w http.ResponseWriter, r *http.Request) {
		twin.JSON(w, http.StatusInternalServerError, map[string]any{"detail": "db down"})
	})
	env := newEnv(t, h)
	report := suite.NewRunner(env).Run(context.Background(), "create_task")

	res := resultFor(t, report, "create_task")
	if res.Passed || !strings.Contains(res.Error, "create: expected status 200, got 500") {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	env := newEnv(t, twin.NewRouter(twin.NewStore(), nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := suite.NewRunner(env).Run(ctx, "")
	if len(report.Results) != len(suite.Default()) {
		t.Fatalf("expected every scenario recorded, got %d", len(report.Results))
	}
	for _, res := range report.Results {
		if res.Passed || !strings.HasPrefix(res.Error, "skipped: ") {
			t.Errorf("expected %s to be skipped, got %+v", res.Scenario, res)
		}
	}
	if report.Passed {
		t.Error("a cancelled run must not pass")
	}
}

func TestRunner_CancelledMidRun(t *testing.T) {
	env := newEnv(t, twin.NewRouter(twin.NewStore(), nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := 0
	first := suite.Scenario{Name: "first", Run: func(ctx context.Context, e *suite.Env) error {
		ran++
		cancel()
		return nil
	}}
	second := suite.Scenario{Name: "second", Run: func(ctx context.Context, e *suite.Env) error {
		ran++
		return nil
	}}

	report := suite.NewRunner(env, first, second).Run(ctx, "")
	if ran != 1 {
		t.Errorf("expected only the first scenario to run, ran %d", ran)
	}
	if report.Passed {
		t.Error("an interrupted run must not pass")
	}
	if !resultFor(t, report, "first").Passed {
		t.Error("first scenario completed and should pass")
	}
	if res := resultFor(t, report, "second"); res.Passed || res.Error != "skipped: context canceled" {
		t.Errorf("expected second to be skipped, got %+v", res)
	}
}

func TestRunner_FailureBodyKeepsUTF8(t *testing.T) {
	body := strings.Repeat("a", 199) + strings.Repeat("€", 5)
	env := newEnv(t, override(http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(body))
	}))

	report := suite.NewRunner(env).Run(context.Background(), "call_endpoint")
	res := resultFor(t, report, "call_endpoint")
	if res.Passed {
		t.Fatal("expected call_endpoint to fail")
	}
	if !utf8.ValidString(res.Error) {
		t.Errorf("failure message is not valid UTF-8: %q", res.Error)
	}
	if !strings.HasSuffix(res.Error, strings.Repeat("a", 199)+"...") {
		t.Errorf("expected body cut before the split rune, got %q", res.Error)
	}
}

func TestRunner_CustomScenarios(t *testing.T) {
	env := newEnv(t, twin.NewRouter(twin.NewStore(), nil))
	called := false
	custom := suite.Scenario{Name: "custom", Run: func(ctx context.Context, e *suite.Env) error {
		called = true
		return nil
	}}

	report := suite.NewRunner(env, custom).Run(context.Background(), "")
	if !called || len(report.Results) != 1 || !report.Passed {
		t.Errorf("custom scenario not run as expected: %+v", report)
	}
}
