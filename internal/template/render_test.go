package template

import (
	"strings"
	"testing"
)

func nodeParams(services ...string) Params {
	return Params{
		ProjectName:  "my-app",
		AwsAccountID: "123456789012",
		AwsEcrRegion: "us-east-1",
		ProjectType:  "nodejs",
		Port:         8080,
		Services:     services,
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	first, err := Render(nodeParams("redis", "postgres"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := Render(nodeParams("postgres", "redis"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if first != second {
		t.Error("renders with the same inputs differ")
	}
}

func TestRenderNodejsScaffolding(t *testing.T) {
	files, err := Render(nodeParams())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(files.Dockerfile, "node:22-alpine") {
		t.Errorf("Dockerfile missing nodejs base image:\n%s", files.Dockerfile)
	}
	if !strings.Contains(files.Dockerfile, "npm start") {
		t.Errorf("Dockerfile missing start command:\n%s", files.Dockerfile)
	}

	if !strings.Contains(files.DevelopmentYml, "8080:8080") {
		t.Errorf("development stack should publish the app port:\n%s", files.DevelopmentYml)
	}
	if strings.Contains(files.TestYml, "8080:8080") {
		t.Errorf("test stack should not publish ports:\n%s", files.TestYml)
	}

	uri := "123456789012.dkr.ecr.us-east-1.amazonaws.com/my-app"
	if !strings.Contains(files.ProductionYml, uri+":latest") {
		t.Errorf("production stack should reference %s:latest:\n%s", uri, files.ProductionYml)
	}
	if !strings.Contains(files.ProductionYml, "my-app-environment") {
		t.Errorf("production stack should mount the environment configmap:\n%s", files.ProductionYml)
	}
}

func TestRenderEnabledServices(t *testing.T) {
	files, err := Render(nodeParams("postgres"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, stack := range []string{files.DevelopmentYml, files.TestYml} {
		if !strings.Contains(stack, "postgres:16-alpine") {
			t.Errorf("stack missing postgres service:\n%s", stack)
		}
		if !strings.Contains(stack, "DATABASE_URL=postgresql://postgres@postgres/my_app") {
			t.Errorf("app service missing rendered DATABASE_URL:\n%s", stack)
		}
	}

	plain, err := Render(nodeParams())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(plain.DevelopmentYml, "postgres") {
		t.Errorf("disabled service leaked into the stack:\n%s", plain.DevelopmentYml)
	}
}

func TestRenderRejectsUnknownProjectType(t *testing.T) {
	p := nodeParams()
	p.ProjectType = "cobol"
	if _, err := Render(p); err == nil {
		t.Fatal("expected unsupported project-type error")
	}
}
