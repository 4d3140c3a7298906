package main

import (
	"testing"

	"github.com/goccy/go-json"
	. "github.com/onsi/gomega"
)

func TestSearchCmd(t *testing.T) {
	g := NewWithT(t)
	env := setupProject(t)

	output, err := executeCommand([]string{"search", "--env-file", env, "--author", "smith"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(output).To(ContainSubstring("ISSUE"))
	g.Expect(output).To(ContainSubstring("2001-01"))
	g.Expect(output).To(ContainSubstring("Foo"))
	g.Expect(output).NotTo(ContainSubstring("Bar"))
	g.Expect(output).To(ContainSubstring("1 of 1 matches shown"))
}

func TestSearchCmdJSON(t *testing.T) {
	g := NewWithT(t)
	env := setupProject(t)

	output, err := executeCommand([]string{"search", "--env-file", env, "--from", "2001-02", "--limit", "1", "-o", "json"})
	g.Expect(err).NotTo(HaveOccurred())

	var resp struct {
		Total    int `json:"total"`
		Returned int `json:"returned"`
		Items    []struct {
			Title  string `json:"title"`
			Author string `json:"author"`
		} `json:"items"`
	}
	g.Expect(json.Unmarshal([]byte(output), &resp)).To(Succeed())
	g.Expect(resp.Total).To(Equal(2))
	g.Expect(resp.Returned).To(Equal(1))
	g.Expect(resp.Items[0].Title).To(Equal("Bar"))
}

func TestSearchCmdJapanese(t *testing.T) {
	g := NewWithT(t)
	env := setupProject(t)

	output, err := executeCommand([]string{"search", "--env-file", env, "--title", "電源"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(output).To(ContainSubstring("電源回路"))
	g.Expect(output).To(ContainSubstring("山田"))
}

func TestSearchCmdInvalidRegex(t *testing.T) {
	g := NewWithT(t)
	env := setupProject(t)

	output, err := executeCommand([]string{"search", "--env-file", env, "--title", "(", "--title-mode", "regex"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(output).To(ContainSubstring("Invalid title regex pattern."))
	g.Expect(output).To(ContainSubstring("0 of 0 matches shown"))
}

func TestSearchCmdErrors(t *testing.T) {
	env := setupProject(t)

	for _, tt := range []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad mode", []string{"--title-mode", "fuzzy"}, "invalid match mode"},
		{"bad range", []string{"--from", "2001-00"}, "invalid --from"},
		{"bad output", []string{"-o", "yaml"}, "invalid output format"},
		{"missing source", []string{"--data", "/nonexistent/TR.txt"}, "source file not found"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			_, err := executeCommand(append([]string{"search", "--env-file", env}, tt.args...))
			g.Expect(err).To(HaveOccurred())
			g.Expect(err.Error()).To(ContainSubstring(tt.wantErr))
		})
	}
}
