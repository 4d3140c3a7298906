package main

import (
	"testing"

	"github.com/goccy/go-json"
	. "github.com/onsi/gomega"

	trdb "github.com/imenihs/TRDB-Searcher"
)

func TestOffsetsCmd(t *testing.T) {
	g := NewWithT(t)
	env := setupProject(t)

	output, err := executeCommand([]string{"offsets", "--env-file", env})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(output).To(ContainSubstring("ISSUE"))
	g.Expect(output).To(MatchRegexp(`2001-01\s+-6`))
	g.Expect(output).To(MatchRegexp(`2001-02\s+2`))
	g.Expect(output).To(MatchRegexp(`2002-03\s+0`))
	g.Expect(output).To(MatchRegexp(`default\s+-3`))
}

func TestOffsetsCmdJSON(t *testing.T) {
	g := NewWithT(t)
	env := setupProject(t)

	output, err := executeCommand([]string{"offsets", "--env-file", env, "-o", "json"})
	g.Expect(err).NotTo(HaveOccurred())

	var table trdb.OffsetTable
	g.Expect(json.Unmarshal([]byte(output), &table)).To(Succeed())
	g.Expect(table.Offsets).To(Equal(map[string]int{"2001-01": -6, "2001-02": 2, "2002-03": 0}))
	g.Expect(table.Default).To(Equal(-3))
}
