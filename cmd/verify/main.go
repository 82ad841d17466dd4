// Package main - verify
// Executable to run the known-answer verification suite against the
// cipher engine.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/putra-as-kyuutora/enigma-server/test"
)

func main() {
	fmt.Println("ENIGMA ENGINE - KNOWN ANSWER VERIFICATION")
	fmt.Println("=========================================")

	suite := test.NewKnownAnswerSuite()
	suite.RunAll()

	results := suite.GetResults()
	passed := 0
	failed := 0

	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("VERIFICATION SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("   Passed: %d\n", passed)
	fmt.Printf("   Failed: %d\n", failed)

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Printf("   [%s] %-24s %s\n", status, r.ScenarioName, r.Reason)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
