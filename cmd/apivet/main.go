package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"apivet/internal/contract"
	"apivet/internal/curl"
	"apivet/internal/executor"
	"apivet/internal/ir"
	"apivet/internal/parser"
	"apivet/internal/reporter"
	"apivet/internal/rules"
)

func main() {
	var (
		specPath    = flag.String("spec", "", "Path to YAML check file")
		curlCmd     = flag.String("curl", "", "One-off cURL command (legacy rule set)")
		outDir      = flag.String("out", "reports", "Output directory for artifacts")
		name        = flag.String("name", "", "Optional run name override")
		jsonOut     = flag.Bool("json", true, "Write JSON results")
		junitOut    = flag.Bool("junit", true, "Write JUnit XML results")
		htmlOut     = flag.Bool("html", true, "Write HTML report")
		verbose     = flag.Bool("v", false, "Verbose: print failure details")
		openapiPath = flag.String("openapi", "", "Path to OpenAPI (YAML/JSON) for contract checks")
		timeout     = flag.Duration("timeout", executor.DefaultTimeout, "Per-request timeout")
		maxDepth    = flag.Int("max-depth", 5, "Maximum field extraction depth")
		parallel    = flag.Int("parallel", 1, "Number of checks to execute in parallel")
		failFast    = flag.Bool("fail-fast", false, "Stop after first failing check (forces --parallel=1)")
		listRules   = flag.Bool("list-rules", false, "Print the rule-type catalog and exit")
	)
	flag.Parse()

	if *listRules {
		printCatalog()
		return
	}

	file, err := loadChecks(*specPath, *curlCmd)
	if err != nil {
		fail("%v", err)
	}
	if *name != "" {
		file.Name = *name
	}

	// Fail-fast enforces sequential execution
	if *failFast && *parallel != 1 {
		*parallel = 1
	}

	r := executor.NewWithTimeout(*timeout).
		WithMaxDepth(*maxDepth).
		WithParallel(*parallel).
		WithFailFast(*failFast)

	// Contract document: flag wins; else file.openapi (relative to the spec)
	openapiFile := *openapiPath
	if openapiFile == "" && file.OpenAPI != "" {
		if *specPath != "" && !filepath.IsAbs(file.OpenAPI) {
			openapiFile = filepath.Join(filepath.Dir(*specPath), file.OpenAPI)
		} else {
			openapiFile = file.OpenAPI
		}
	}
	if openapiFile != "" {
		v, err := contract.LoadFromFile(openapiFile)
		if err != nil {
			fail("openapi load: %v", err)
		}
		r = r.WithContract(v)
	}

	res, err := r.RunChecks(context.Background(), file)
	if err != nil {
		fail("execute: %v", err)
	}

	// Artifacts
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fail("mkdir out: %v", err)
	}
	runName := file.Name
	if runName == "" {
		runName = "apivet"
	}

	var jsonPath string
	if *jsonOut {
		jsonPath = filepath.Join(*outDir, "results.json")
		writeOrDie(jsonPath, func(f *os.File) error {
			return reporter.WriteJSON(f, res)
		})
	}
	if *junitOut {
		writeOrDie(filepath.Join(*outDir, "junit.xml"), func(f *os.File) error {
			return reporter.WriteJUnit(f, runName, res)
		})
	}
	if *htmlOut {
		htmlPath := filepath.Join(*outDir, "report.html")
		if jsonPath != "" {
			writeOrDie(htmlPath, func(f *os.File) error {
				return reporter.WriteHTMLFromJSONPath(f, runName, jsonPath)
			})
		} else {
			writeOrDie(htmlPath, func(f *os.File) error {
				return reporter.WriteHTML(f, runName, res)
			})
		}
	}

	// Failure summary (or verbose print)
	if !res.Passed || *verbose {
		printFailures(res)
	}

	if res.Passed {
		fmt.Println("PASS")
		os.Exit(0)
	}
	fmt.Println("FAIL")
	os.Exit(1)
}

// loadChecks builds the check file from --spec or wraps a one-off --curl
// command (which runs with the legacy rule set).
func loadChecks(specPath, curlCmd string) (*ir.CheckFile, error) {
	switch {
	case specPath != "" && curlCmd != "":
		return nil, fmt.Errorf("--spec and --curl are mutually exclusive")
	case specPath != "":
		data, err := os.ReadFile(specPath)
		if err != nil {
			return nil, fmt.Errorf("read spec: %w", err)
		}
		file, err := parser.New().ParseBytes(data)
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		return file, nil
	case curlCmd != "":
		if _, err := curl.Parse(curlCmd); err != nil {
			return nil, err
		}
		return &ir.CheckFile{
			Name:   "apivet",
			Checks: []ir.Check{{Name: "check", Curl: curlCmd}},
		}, nil
	default:
		return nil, fmt.Errorf("missing --spec or --curl")
	}
}

func printFailures(res *executor.RunResult) {
	for _, c := range res.Checks {
		if c.Passed && c.ContractError == "" {
			continue
		}
		if c.Passed {
			fmt.Fprintf(os.Stderr, "\nContract violation (check passed): %s\n", c.Name)
			fmt.Fprintf(os.Stderr, "  - %s: %s\n", c.ContractRoute, c.ContractError)
			continue
		}
		fmt.Fprintf(os.Stderr, "\nCheck FAILED: %s\n", c.Name)
		if c.Verdict == nil {
			fmt.Fprintf(os.Stderr, "  - %s\n", c.Error)
			continue
		}
		if c.Verdict.Error != "" {
			fmt.Fprintf(os.Stderr, "  - %s\n", c.Verdict.Error)
		}
		for _, o := range c.Verdict.Outcomes {
			if o.Result == ir.Pass {
				continue
			}
			fmt.Fprintf(os.Stderr, "  - %s: %s (expected %s, actual %s)\n",
				o.RuleName, o.Reason, o.Expected, o.Actual)
		}
		if c.ContractError != "" {
			fmt.Fprintf(os.Stderr, "  - contract %s: %s\n", c.ContractRoute, c.ContractError)
		}
	}
}

func printCatalog() {
	for _, in := range rules.Catalog() {
		fmt.Printf("%-18s %-12s %s\n", in.Type, in.Category, in.Description)
		fmt.Printf("%-18s %-12s e.g. %s\n", "", "", in.Example)
	}
}

// ---- helpers ----

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", a...)
	os.Exit(2)
}

func writeOrDie(path string, fn func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		fail("create %s: %v", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		fail("write %s: %v", path, err)
	}
}
