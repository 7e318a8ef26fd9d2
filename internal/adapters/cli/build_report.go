package cli

import (
	"fmt"
	"io"
	"time"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type reportOutput interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Stdout() io.Writer
	Stderr() io.Writer
}

// BuildError is one page- or target-level problem collected during a run.
type BuildError struct {
	Page    string
	Message string
	Details []string
}

type BuildReport struct {
	out         reportOutput
	steps       []*BuildStep
	warnings    []BuildError
	errors      []BuildError
	startTime   time.Time
	pageCount   int
	outputDir   string
	hasFailures bool
}

func NewBuildReport(out reportOutput, outputDir string) *BuildReport {
	return &BuildReport{
		out:       out,
		startTime: time.Now(),
		outputDir: outputDir,
	}
}

func (r *BuildReport) SetPageCount(count int) {
	r.pageCount = count
}

func (r *BuildReport) StartStep(name string) *BuildStep {
	step := &BuildStep{
		Name:      name,
		StartTime: time.Now(),
	}
	r.steps = append(r.steps, step)
	return step
}

func (r *BuildReport) EndStep(step *BuildStep, success bool, err string) {
	step.EndTime = time.Now()
	step.Success = success
	step.Error = err
	if !success {
		r.hasFailures = true
	}
}

func (r *BuildReport) AddWarning(page string, message string, details []string) {
	r.warnings = append(r.warnings, BuildError{Page: page, Message: message, Details: details})
}

func (r *BuildReport) AddError(page string, message string, details []string) {
	r.errors = append(r.errors, BuildError{Page: page, Message: message, Details: details})
	r.hasFailures = true
}

func (r *BuildReport) Warnings() []BuildError { return r.warnings }
func (r *BuildReport) Errors() []BuildError   { return r.errors }

func (r *BuildReport) HasFailures() bool {
	return r.hasFailures
}

func (r *BuildReport) Render() {
	duration := time.Since(r.startTime)
	if len(r.errors) == 0 && len(r.warnings) == 0 {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *BuildReport) renderMinimal(duration time.Duration) {
	w := r.out.Stdout()
	fmt.Fprintf(w, "  %s%d pages\n", r.out.Green("✓ "), r.pageCount)

	var failed []string
	for _, step := range r.steps {
		if !step.Success {
			failed = append(failed, "  "+r.out.Red("✗ ")+step.Name)
		}
	}

	if len(failed) == 0 {
		fmt.Fprintf(w, "  %sDone in %s\n", r.out.Green("✓ "), formatDuration(duration))
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failed steps:")
		for _, line := range failed {
			fmt.Fprintln(w, line)
		}
	}

	r.renderOutputDir(w)
}

func (r *BuildReport) renderVerbose(duration time.Duration) {
	w := r.out.Stdout()
	fmt.Fprintf(w, "  %d pages\n\n", r.pageCount)
	for _, step := range r.steps {
		status := r.out.Green("✓")
		if !step.Success {
			status = r.out.Red("✗")
		}
		fmt.Fprintf(w, "  %s %s\n", status, step.Name)
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(r.out.Stderr(), "  %sErrors (%d):\n", r.out.Red("✗ "), len(r.errors))
		r.renderProblems(w, r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %sWarnings (%d):\n", r.out.Yellow("⚠ "), len(r.warnings))
		r.renderProblems(w, r.warnings)
	}

	fmt.Fprintln(w)
	if len(r.errors) > 0 {
		fmt.Fprintf(r.out.Stderr(), "  %s\n", r.out.Red(fmt.Sprintf("Finished with %d errors after %s", len(r.errors), formatDuration(duration))))
	} else {
		fmt.Fprintf(w, "  %sDone in %s\n", r.out.Green("✓ "), formatDuration(duration))
	}

	r.renderOutputDir(w)
}

func (r *BuildReport) renderOutputDir(w io.Writer) {
	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderProblems(w io.Writer, problems []BuildError) {
	for _, p := range problems {
		fmt.Fprintf(w, "  %s %s\n", r.out.Red("✗"), p.Page)
		fmt.Fprintf(w, "    %s\n", p.Message)
		for _, detail := range deduplicateStrings(p.Details) {
			fmt.Fprintf(w, "      • %s\n", detail)
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings collapses repeats into "item (n occurrences)", keeping
// first-seen order.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int, len(items))
	var order []string
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}
	return result
}
