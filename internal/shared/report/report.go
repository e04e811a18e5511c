// Package report renders script progress and remediation output on the
// console.
package report

import (
	"github.com/pterm/pterm"
)

// Section prints a section header for the script phase that is starting.
func Section(title string) {
	pterm.DefaultSection.Println(title)
}

// Step prints a progress line.
func Step(format string, args ...any) {
	pterm.Info.Printf(format+"\n", args...)
}

// Success prints a success line.
func Success(format string, args ...any) {
	pterm.Success.Printf(format+"\n", args...)
}

// Warning prints a warning line.
func Warning(format string, args ...any) {
	pterm.Warning.Printf(format+"\n", args...)
}

// Failure prints an error line.
func Failure(format string, args ...any) {
	pterm.Error.Printf(format+"\n", args...)
}

// Table renders a header row plus data rows.
func Table(header []string, rows [][]string) {
	data := pterm.TableData{header}
	data = append(data, rows...)
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// SQLRemediation prints the SQL an operator should paste into the project's
// SQL editor after a fatal failure.
func SQLRemediation(reason, sql string) {
	pterm.Error.Println(reason)
	pterm.Println()
	pterm.Println("Apply the remaining SQL manually in the SQL editor:")
	pterm.Println()
	pterm.Println(sql)
}
