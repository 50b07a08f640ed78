package tui

import "github.com/Veraticus/safe-to-spend/internal/report"

type reportLoadedMsg struct {
	err    error
	report *report.Report
}
