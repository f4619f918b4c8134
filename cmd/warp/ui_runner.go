package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"warp/internal/driver"
	"warp/internal/ir"
	"warp/internal/ui"
)

func runPipelineWithUI(g *ir.Graph, root ir.ModuleID, passes []string) error {
	events := make(chan driver.Event, 64)
	outcome := make(chan error, 1)

	go func() {
		pipeline := driver.Pipeline{
			Registry: driver.DefaultRegistry(),
			Events:   events,
		}
		outcome <- pipeline.Run(g, root, passes)
		close(events)
	}()

	model := ui.NewProgressModel("warp pipeline", passes, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	err := <-outcome
	if uiErr != nil {
		return uiErr
	}
	return err
}
