package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/flitsinc/jsonstream/decoder"
	"github.com/flitsinc/jsonstream/value"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Decode stdin and live-redraw the growing snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(newWatchModel())
		_, err := p.Run()
		return err
	},
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

type snapshotMsg struct {
	val value.Value
}

type decodeErrMsg struct {
	err error
}

type decodeDoneMsg struct{}

type watchModel struct {
	updates chan tea.Msg
	current string
	err     error
	done    bool
}

func newWatchModel() watchModel {
	return watchModel{updates: make(chan tea.Msg, 16)}
}

func (m watchModel) Init() tea.Cmd {
	go m.runDecode()
	return m.waitForUpdate
}

func (m watchModel) runDecode() {
	source := decoder.NewByteSource(&stdinChunkSource{r: os.Stdin, chunkSize: chunk})
	dec := decoder.New(source, decoder.WithMaxDepth(maxDepth))
	ctx := context.Background()
	for val, err := range dec.Iter(ctx) {
		if err != nil {
			m.updates <- decodeErrMsg{err: err}
			return
		}
		m.updates <- snapshotMsg{val: val}
	}
	m.updates <- decodeDoneMsg{}
}

func (m watchModel) waitForUpdate() tea.Msg {
	return <-m.updates
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case snapshotMsg:
		rendered, err := renderSnapshot(msg.val)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.current = rendered
		return m, m.waitForUpdate
	case decodeErrMsg:
		m.err = msg.err
		return m, tea.Quit
	case decodeDoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("error: %v\n", m.err))
	}
	status := "decoding..."
	if m.done {
		status = "done"
	}
	return titleStyle.Render("jsonstream watch") + "  " + status + "\n\n" + bodyStyle.Render(m.current) + "\n"
}
