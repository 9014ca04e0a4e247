package main

import "github.com/charmbracelet/lipgloss"

var (
	keyword   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Render
	paragraph = lipgloss.NewStyle().Width(78).Padding(0, 0, 0, 2).Render

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	stressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EE6FF8"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)
