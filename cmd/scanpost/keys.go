package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit    key.Binding
	NextField key.Binding
	Report    key.Binding
	Scan      key.Binding
	Refresh   key.Binding
	ExportCSV key.Binding
	ExportXLS key.Binding
	Logout    key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Report:    key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "report")),
		Scan:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "scan")),
		Refresh:   key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "refresh")),
		ExportCSV: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export csv")),
		ExportXLS: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "export xlsx")),
		Logout:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}
