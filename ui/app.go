// Package ui provides the Fyne-based windowed client for TeamChat. It is a
// thin adapter over the line protocol: received lines are displayed verbatim,
// entered lines are sent verbatim.
package ui

import (
	"fmt"
	"net"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Miguel28347/TeamChat/pkg/client"
	"github.com/Miguel28347/TeamChat/pkg/version"
)

const (
	defaultServerHost = "localhost"
	defaultServerPort = "5000"
	maxChatLines      = 500
)

// App is the windowed client application.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	engine  *client.Engine

	connectBtn    *widget.Button
	disconnectBtn *widget.Button
	statusLabel   *widget.Label

	chatBox    *fyne.Container
	chatScroll *container.Scroll
	chatEntry  *widget.Entry
}

// NewApp creates the TeamChat GUI application.
func NewApp() *App {
	a := &App{
		fyneApp: app.NewWithID("io.teamchat.client"),
		engine:  client.NewEngine(),
	}
	a.window = a.fyneApp.NewWindow("TeamChat")
	a.window.Resize(fyne.NewSize(640, 480))
	a.window.SetMaster()
	return a
}

// Run starts the GUI application (blocks).
func (a *App) Run() {
	a.buildUI()
	a.bindEvents()
	a.window.SetCloseIntercept(func() {
		a.engine.Disconnect()
		a.fyneApp.Quit()
	})
	a.window.ShowAndRun()
}

func (a *App) buildUI() {
	a.connectBtn = widget.NewButtonWithIcon("Connect", theme.LoginIcon(), a.showConnectDialog)
	a.disconnectBtn = widget.NewButtonWithIcon("Disconnect", theme.LogoutIcon(), func() {
		// Mirrors the console client: a polite /quit, then close.
		_ = a.engine.Send("/quit")
		a.engine.Disconnect()
	})
	a.disconnectBtn.Disable()

	toolbar := container.NewHBox(a.connectBtn, a.disconnectBtn, layout.NewSpacer())

	a.chatBox = container.NewVBox()
	a.chatScroll = container.NewVScroll(a.chatBox)

	a.chatEntry = widget.NewEntry()
	a.chatEntry.SetPlaceHolder("Type a message or /command... (Enter to send)")
	a.chatEntry.Disable()
	a.chatEntry.OnSubmitted = func(text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		if err := a.engine.Send(text); err != nil {
			a.appendLine("[CLIENT] Send failed: " + err.Error())
			return
		}
		a.chatEntry.SetText("")
	}

	a.statusLabel = widget.NewLabel("Disconnected")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	versionLabel := widget.NewLabel(version.String())
	versionLabel.TextStyle = fyne.TextStyle{Italic: true}
	versionLabel.Importance = widget.LowImportance

	statusBar := container.NewHBox(a.statusLabel, layout.NewSpacer(), versionLabel)

	content := container.NewBorder(
		toolbar,
		container.NewVBox(a.chatEntry, statusBar),
		nil, nil,
		a.chatScroll,
	)
	a.window.SetContent(content)
}

func (a *App) bindEvents() {
	a.engine.OnStateChange = func(state client.State) {
		fyne.Do(func() {
			switch state {
			case client.StateDisconnected:
				a.statusLabel.SetText("Disconnected")
				a.connectBtn.Enable()
				a.disconnectBtn.Disable()
				a.chatEntry.Disable()
			case client.StateConnecting:
				a.statusLabel.SetText("Connecting...")
				a.connectBtn.Disable()
			case client.StateConnected:
				a.statusLabel.SetText("Connected")
				a.connectBtn.Disable()
				a.disconnectBtn.Enable()
				a.chatEntry.Enable()
			}
		})
	}

	a.engine.OnLine = func(line string) {
		fyne.Do(func() {
			a.appendLine(line)
		})
	}

	a.engine.OnDisconnect = func(reason string) {
		fyne.Do(func() {
			a.appendLine("[CLIENT] " + reason)
		})
	}
}

// appendLine adds one received line to the chat panel, keeping a bounded
// scrollback. Must run on the Fyne thread.
func (a *App) appendLine(line string) {
	lbl := widget.NewLabel(line)
	lbl.Wrapping = fyne.TextWrapWord
	a.chatBox.Add(lbl)
	if len(a.chatBox.Objects) > maxChatLines {
		a.chatBox.Objects = a.chatBox.Objects[len(a.chatBox.Objects)-maxChatLines:]
		a.chatBox.Refresh()
	}
	a.chatScroll.ScrollToBottom()
}

func (a *App) showConnectDialog() {
	serverEntry := widget.NewEntry()
	serverEntry.SetPlaceHolder(defaultServerHost)
	serverEntry.SetText(defaultServerHost)

	nickEntry := widget.NewEntry()
	nickEntry.SetPlaceHolder("Your nickname (optional)")

	form := container.NewVBox(
		widget.NewLabel("Server"),
		serverEntry,
		widget.NewLabel("Nickname"),
		nickEntry,
	)

	d := dialog.NewCustomConfirm("Connect", "Connect", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		addr, err := normalizeAddr(serverEntry.Text, defaultServerPort)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		nick := strings.TrimSpace(nickEntry.Text)
		go func() {
			if err := a.engine.Connect(addr, nick); err != nil {
				fyne.Do(func() {
					dialog.ShowError(err, a.window)
				})
			}
		}()
	}, a.window)
	d.Resize(fyne.NewSize(360, 220))
	d.Show()
}

// normalizeAddr completes a host or host:port input with the default port.
func normalizeAddr(input, defaultPort string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("server address is required")
	}

	host, port, err := net.SplitHostPort(input)
	if err == nil {
		return net.JoinHostPort(host, port), nil
	}

	if strings.Count(input, ":") > 1 {
		trimmed := strings.Trim(input, "[]")
		return net.JoinHostPort(trimmed, defaultPort), nil
	}

	return net.JoinHostPort(input, defaultPort), nil
}
