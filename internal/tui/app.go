package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/logging"
	"github.com/neckcare/neckscan/internal/report"
	"github.com/neckcare/neckscan/internal/session"
	"github.com/neckcare/neckscan/internal/ui"
)

// ImageTypes are the extensions offered by the file picker
var ImageTypes = []string{".jpg", ".jpeg", ".png", ".webp", ".heic", ".heif", ".gif", ".bmp"}

// Screen labels
const (
	IdleTitle    = "목주름 AI 진단"
	IdleSubtitle = "목 사진을 선택하면 AI가 주름 단계를 분석합니다"
	CopiedShare  = "공유 문구를 클립보드에 복사했어요"
	CopiedLink   = "상품 링크를 클립보드에 복사했어요"
)

// Messages
type snapshotMsg struct {
	snap session.Snapshot
}

type subscriptionClosedMsg struct{}

type imageLoadedMsg struct {
	image analysis.Image
	err   error
}

type clipboardMsg struct {
	status string
	err    error
}

// Config controls an AppModel
type Config struct {
	Links      report.Links
	StartImage string // Optional path analysed on start
	StartDir   string // Initial file picker directory; defaults to the working directory
}

// AppModel renders one session.Machine. The machine is the only source of
// state: the model mirrors the latest snapshot and sends user intents back.
type AppModel struct {
	machine     *session.Machine
	updates     <-chan session.Snapshot
	unsubscribe func()
	config      Config
	copy        func(string) error

	snapshot  session.Snapshot
	view      *report.View
	lastImage *analysis.Image
	status    string
	statusErr bool

	picker   filepicker.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMaps

	Width  int
	Height int
}

// NewAppModel subscribes to m and returns a model starting at its current state
func NewAppModel(m *session.Machine, cfg Config) AppModel {
	updates, unsubscribe := m.Subscribe()

	fp := filepicker.New()
	fp.AllowedTypes = ImageTypes
	fp.CurrentDirectory = cfg.StartDir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		}
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(SpinnerStyle),
	)

	return AppModel{
		machine:     m,
		updates:     updates,
		unsubscribe: unsubscribe,
		config:      cfg,
		copy:        clipboard.WriteAll,
		snapshot:    m.Snapshot(),
		picker:      fp,
		spinner:     sp,
		viewport:    viewport.New(contentWidth(80), contentHeight(24)),
		help:        help.New(),
		keys:        newKeyMaps(),
		Width:       80,
		Height:      24,
	}
}

// Init starts the file picker and the subscription, and loads the start image
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.picker.Init(), waitForSnapshot(m.updates)}
	if m.config.StartImage != "" {
		cmds = append(cmds, loadImage(m.config.StartImage))
	}
	return tea.Batch(cmds...)
}

// Screen returns the state currently on screen
func (m AppModel) Screen() session.State {
	return m.snapshot.State
}

// Update handles all messages and routes keys to the current screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.viewport.Width = contentWidth(msg.Width)
		m.viewport.Height = contentHeight(msg.Height)
		m.refreshReport()
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case snapshotMsg:
		return m.applySnapshot(msg.snap)

	case subscriptionClosedMsg:
		return m, tea.Quit

	case imageLoadedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		return m.submit(msg.image)

	case clipboardMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("클립보드 복사 실패: %v", msg.err), true)
		} else {
			m.setStatus(msg.status, false)
		}
		return m, nil

	case spinner.TickMsg:
		if m.snapshot.State != session.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.snapshot.State {
	case session.StateIdle:
		return m.updateIdle(msg)
	case session.StateLoading:
		return m.updateLoading(msg)
	case session.StateResult:
		return m.updateResult(msg)
	case session.StateError:
		return m.updateError(msg)
	}
	return m, nil
}

// applySnapshot mirrors a machine snapshot. Older revisions are ignored.
func (m AppModel) applySnapshot(snap session.Snapshot) (tea.Model, tea.Cmd) {
	next := waitForSnapshot(m.updates)
	if snap.Revision < m.snapshot.Revision {
		return m, next
	}

	prev := m.snapshot
	m.snapshot = snap

	// Updates coalesce, so a new request may arrive without a visible state change
	if snap.State == prev.State && snap.RequestID == prev.RequestID {
		return m, next
	}

	m.status = ""
	m.view = nil

	switch snap.State {
	case session.StateLoading:
		return m, tea.Batch(next, m.spinner.Tick)

	case session.StateResult:
		view, err := report.BuildView(snap.Result, m.config.Links)
		if err != nil {
			logging.Warn("Result could not be rendered", zap.Error(err))
			m.snapshot.State = session.StateError
			m.snapshot.Error = analysis.MalformedMessage
			return m, next
		}
		m.view = &view
		m.refreshReport()
		m.viewport.GotoTop()
	}
	return m, next
}

func (m AppModel) updateIdle(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.idle.Quit) {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, tea.Batch(cmd, loadImage(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setStatus(fmt.Sprintf("이미지 파일이 아닙니다: %s", path), true)
	}
	return m, cmd
}

func (m AppModel) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.loading.Cancel):
		m.machine.Reset()
	case key.Matches(keyMsg, m.keys.loading.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m AppModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.result.Share):
		if m.view != nil {
			return m, copyText(m.copy, m.view.ShareText, CopiedShare)
		}
	case key.Matches(keyMsg, m.keys.result.Product):
		if m.view != nil {
			return m, copyText(m.copy, m.view.ProductURL, CopiedLink)
		}
	case key.Matches(keyMsg, m.keys.result.Again):
		m.machine.Reset()
	case key.Matches(keyMsg, m.keys.result.Quit):
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.error.Retry):
		if m.lastImage != nil {
			return m.submit(*m.lastImage)
		}
		m.machine.Reset()
	case key.Matches(keyMsg, m.keys.error.Again):
		m.machine.Reset()
	case key.Matches(keyMsg, m.keys.error.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// submit hands an image to the machine. The Loading screen appears when the
// resulting snapshot arrives.
func (m AppModel) submit(img analysis.Image) (tea.Model, tea.Cmd) {
	m.lastImage = &img
	if err := m.machine.SubmitImage(img); err != nil {
		m.setStatus(err.Error(), true)
	}
	return m, nil
}

func (m *AppModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *AppModel) refreshReport() {
	if m.view == nil {
		return
	}
	m.viewport.SetContent(ui.RenderReportCard(*m.view, contentWidth(m.Width)-1))
}

// View renders the current screen
func (m AppModel) View() string {
	var content string
	var helpText string

	switch m.snapshot.State {
	case session.StateIdle:
		content = m.idleView()
		helpText = m.help.View(m.keys.idle)
	case session.StateLoading:
		content = m.loadingView()
		helpText = m.help.View(m.keys.loading)
	case session.StateResult:
		content = m.viewport.View()
		helpText = m.help.View(m.keys.result)
	case session.StateError:
		content = ui.RenderErrorBox(m.snapshot.Error, []string{ui.RetryHint}, contentWidth(m.Width))
		helpText = m.help.View(m.keys.error)
	}

	if m.status != "" {
		style := StatusStyle
		if m.statusErr {
			style = StatusErrorStyle
		}
		content += "\n" + style.Render(m.status)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m AppModel) idleView() string {
	var b strings.Builder
	b.WriteString(RenderTitle(IdleTitle))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle(IdleSubtitle))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	return b.String()
}

func (m AppModel) loadingView() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(LoadingMessageStyle.Render(m.snapshot.LoadingMessage))
	if img := m.snapshot.Image; img != nil && img.Name != "" {
		b.WriteString("\n\n")
		b.WriteString(RenderSubtitle(fmt.Sprintf("%s · %s · %d bytes", img.Name, img.MIMEType, img.Size)))
	}
	return b.String()
}

// waitForSnapshot delivers the next machine snapshot as a message
func waitForSnapshot(updates <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return subscriptionClosedMsg{}
		}
		return snapshotMsg{snap: snap}
	}
}

func loadImage(path string) tea.Cmd {
	return func() tea.Msg {
		img, err := analysis.LoadImage(path)
		return imageLoadedMsg{image: img, err: err}
	}
}

func copyText(write func(string) error, text, status string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{status: status, err: write(text)}
	}
}

// Run shows the TUI for m until the user quits or ctx is cancelled
func Run(ctx context.Context, m *session.Machine, cfg Config) error {
	model := NewAppModel(m, cfg)
	defer model.unsubscribe()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}
