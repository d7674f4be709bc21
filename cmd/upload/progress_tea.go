//go:build !no_bubbletea

package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	pathStyle = lipgloss.NewStyle().Bold(true)
)

// bytesReadMsg reports how many bytes of the file were written to storage so far
type bytesReadMsg int64

type progressErrMsg struct{ err error }

// progressDoneMsg carries the storage path of the uploaded file
type progressDoneMsg struct{ path string }

type uploadModel struct {
	progress  progress.Model
	fileName  string
	fileSize  int64
	bytesRead int64
	stored    string
	err       error
	done      bool
}

func newUploadModel(fileName string, fileSize int64) uploadModel {
	return uploadModel{
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(50),
		),
		fileName: fileName,
		fileSize: fileSize,
	}
}

func (m uploadModel) Init() tea.Cmd {
	return nil
}

func (m uploadModel) percent() float64 {
	if m.fileSize <= 0 {
		return 0
	}
	return float64(m.bytesRead) / float64(m.fileSize)
}

func (m uploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = max(min(msg.Width-10, 80), 10)
		return m, nil

	case bytesReadMsg:
		m.bytesRead = int64(msg)
		return m, m.progress.SetPercent(m.percent())

	case progressErrMsg:
		m.err = msg.err
		return m, tea.Quit

	case progressDoneMsg:
		m.done = true
		m.stored = msg.path
		m.bytesRead = m.fileSize
		return m, tea.Quit

	case progress.FrameMsg:
		if m.done {
			return m, nil
		}
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m uploadModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  ❌ Error: %s\n\n", m.err.Error())
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  📁 %s\n", m.fileName))
	sb.WriteString(fmt.Sprintf("  📊 %s / %s\n\n",
		humanize.Bytes(uint64(m.bytesRead)),
		humanize.Bytes(uint64(m.fileSize)),
	))

	sb.WriteString("  ")
	if m.done {
		sb.WriteString(m.progress.ViewAs(1.0))
	} else {
		sb.WriteString(m.progress.View())
	}
	sb.WriteString("\n\n")

	if m.done {
		sb.WriteString("  √ Stored as " + pathStyle.Render(m.stored) + "\n\n")
	} else {
		sb.WriteString(helpStyle.Render("  Press Ctrl+C to cancel"))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// UploadProgress drives the progress UI of a single upload
type UploadProgress struct {
	program *tea.Program
	cancel  context.CancelFunc
}

func NewUploadProgress(ctx context.Context, fileName string, fileSize int64) *UploadProgress {
	ctx, cancel := context.WithCancel(ctx)
	p := tea.NewProgram(
		newUploadModel(fileName, fileSize),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
		tea.WithInput(nil),
	)
	return &UploadProgress{
		program: p,
		cancel:  cancel,
	}
}

// Start runs the UI in a goroutine and returns immediately
func (up *UploadProgress) Start() {
	go func() {
		up.program.Run()
	}()
}

func (up *UploadProgress) UpdateProgress(bytesRead int64) {
	up.program.Send(bytesReadMsg(bytesRead))
}

func (up *UploadProgress) SetError(err error) {
	up.program.Send(progressErrMsg{err: err})
}

func (up *UploadProgress) Done(storedPath string) {
	up.program.Send(progressDoneMsg{path: storedPath})
}

func (up *UploadProgress) Wait() {
	up.program.Wait()
	up.cancel()
}
