package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/saminlion/interview-analyzer/internal/cache"
	"github.com/saminlion/interview-analyzer/internal/config"
	"github.com/saminlion/interview-analyzer/internal/db"
	"github.com/saminlion/interview-analyzer/internal/media"
	"github.com/saminlion/interview-analyzer/internal/pipeline"
	"github.com/saminlion/interview-analyzer/internal/transcript"
	"github.com/saminlion/interview-analyzer/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode selects which widget receives key presses.
type Mode int

const (
	ModeMain Mode = iota
	ModePickFile
	ModeEditChunk
	ModeSaveAs
	ModeConfirmPurge
)

// DefaultSaveName is the initial destination offered by save-as.
const DefaultSaveName = "transcript.txt"

// PrefStore persists the last-used model and chunk length.
type PrefStore interface {
	Preferences() (*db.Preferences, error)
	SavePreferences(p db.Preferences) error
}

// Deps are the collaborators the TUI drives.
type Deps struct {
	Pipeline     *pipeline.Pipeline
	Store        PrefStore // optional
	CacheDir     string
	Backend      string // defaults to whisper
	Device       string // whisper only
	Model        string
	ChunkMinutes int
	StartDir     string
	Logger       *slog.Logger
}

// Model is the root bubbletea model for the analyzer TUI.
type Model struct {
	deps   Deps
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	// Settings
	modelIndex   int
	chunkMinutes int

	// Run state
	busy       bool
	job        *pipeline.Job
	file       string
	runMinutes int
	percent    float64

	// Transcript
	transcript     string
	lines          int
	hasResult      bool
	showTranscript bool

	// Widgets
	mode       Mode
	picker     filepicker.Model
	chunkInput textinput.Model
	saveInput  textinput.Model
	progress   progress.Model
	spinner    spinner.Model
	viewport   viewport.Model

	// UI state
	width      int
	height     int
	statusText string
	statusErr  bool
}

// New creates a new Model with default state.
func New(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Backend == "" {
		deps.Backend = config.BackendWhisper
	}
	if deps.Device == "" && deps.Backend == config.BackendWhisper {
		deps.Device = "cpu"
	}
	if deps.CacheDir == "" {
		deps.CacheDir = cache.DefaultDir()
	}
	minutes := deps.ChunkMinutes
	if minutes <= 0 {
		minutes = config.DefaultChunkMinutes
	}
	ctx, cancel := context.WithCancel(context.Background())

	fp := filepicker.New()
	fp.AllowedTypes = allowedTypes()
	if deps.StartDir != "" {
		fp.CurrentDirectory = deps.StartDir
	}

	chunk := textinput.New()
	chunk.Prompt = "Chunk Length (minutes): "
	chunk.CharLimit = 4
	chunk.SetValue(strconv.Itoa(minutes))

	save := textinput.New()
	save.Prompt = "Save As: "
	save.SetValue(DefaultSaveName)

	m := Model{
		deps:           deps,
		log:            logger.With("component", "app"),
		ctx:            ctx,
		cancel:         cancel,
		modelIndex:     modelIndex(config.DefaultModel),
		chunkMinutes:   minutes,
		showTranscript: true,
		picker:         fp,
		chunkInput:     chunk,
		saveInput:      save,
		progress:       progress.New(progress.WithGradient(ui.ProgressFrom, ui.ProgressTo), progress.WithWidth(40)),
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.SpinnerStyle)),
		viewport:       viewport.New(60, 10),
		statusText:     statusIdle,
	}
	if i := modelIndex(deps.Model); i >= 0 {
		m.modelIndex = i
	}
	return m
}

// Init returns the initial command: restore saved preferences.
func (m Model) Init() tea.Cmd {
	return loadPrefsCmd(m.deps.Store)
}

// Close cancels any in-flight step and removes the active job's files.
func (m Model) Close() {
	m.cancel()
	if m.job != nil {
		m.job.Cleanup()
	}
}

func allowedTypes() []string {
	var types []string
	for _, ext := range media.SupportedExtensions() {
		types = append(types, ext, strings.ToUpper(ext))
	}
	return types
}

func modelIndex(name string) int {
	for i, m := range config.Models {
		if m == name {
			return i
		}
	}
	return -1
}

func (m Model) currentModel() string {
	return config.Models[m.modelIndex]
}

// loadPrefsCmd reads saved preferences from SQLite.
func loadPrefsCmd(store PrefStore) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		prefs, err := store.Preferences()
		if err != nil {
			return PrefsLoadedMsg{} // fall back to defaults
		}
		return PrefsLoadedMsg{Prefs: prefs}
	}
}

// savePrefsCmd stores the settings of a run that is starting.
func savePrefsCmd(store PrefStore, logger *slog.Logger, p db.Preferences) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		if err := store.SavePreferences(p); err != nil {
			logger.Warn("save preferences", "error", err)
		}
		return nil
	}
}

func loadModelCmd(job *pipeline.Job) tea.Cmd {
	return func() tea.Msg {
		if err := job.LoadModel(); err != nil {
			return JobFailedMsg{Job: job, Err: err}
		}
		return ModelLoadedMsg{Job: job}
	}
}

func prepareCmd(ctx context.Context, job *pipeline.Job) tea.Cmd {
	return func() tea.Msg {
		if err := job.Prepare(ctx); err != nil {
			return JobFailedMsg{Job: job, Err: err}
		}
		return JobPreparedMsg{Job: job}
	}
}

func splitCmd(ctx context.Context, job *pipeline.Job) tea.Cmd {
	return func() tea.Msg {
		n, err := job.Split(ctx)
		if err != nil {
			return JobFailedMsg{Job: job, Err: err}
		}
		return JobSplitMsg{Job: job, Chunks: n}
	}
}

func transcribeNextCmd(ctx context.Context, job *pipeline.Job) tea.Cmd {
	return func() tea.Msg {
		finished, err := job.TranscribeNext(ctx)
		if err != nil {
			return JobFailedMsg{Job: job, Err: err}
		}
		done, total := job.Progress()
		return ChunkTranscribedMsg{Job: job, Done: done, Total: total, Finished: finished}
	}
}

func saveCmd(text, path string) tea.Cmd {
	return func() tea.Msg {
		if err := transcript.Save(text, path); err != nil {
			return SaveFailedMsg{Err: err}
		}
		return TranscriptSavedMsg{Path: path}
	}
}

func purgeCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		return CachePurgedMsg{Err: cache.PurgeModelCache(dir)}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case PrefsLoadedMsg:
		if msg.Prefs == nil {
			return m, nil
		}
		if i := modelIndex(msg.Prefs.Model); i >= 0 {
			m.modelIndex = i
		}
		if msg.Prefs.ChunkMinutes > 0 {
			m.chunkMinutes = msg.Prefs.ChunkMinutes
			m.chunkInput.SetValue(strconv.Itoa(m.chunkMinutes))
		}
		return m, nil

	case FileSelectedMsg:
		return m.startRun(msg.Path)

	case ModelLoadedMsg:
		if msg.Job != m.job {
			return m, nil
		}
		m.percent = pipeline.FractionModelLoaded
		if msg.Job.NeedsExtraction() {
			m.setStatus(statusExtracting)
		}
		return m, prepareCmd(m.ctx, msg.Job)

	case JobPreparedMsg:
		if msg.Job != m.job {
			return m, nil
		}
		m.setStatus(fmt.Sprintf(statusSplitting, m.runMinutes))
		return m, splitCmd(m.ctx, msg.Job)

	case JobSplitMsg:
		if msg.Job != m.job {
			return m, nil
		}
		m.percent = pipeline.FractionSplit
		if msg.Chunks == 0 {
			return m.finishRun()
		}
		m.setStatus(fmt.Sprintf(statusTranscribing, msg.Chunks))
		return m, transcribeNextCmd(m.ctx, msg.Job)

	case ChunkTranscribedMsg:
		if msg.Job != m.job {
			return m, nil
		}
		m.percent = pipeline.ChunkFraction(msg.Done, msg.Total)
		if msg.Finished {
			return m.finishRun()
		}
		m.setStatus(fmt.Sprintf(statusChunk, msg.Done+1, msg.Total))
		return m, transcribeNextCmd(m.ctx, msg.Job)

	case JobFailedMsg:
		if msg.Job != m.job {
			return m, nil
		}
		m.log.Error("transcription failed", "file", m.file, "error", msg.Err)
		msg.Job.Cleanup()
		m.job = nil
		m.busy = false
		m.percent = 0
		m.setError(statusForError(msg.Err))
		return m, nil

	case TranscriptSavedMsg:
		m.log.Info("transcript saved", "path", msg.Path)
		m.setStatus(fmt.Sprintf(statusSaved, msg.Path))
		return m, nil

	case SaveFailedMsg:
		m.log.Error("save transcript", "error", msg.Err)
		m.setError(fmt.Sprintf("Save Failed: %v", msg.Err))
		return m, nil

	case CachePurgedMsg:
		if msg.Err != nil {
			m.log.Error("delete model cache", "dir", m.deps.CacheDir, "error", msg.Err)
			m.setError(statusForError(msg.Err))
			return m, nil
		}
		m.log.Info("model cache deleted", "dir", m.deps.CacheDir)
		m.setStatus(statusCacheDeleted)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Directory listings and cursor blinks belong to the active widget.
	return m.updateActive(msg)
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case ModePickFile:
		m.picker, cmd = m.picker.Update(msg)
	case ModeEditChunk:
		m.chunkInput, cmd = m.chunkInput.Update(msg)
	case ModeSaveAs:
		m.saveInput, cmd = m.saveInput.Update(msg)
	}
	return m, cmd
}

// startRun validates the selection and issues the first pipeline step.
func (m Model) startRun(path string) (Model, tea.Cmd) {
	if m.busy {
		m.setError(statusBusy)
		return m, nil
	}
	if err := media.Classify(path).Check(); err != nil {
		m.log.Warn("rejected file", "file", path, "error", err)
		m.setError(statusForError(err))
		return m, nil
	}
	minutes, err := config.ParseChunkMinutes(m.chunkInput.Value())
	if err != nil {
		m.setError(statusForError(err))
		return m, nil
	}
	model := m.currentModel()
	job, err := m.deps.Pipeline.NewJob(path, pipeline.Options{
		Model:       model,
		ChunkLength: time.Duration(minutes) * time.Minute,
	})
	if err != nil {
		m.setError(statusForError(err))
		return m, nil
	}

	m.log.Info("transcription started", "file", path, "model", model, "chunk_minutes", minutes, "job", job.ID)
	m.busy = true
	m.job = job
	m.file = path
	m.runMinutes = minutes
	m.chunkMinutes = minutes
	m.percent = 0
	m.transcript = ""
	m.lines = 0
	m.hasResult = false
	m.viewport.SetContent("")
	m.setStatus(m.loadingStatus(model))

	return m, tea.Batch(
		loadModelCmd(job),
		m.spinner.Tick,
		savePrefsCmd(m.deps.Store, m.log, db.Preferences{Model: model, ChunkMinutes: minutes}),
	)
}

func (m Model) finishRun() (tea.Model, tea.Cmd) {
	res := m.job.Result()
	m.job.Cleanup()
	m.job = nil
	m.busy = false
	m.percent = pipeline.FractionDone
	m.transcript = res.Transcript
	m.lines = res.Lines
	m.hasResult = true
	m.viewport.SetContent(styleTranscript(m.transcript, m.viewport.Width))
	m.viewport.GotoTop()
	m.log.Info("transcription complete", "file", m.file, "lines", res.Lines)
	m.setStatus(fmt.Sprintf(statusComplete, res.Lines))
	return m, nil
}

// loadingStatus describes the model-load step for the configured backend.
func (m Model) loadingStatus(model string) string {
	switch m.deps.Backend {
	case config.BackendOpenAI:
		return statusLoadingOpenAI
	case config.BackendStub:
		return fmt.Sprintf(statusLoadingStub, model)
	default:
		return fmt.Sprintf(statusLoadingModel, model, m.deps.Device)
	}
}

func (m *Model) setStatus(s string) {
	m.statusText = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.statusText = s
	m.statusErr = true
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyCtrlC {
		m.cancel()
		return m, tea.Quit
	}

	switch m.mode {
	case ModePickFile:
		return m.handlePickerKey(msg)
	case ModeEditChunk:
		return m.handleChunkKey(msg)
	case ModeSaveAs:
		return m.handleSaveKey(msg)
	case ModeConfirmPurge:
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case KeyQuit, KeyQuitUpper:
		m.cancel()
		return m, tea.Quit

	case KeyOpen:
		if m.busy {
			m.setError(statusBusy)
			return m, nil
		}
		m.mode = ModePickFile
		return m, m.picker.Init()

	case KeyCycleModel:
		if m.busy {
			m.setError(statusBusy)
			return m, nil
		}
		m.modelIndex = (m.modelIndex + 1) % len(config.Models)
		m.setStatus(fmt.Sprintf(statusModelSet, m.currentModel()))
		return m, nil

	case KeyChunk:
		if m.busy {
			m.setError(statusBusy)
			return m, nil
		}
		m.mode = ModeEditChunk
		cmd := m.chunkInput.Focus()
		return m, cmd

	case KeyToggle:
		m.showTranscript = !m.showTranscript
		return m, nil

	case KeySave:
		if !m.hasResult {
			m.setError(statusNothingToSave)
			return m, nil
		}
		m.mode = ModeSaveAs
		cmd := m.saveInput.Focus()
		return m, cmd

	case KeyDeleteCache:
		if m.busy {
			m.setError(statusBusy)
			return m, nil
		}
		m.mode = ModeConfirmPurge
		return m, nil
	}

	if m.showTranscript {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyEsc {
		m.mode = ModeMain
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.mode = ModeMain
		next, runCmd := m.startRun(path)
		return next, tea.Batch(cmd, runCmd)
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.mode = ModeMain
		m.log.Warn("rejected file", "file", path)
		m.setError(statusUnsupported)
		return m, cmd
	}
	return m, cmd
}

func (m Model) handleChunkKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEnter:
		minutes, err := config.ParseChunkMinutes(m.chunkInput.Value())
		if err != nil {
			m.setError(statusForError(err))
			return m, nil
		}
		m.chunkMinutes = minutes
		m.chunkInput.SetValue(strconv.Itoa(minutes))
		m.chunkInput.Blur()
		m.mode = ModeMain
		m.setStatus(fmt.Sprintf(statusChunkSet, minutes))
		return m, nil

	case KeyEsc:
		m.chunkInput.SetValue(strconv.Itoa(m.chunkMinutes))
		m.chunkInput.Blur()
		m.mode = ModeMain
		return m, nil
	}

	var cmd tea.Cmd
	m.chunkInput, cmd = m.chunkInput.Update(msg)
	return m, cmd
}

func (m Model) handleSaveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEnter:
		path := strings.TrimSpace(m.saveInput.Value())
		if path == "" {
			path = DefaultSaveName
		}
		m.saveInput.Blur()
		m.mode = ModeMain
		return m, saveCmd(m.transcript, path)

	case KeyEsc:
		m.saveInput.Blur()
		m.mode = ModeMain
		return m, nil
	}

	var cmd tea.Cmd
	m.saveInput, cmd = m.saveInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyConfirm, KeyEnter:
		m.mode = ModeMain
		return m, purgeCmd(m.deps.CacheDir)

	case KeyCancel, KeyEsc:
		m.mode = ModeMain
		m.setStatus(statusCacheCanceled)
		return m, nil
	}
	return m, nil
}

func (m *Model) resize() {
	m.progress.Width = max(20, min(60, m.width-4))
	m.viewport.Width = max(20, m.width-2)
	// Reserve: header(2) + dividers(3) + progress(1) + status(1) + title(1) + prompt(1) + footer(1)
	m.viewport.Height = max(3, m.height-10)
	m.viewport.SetContent(styleTranscript(m.transcript, m.viewport.Width))
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	divider := ui.DividerStyle.Render(strings.Repeat("─", m.width))

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderSettings())
	sections = append(sections, divider)
	sections = append(sections, m.progress.ViewAs(m.percent))
	sections = append(sections, m.renderStatus())
	sections = append(sections, divider)

	switch m.mode {
	case ModePickFile:
		sections = append(sections, ui.PanelTitleStyle.Render("SELECT AUDIO/VIDEO FILE"))
		sections = append(sections, ui.DimStyle.Render(m.picker.CurrentDirectory))
		sections = append(sections, m.picker.View())
	case ModeConfirmPurge:
		sections = append(sections, m.renderConfirmDialog())
	default:
		sections = append(sections, m.renderTranscript())
	}

	switch m.mode {
	case ModeEditChunk:
		sections = append(sections, ui.PromptStyle.Render(m.chunkInput.View()))
	case ModeSaveAs:
		sections = append(sections, ui.PromptStyle.Render(m.saveInput.View()))
	}

	sections = append(sections, divider)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("INTERVIEW ANALYZER")
	if m.file == "" {
		return title
	}
	return title + ui.DimStyle.Render(" · "+filepath.Base(m.file))
}

func (m Model) renderSettings() string {
	field := func(label, value string) string {
		return ui.LabelStyle.Render(label+" ") + ui.ValueStyle.Render(value)
	}
	fields := []string{
		field("Model", m.currentModel()),
		field("Chunk", fmt.Sprintf("%d min", m.chunkMinutes)),
	}
	if m.deps.Backend == config.BackendWhisper {
		fields = append(fields, field("Device", m.deps.Device))
	} else {
		fields = append(fields, field("Backend", m.deps.Backend))
	}
	return strings.Join(fields, "  ")
}

func (m Model) renderStatus() string {
	var prefix string
	if m.busy {
		prefix = m.spinner.View() + " "
	}
	text := truncateToWidth(m.statusText, max(10, m.width-lipgloss.Width(prefix)))
	if m.statusErr {
		return prefix + ui.ErrorTextStyle.Render(text)
	}
	if m.hasResult && !m.busy && m.percent == pipeline.FractionDone {
		return prefix + ui.SuccessStyle.Render(text)
	}
	return prefix + ui.StatusStyle.Render(text)
}

func (m Model) renderTranscript() string {
	header := ui.PanelTitleStyle.Render("TRANSCRIPT")
	if m.hasResult {
		header += ui.DimStyle.Render(fmt.Sprintf(" (%d lines)", m.lines))
	}

	if !m.showTranscript {
		return header + "\n" + ui.DimStyle.Render("  Hidden. Press t to show.")
	}
	if !m.hasResult {
		return header + "\n" + ui.DimStyle.Render("  No transcript yet. Press o to select a file.")
	}
	return header + "\n" + m.viewport.View()
}

func (m Model) renderConfirmDialog() string {
	width := max(20, min(60, m.width-6))
	body := wrapText("This will remove the downloaded Whisper model files from your disk. Are you sure?", width)
	content := ui.ErrorStyle.Render("Delete Whisper Cache?") + "\n" +
		strings.Join(body, "\n") + "\n\n" +
		ui.DimStyle.Render(m.deps.CacheDir) + "\n\n" +
		ui.FooterKeyStyle.Render("y") + ui.FooterDescStyle.Render(" Confirm  ") +
		ui.FooterKeyStyle.Render("n") + ui.FooterDescStyle.Render(" Cancel")
	return ui.DialogStyle.Render(content)
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	var parts []string
	switch m.mode {
	case ModePickFile:
		parts = append(parts, key("↑↓", "Move"), key("enter", "Select"), key("←", "Up Dir"), key("esc", "Close"))
	case ModeEditChunk, ModeSaveAs:
		parts = append(parts, key("enter", "Confirm"), key("esc", "Cancel"))
	case ModeConfirmPurge:
		parts = append(parts, key("y", "Confirm"), key("n", "Cancel"))
	default:
		parts = append(parts, key("o", "Open"), key("m", "Model"), key("c", "Chunk"))
		if m.showTranscript {
			parts = append(parts, key("t", "Hide"))
		} else {
			parts = append(parts, key("t", "Show"))
		}
		if m.hasResult {
			parts = append(parts, key("s", "Save"))
		}
		parts = append(parts, key("x", "Delete Cache"), key("q", "Quit"))
	}
	return strings.Join(parts, "  ")
}

// styleTranscript wraps transcript lines to width and dims their timestamps.
func styleTranscript(text string, width int) string {
	if text == "" {
		return ""
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		ts, body := "", line
		if i := strings.Index(line, "] "); strings.HasPrefix(line, "[") && i > 0 {
			ts, body = line[:i+1], line[i+2:]
		}
		prefixWidth := 0
		if ts != "" {
			prefixWidth = len(ts) + 1
		}
		wrapped := wrapText(body, max(10, width-prefixWidth))
		first := wrapped[0]
		if ts != "" {
			first = ui.TimestampStyle.Render(ts) + " " + first
		}
		out = append(out, first)
		indent := strings.Repeat(" ", prefixWidth)
		for _, wl := range wrapped[1:] {
			out = append(out, indent+wl)
		}
	}
	return strings.Join(out, "\n")
}

// Helpers

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	// Simple truncation for non-styled strings
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
