// Package mcpserver exposes the transcription pipeline as MCP tools over
// stdio, so agents can transcribe interview recordings without the TUI.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/saminlion/interview-analyzer/internal/config"
	"github.com/saminlion/interview-analyzer/internal/media"
	"github.com/saminlion/interview-analyzer/internal/pipeline"
	"github.com/saminlion/interview-analyzer/internal/transcript"
)

// Tool names.
const (
	ToolTranscribeFile = "transcribe_file"
	ToolListModels     = "list_models"
)

// Transcriber runs a full transcription. *pipeline.Pipeline satisfies it.
type Transcriber interface {
	Run(ctx context.Context, path string, opts pipeline.Options, progress func(float64)) (pipeline.Result, error)
}

// Server owns the MCP server and the defaults applied to tool calls.
type Server struct {
	mcp          *server.MCPServer
	transcriber  Transcriber
	model        string
	chunkMinutes int
	log          *slog.Logger
}

// New registers the analyzer tools. cfg supplies the default model and
// chunk length for calls that omit them.
func New(t Transcriber, cfg config.Config, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcp:          server.NewMCPServer("interview-analyzer", version, server.WithToolCapabilities(false)),
		transcriber:  t,
		model:        cfg.Model,
		chunkMinutes: cfg.ChunkMinutes,
		log:          logger.With("component", "mcp"),
	}
	if s.model == "" {
		s.model = config.DefaultModel
	}
	if s.chunkMinutes <= 0 {
		s.chunkMinutes = config.DefaultChunkMinutes
	}

	s.mcp.AddTool(mcp.NewTool(ToolTranscribeFile,
		mcp.WithDescription("Transcribe an audio or video file into timestamped lines."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path to a .wav, .mp3, .m4a, .mp4, .mov or .avi file"),
		),
		mcp.WithString("model",
			mcp.Description("Whisper model size"),
			mcp.Enum(config.Models...),
		),
		mcp.WithNumber("chunk_minutes",
			mcp.Description("Chunk length in minutes"),
		),
		mcp.WithString("output",
			mcp.Description("Optional path to save the transcript as UTF-8 text"),
		),
	), s.handleTranscribeFile)

	s.mcp.AddTool(mcp.NewTool(ToolListModels,
		mcp.WithDescription("List the selectable Whisper model sizes."),
	), s.handleListModels)

	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ServeStdio blocks serving requests on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleTranscribeFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	model := req.GetString("model", s.model)
	minutes := req.GetInt("chunk_minutes", s.chunkMinutes)
	if minutes <= 0 {
		return mcp.NewToolResultError("chunk_minutes must be a positive integer"), nil
	}
	output := strings.TrimSpace(req.GetString("output", ""))

	opts := pipeline.Options{Model: model, ChunkLength: time.Duration(minutes) * time.Minute}
	s.log.Info("transcribe requested", "path", path, "model", model, "chunk_minutes", minutes)

	start := time.Now()
	res, err := s.transcriber.Run(ctx, path, opts, s.progressNotifier(ctx, req))
	if err != nil {
		s.log.Warn("transcribe failed", "path", path, "error", err)
		return mcp.NewToolResultError(describe(err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transcription Complete (%d Lines).\n", res.Lines)
	if output != "" {
		if err := transcript.Save(res.Transcript, output); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save transcript: %v", err)), nil
		}
		fmt.Fprintf(&b, "Transcript Saved: %s\n", output)
	}
	b.WriteString("\n")
	b.WriteString(res.Transcript)

	s.log.Info("transcribe finished", "path", path, "lines", res.Lines, "elapsed", time.Since(start).Round(time.Millisecond))
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleListModels(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lines := make([]string, 0, len(config.Models))
	for _, m := range config.Models {
		if m == s.model {
			m += " (default)"
		}
		lines = append(lines, m)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

// progressNotifier forwards pipeline fractions as MCP progress
// notifications when the caller supplied a progress token.
func (s *Server) progressNotifier(ctx context.Context, req mcp.CallToolRequest) func(float64) {
	if req.Params.Meta == nil || req.Params.Meta.ProgressToken == nil {
		return nil
	}
	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return nil
	}
	token := req.Params.Meta.ProgressToken
	return func(f float64) {
		err := srv.SendNotificationToClient(ctx, "notifications/progress", map[string]any{
			"progressToken": token,
			"progress":      f,
			"total":         1.0,
		})
		if err != nil {
			s.log.Debug("progress notification failed", "error", err)
		}
	}
}

func describe(err error) string {
	if errors.Is(err, media.ErrUnsupportedFileType) || errors.Is(err, config.ErrInvalidConfiguration) {
		return err.Error()
	}
	return "transcription failed: " + err.Error()
}
